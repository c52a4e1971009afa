package objmgr

// NetlinkAdapter is the capability surface Interface and Connection use
// to reach the kernel. Implemented by internal/netlink.Adapter; declared
// here so objmgr has no dependency on the concrete rtnetlink encoding.
type NetlinkAdapter interface {
	ReadLink(name string) (mac string, up bool, carrier bool, err error)
	SetLinkUp(name string) error
	SetLinkDown(name string) error
	AddAddress(name, cidr string) error
	DelAddress(name, cidr string) error
	AddDefaultRoute(gateway string) error
	DelDefaultRoute(gateway string) error
}

// ResolverWriter is the capability surface Connection uses to rewrite
// the system resolver file. Implemented by internal/resolver.Writer.
type ResolverWriter interface {
	Write(nameservers []string, domain string, searches []string) error
	Erase() error
}

// Interface mirrors one kernel link. It is created once per physical,
// non-loopback link discovered at startup and never destroyed during
// the daemon's lifetime; only its cached state (state, carrier) is
// mutated, and only by tick reconciliation. Connection apply/revert
// change the kernel link through the NetlinkAdapter; the cache picks
// that up on the next Reconcile.
type Interface struct {
	name       string
	mac        string
	state      bool
	carrier    bool
	objectPath string

	netlink NetlinkAdapter

	// onChanged, if set, is invoked whenever Reconcile observes a
	// state or carrier transition. The Daemon wires this to its
	// ChangeHub.
	onChanged func(iface *Interface)
}

// newInterface constructs an Interface from its initial kernel-read
// attributes. mac is captured once and never re-read.
func newInterface(name, mac string, state, carrier bool, netlink NetlinkAdapter) *Interface {
	return &Interface{
		name:    name,
		mac:     mac,
		state:   state,
		carrier: carrier,
		netlink: netlink,
	}
}

// Name returns the kernel link name.
func (i *Interface) Name() string { return i.name }

// MAC returns the hardware address read once at construction.
func (i *Interface) MAC() string { return i.mac }

// State returns the cached admin up/down state.
func (i *Interface) State() bool { return i.state }

// Carrier returns the cached carrier state.
func (i *Interface) Carrier() bool { return i.carrier }

// ObjectPath returns the path this Interface was published under.
func (i *Interface) ObjectPath() string { return i.objectPath }

// SetUp brings the link up at the kernel.
func (i *Interface) SetUp() error { return i.netlink.SetLinkUp(i.name) }

// SetDown brings the link down at the kernel.
func (i *Interface) SetDown() error { return i.netlink.SetLinkDown(i.name) }

// AddAddress installs cidr on the link.
func (i *Interface) AddAddress(cidr string) error { return i.netlink.AddAddress(i.name, cidr) }

// DelAddress removes cidr from the link.
func (i *Interface) DelAddress(cidr string) error { return i.netlink.DelAddress(i.name, cidr) }

// Reconcile re-reads flags and carrier from the kernel. If either
// differs from the cached value it updates the cache and invokes
// onChanged. Called once per Daemon tick.
func (i *Interface) Reconcile() {
	_, up, carrier, err := i.netlink.ReadLink(i.name)
	if err != nil {
		return
	}
	if up == i.state && carrier == i.carrier {
		return
	}
	i.state = up
	i.carrier = carrier
	if i.onChanged != nil {
		i.onChanged(i)
	}
}
