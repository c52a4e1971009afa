package objmgr

import "fmt"

// fakeNetlink is a stand-in NetlinkAdapter for tests: it tracks admin
// state, installed addresses and the current default route gateway
// without touching the kernel.
type fakeNetlink struct {
	up      map[string]bool
	carrier map[string]bool
	addrs   map[string]map[string]bool
	route   string
}

func newFakeNetlink() *fakeNetlink {
	return &fakeNetlink{
		up:      make(map[string]bool),
		carrier: make(map[string]bool),
		addrs:   make(map[string]map[string]bool),
	}
}

func (f *fakeNetlink) ReadLink(name string) (string, bool, bool, error) {
	return "00:11:22:33:44:55", f.up[name], f.carrier[name], nil
}

func (f *fakeNetlink) SetLinkUp(name string) error {
	f.up[name] = true
	return nil
}

func (f *fakeNetlink) SetLinkDown(name string) error {
	f.up[name] = false
	return nil
}

func (f *fakeNetlink) AddAddress(name, cidr string) error {
	if f.addrs[name] == nil {
		f.addrs[name] = make(map[string]bool)
	}
	f.addrs[name][cidr] = true
	return nil
}

func (f *fakeNetlink) DelAddress(name, cidr string) error {
	delete(f.addrs[name], cidr)
	return nil
}

func (f *fakeNetlink) AddDefaultRoute(gateway string) error {
	f.route = gateway
	return nil
}

func (f *fakeNetlink) DelDefaultRoute(gateway string) error {
	if f.route == gateway {
		f.route = ""
	}
	return nil
}

func (f *fakeNetlink) hasAddress(name, cidr string) bool {
	return f.addrs[name][cidr]
}

// fakeResolver is a stand-in ResolverWriter for tests.
type fakeResolver struct {
	written     bool
	erased      bool
	nameservers []string
	domain      string
	searches    []string
}

func (f *fakeResolver) Write(nameservers []string, domain string, searches []string) error {
	f.written = true
	f.erased = false
	f.nameservers = nameservers
	f.domain = domain
	f.searches = searches
	return nil
}

func (f *fakeResolver) Erase() error {
	f.erased = true
	f.written = false
	return nil
}

// fakeLister publishes a fixed set of physical links for tests.
type fakeLister struct {
	links []PhysicalLink
}

func (f *fakeLister) ListPhysicalLinks() ([]PhysicalLink, error) {
	return f.links, nil
}

// newTestDaemonParts builds an Interfaces inventory over names (one
// physical link each), plus the Settings/Connections inventories wired
// to it, backed by a fakeNetlink and fakeResolver.
func newTestDaemonParts(names ...string) (*Interfaces, *Settings, *Connections, *fakeNetlink, *fakeResolver) {
	nl := newFakeNetlink()
	var links []PhysicalLink
	for _, n := range names {
		nl.up[n] = false
		nl.carrier[n] = true
		links = append(links, PhysicalLink{Name: n, MAC: "00:11:22:33:44:55", Up: false, Carrier: true})
	}
	lister := &fakeLister{links: links}

	ifaces, err := NewInterfaces("/org/blackox/Loom/Interface", lister, nl, nil)
	if err != nil {
		panic(fmt.Sprintf("newTestDaemonParts: %v", err))
	}

	settings := NewSettings("/org/blackox/Loom/Setting")
	resolver := &fakeResolver{}
	conns := NewConnections("/org/blackox/Loom/Connection", ifaces, settings, resolver)

	return ifaces, settings, conns, nl, resolver
}
