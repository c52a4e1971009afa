package objmgr

import "fmt"

// LinkLister enumerates kernel links for startup discovery. A link
// qualifies for Interface construction iff it has a name, is not
// loopback, and is a physical device (no virtual "kind", e.g. not a
// VLAN or bond).
type LinkLister interface {
	ListPhysicalLinks() ([]PhysicalLink, error)
}

// PhysicalLink is one kernel link as reported by LinkLister, already
// filtered to the startup-eligible set.
type PhysicalLink struct {
	Name    string
	MAC     string
	Up      bool
	Carrier bool
}

// Interfaces is the inventory of discovered Interfaces, built once at
// Daemon construction and never mutated afterward except for its
// active-subset list.
type Interfaces struct {
	basePath string
	entries  map[string]*Interface
	order    []string
	active   []string
}

// NewInterfaces enumerates physical links via lister and constructs one
// Interface per qualifying link, publishing it under
// "<basePath>/<name>".
func NewInterfaces(basePath string, lister LinkLister, netlink NetlinkAdapter, onChanged func(*Interface)) (*Interfaces, error) {
	links, err := lister.ListPhysicalLinks()
	if err != nil {
		return nil, fmt.Errorf("enumerate links: %w", err)
	}

	inv := &Interfaces{
		basePath: basePath,
		entries:  make(map[string]*Interface),
	}
	for _, link := range links {
		iface := newInterface(link.Name, link.MAC, link.Up, link.Carrier, netlink)
		iface.onChanged = onChanged
		iface.objectPath = fmt.Sprintf("%s/%s", basePath, link.Name)
		inv.entries[iface.objectPath] = iface
		inv.order = append(inv.order, iface.objectPath)
	}
	return inv, nil
}

// Paths returns every published Interface object path.
func (inv *Interfaces) Paths() []string {
	out := make([]string, len(inv.order))
	copy(out, inv.order)
	return out
}

// ActivePaths returns the object paths currently referenced by an
// active Connection.
func (inv *Interfaces) ActivePaths() []string {
	out := make([]string, len(inv.active))
	copy(out, inv.active)
	return out
}

// ByPath looks up an Interface by its published object path.
func (inv *Interfaces) ByPath(path string) (*Interface, bool) {
	iface, ok := inv.entries[path]
	return iface, ok
}

// All returns every Interface, for tick reconciliation.
func (inv *Interfaces) All() []*Interface {
	out := make([]*Interface, 0, len(inv.order))
	for _, p := range inv.order {
		out = append(out, inv.entries[p])
	}
	return out
}

// AddActive appends iface's path to the active-subset list. The caller
// guarantees no duplicate is introduced, per invariant 2.
func (inv *Interfaces) AddActive(iface *Interface) {
	inv.active = append(inv.active, iface.ObjectPath())
}

// RemoveActive filters iface's path out of the active-subset list.
func (inv *Interfaces) RemoveActive(iface *Interface) {
	inv.active = removeString(inv.active, iface.ObjectPath())
}
