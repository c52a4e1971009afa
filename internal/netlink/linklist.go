package netlink

import (
	"net"
	"os"

	"github.com/blackox/loomd/internal/objmgr"
)

// Lister implements objmgr.LinkLister over the kernel's link list. A
// link qualifies iff it has a name, is not loopback, and is a physical
// device -- i.e. has no virtual "kind" (VLAN, bond, bridge, ...).
// Physical devices expose a /sys/class/net/<name>/device symlink to
// their backing PCI/USB device; kernel-synthesised devices do not.
type Lister struct{}

// NewLister returns a ready-to-use Lister.
func NewLister() *Lister { return &Lister{} }

// ListPhysicalLinks enumerates kernel links and filters to those
// eligible for Interface construction at startup.
func (l *Lister) ListPhysicalLinks() ([]objmgr.PhysicalLink, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []objmgr.PhysicalLink
	for _, iface := range ifaces {
		if iface.Name == "" {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if !isPhysical(iface.Name) {
			continue
		}
		out = append(out, objmgr.PhysicalLink{
			Name:    iface.Name,
			MAC:     iface.HardwareAddr.String(),
			Up:      iface.Flags&net.FlagUp != 0,
			Carrier: readCarrier(iface.Name),
		})
	}
	return out, nil
}

// isPhysical reports whether name backs onto a real device rather than
// a kernel-synthesised one (VLAN, bond, bridge, tun/tap, ...).
func isPhysical(name string) bool {
	_, err := os.Lstat("/sys/class/net/" + name + "/device")
	return err == nil
}
