// Package netlink is a minimal rtnetlink client: read link, set link
// flags, add/del address, add/del default route. Built directly on the
// stdlib syscall package rather than vishvananda/netlink -- the handful
// of RTM_* requests Loom needs does not justify the extra
// golang.org/x/sys surface that library pulls in.
package netlink

import (
	"encoding/binary"
	"fmt"
	"net"
	"os"
	"strings"
	"syscall"
	"unsafe"
)

const (
	rtmFlagReplace = 0x100 // NLM_F_REPLACE
	rtmFlagCreate  = 0x400 // NLM_F_CREATE

	rtTableMain     = 254
	rtProtoStatic   = 4
	rtScopeUniverse = 0
	rtTypeUnicast   = 1

	ifaFlagPermanent = 0x80
)

// Adapter implements objmgr.NetlinkAdapter over raw rtnetlink sockets.
// Each operation opens a fresh AF_NETLINK/NETLINK_ROUTE socket, performs
// the request and closes it.
type Adapter struct{}

// New returns a ready-to-use Adapter.
func New() *Adapter { return &Adapter{} }

func nlSocket() (int, error) {
	fd, err := syscall.Socket(syscall.AF_NETLINK, syscall.SOCK_RAW|syscall.SOCK_CLOEXEC, syscall.NETLINK_ROUTE)
	if err != nil {
		return 0, fmt.Errorf("netlink socket: %w", err)
	}
	lsa := &syscall.SockaddrNetlink{Family: syscall.AF_NETLINK}
	if err := syscall.Bind(fd, lsa); err != nil {
		syscall.Close(fd)
		return 0, fmt.Errorf("netlink bind: %w", err)
	}
	return fd, nil
}

func nlAttr(typ uint16, data []byte) []byte {
	length := 4 + len(data)
	padded := (length + 3) &^ 3
	buf := make([]byte, padded)
	binary.LittleEndian.PutUint16(buf[0:], uint16(length))
	binary.LittleEndian.PutUint16(buf[2:], typ)
	copy(buf[4:], data)
	return buf
}

func nlAttrU32(typ uint16, v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return nlAttr(typ, b)
}

// sendrecv sends a netlink request and drains the response until
// NLMSG_DONE or NLMSG_ERROR; a zero error code is an ACK.
func sendrecv(fd int, msgType uint16, flags uint16, payload []byte) error {
	msg := make([]byte, syscall.NLMSG_HDRLEN+len(payload))
	hdr := (*syscall.NlMsghdr)(unsafe.Pointer(&msg[0]))
	hdr.Len = uint32(len(msg))
	hdr.Type = msgType
	hdr.Flags = flags | syscall.NLM_F_REQUEST | syscall.NLM_F_ACK
	hdr.Seq = 1
	copy(msg[syscall.NLMSG_HDRLEN:], payload)

	dst := &syscall.SockaddrNetlink{Family: syscall.AF_NETLINK}
	if err := syscall.Sendto(fd, msg, 0, dst); err != nil {
		return fmt.Errorf("netlink send: %w", err)
	}

	buf := make([]byte, 65536)
	for {
		n, _, err := syscall.Recvfrom(fd, buf, 0)
		if err != nil {
			return fmt.Errorf("netlink recv: %w", err)
		}
		parsed, err := syscall.ParseNetlinkMessage(buf[:n])
		if err != nil {
			return fmt.Errorf("netlink parse: %w", err)
		}
		for _, m := range parsed {
			switch m.Header.Type {
			case syscall.NLMSG_DONE:
				return nil
			case syscall.NLMSG_ERROR:
				if len(m.Data) < 4 {
					return fmt.Errorf("netlink: NLMSG_ERROR with truncated payload")
				}
				e := (*syscall.NlMsgerr)(unsafe.Pointer(&m.Data[0]))
				if e.Error == 0 {
					return nil
				}
				return syscall.Errno(-e.Error)
			}
		}
	}
}

func ifIndexByName(name string) (int, error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return 0, fmt.Errorf("interface %q not found: %w", name, err)
	}
	return iface.Index, nil
}

// ReadLink reads the MAC, admin-up state and carrier status of name.
func (a *Adapter) ReadLink(name string) (mac string, up bool, carrier bool, err error) {
	iface, err := net.InterfaceByName(name)
	if err != nil {
		return "", false, false, fmt.Errorf("interface %q not found: %w", name, err)
	}
	up = iface.Flags&net.FlagUp != 0
	carrier = readCarrier(name)
	return iface.HardwareAddr.String(), up, carrier, nil
}

// readCarrier reads /sys/class/net/<name>/carrier. This is a single
// sysfs scalar -- a netlink round trip for IFLA_CARRIER buys nothing a
// file read doesn't already give, so it is implemented with the
// standard library rather than threaded through the rtnetlink socket
// helpers above.
func readCarrier(name string) bool {
	data, err := os.ReadFile("/sys/class/net/" + name + "/carrier")
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "1"
}

func linkSetFlags(name string, flagsSet, changeMask uint32) error {
	idx, err := ifIndexByName(name)
	if err != nil {
		return err
	}
	fd, err := nlSocket()
	if err != nil {
		return err
	}
	defer syscall.Close(fd)

	payload := make([]byte, 16)
	binary.LittleEndian.PutUint32(payload[4:], uint32(idx))
	binary.LittleEndian.PutUint32(payload[8:], flagsSet)
	binary.LittleEndian.PutUint32(payload[12:], changeMask)

	return sendrecv(fd, syscall.RTM_NEWLINK, 0, payload)
}

// SetLinkUp sets IFF_UP. Idempotent: setting an already-up link up
// again succeeds.
func (a *Adapter) SetLinkUp(name string) error {
	return linkSetFlags(name, syscall.IFF_UP, syscall.IFF_UP)
}

// SetLinkDown clears IFF_UP. Idempotent.
func (a *Adapter) SetLinkDown(name string) error {
	return linkSetFlags(name, 0, syscall.IFF_UP)
}

func addrOp(ifaceName, cidr string, msgType uint16, nlmFlags uint16) error {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return fmt.Errorf("only IPv4 is supported")
	}

	idx, err := ifIndexByName(ifaceName)
	if err != nil {
		return err
	}
	ones, _ := ipnet.Mask.Size()

	fd, err := nlSocket()
	if err != nil {
		return err
	}
	defer syscall.Close(fd)

	header := []byte{
		syscall.AF_INET,
		byte(ones),
		ifaFlagPermanent,
		rtScopeUniverse,
		0, 0, 0, 0,
	}
	binary.LittleEndian.PutUint32(header[4:], uint32(idx))

	payload := header
	payload = append(payload, nlAttr(syscall.IFA_LOCAL, ip4)...)
	payload = append(payload, nlAttr(syscall.IFA_ADDRESS, ip4)...)

	return sendrecv(fd, msgType, nlmFlags, payload)
}

// AddAddress installs cidr on name. AlreadyExists is tolerated: the
// caller treats it as success.
func (a *Adapter) AddAddress(name, cidr string) error {
	err := addrOp(name, cidr, syscall.RTM_NEWADDR, rtmFlagCreate)
	if err == syscall.EEXIST {
		return nil
	}
	return err
}

// DelAddress removes cidr from name. NotFound is tolerated.
func (a *Adapter) DelAddress(name, cidr string) error {
	err := addrOp(name, cidr, syscall.RTM_DELADDR, 0)
	if err == syscall.EADDRNOTAVAIL || err == syscall.ESRCH || err == syscall.ENOENT {
		return nil
	}
	return err
}

func defaultRoute(gateway string, msgType uint16, nlmFlags uint16) error {
	gw := net.ParseIP(gateway).To4()
	if gw == nil {
		return fmt.Errorf("invalid gateway %q", gateway)
	}

	fd, err := nlSocket()
	if err != nil {
		return err
	}
	defer syscall.Close(fd)

	header := []byte{
		syscall.AF_INET, // family
		0,                // dst_len (0.0.0.0/0)
		0,                // src_len
		0,                // tos
		rtTableMain,
		rtProtoStatic,
		rtScopeUniverse,
		rtTypeUnicast,
		0, 0, 0, 0, // flags
	}

	payload := header
	payload = append(payload, nlAttr(syscall.RTA_GATEWAY, gw)...)

	return sendrecv(fd, msgType, nlmFlags, payload)
}

// AddDefaultRoute installs an IPv4 default route via gateway with
// create-or-replace semantics: a prior default route is overwritten
// rather than causing the call to fail.
func (a *Adapter) AddDefaultRoute(gateway string) error {
	return defaultRoute(gateway, syscall.RTM_NEWROUTE, rtmFlagCreate|rtmFlagReplace)
}

// DelDefaultRoute removes the default route via gateway. NotFound is
// tolerated.
func (a *Adapter) DelDefaultRoute(gateway string) error {
	err := defaultRoute(gateway, syscall.RTM_DELROUTE, 0)
	if err == syscall.ESRCH {
		return nil
	}
	return err
}
