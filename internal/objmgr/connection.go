package objmgr

import "log"

// Connection binds one Interface to one Setting. It holds non-owning
// references to both. Interfaces are never destroyed. Settings.Destroy
// refuses only while the Setting is active, so a Connection that is not
// active can still hold a Setting that has since been removed from the
// Settings inventory.
type Connection struct {
	iface      *Interface
	setting    *Setting
	id         string
	objectPath string

	resolver ResolverWriter

	// onFailure, if set, is invoked for every error a step of
	// Apply/Revert returns, in addition to the log line. Results the
	// adapter already tolerates (already exists / not found) come back
	// as nil and are not reported. The Daemon wires this to its audit
	// log.
	onFailure func(objectPath, step string, err error)
}

func (c *Connection) report(step string, err error) {
	log.Printf("connection %s: %s: %v", c.id, step, err)
	if c.onFailure != nil {
		c.onFailure(c.objectPath, step, err)
	}
}

// newConnection constructs a Connection for the given (Interface,
// Setting) pair. id is "setting.uuid%interface.name".
func newConnection(iface *Interface, setting *Setting, resolver ResolverWriter) *Connection {
	return &Connection{
		iface:    iface,
		setting:  setting,
		id:       setting.UUID() + "%" + iface.Name(),
		resolver: resolver,
	}
}

// ID returns "setting.uuid%interface.name"; two Connections are
// duplicates iff their ids match.
func (c *Connection) ID() string { return c.id }

// ObjectPath returns the path this Connection was published under.
func (c *Connection) ObjectPath() string { return c.objectPath }

// Interface returns the bound Interface.
func (c *Connection) Interface() *Interface { return c.iface }

// Setting returns the bound Setting.
func (c *Connection) Setting() *Setting { return c.setting }

// Apply installs the Setting's profile on the kernel and resolver.
// Individual netlink calls reporting "already exists"/"not found" are
// tolerated; any other failure is logged and does not roll back
// earlier steps -- the outer state machine resynchronises on the next
// activation rather than attempting a strict transaction over
// non-transactional kernel state.
func (c *Connection) Apply() {
	address := c.setting.Address()

	if err := c.iface.SetUp(); err != nil {
		c.report("set link up", err)
	}
	if err := c.iface.AddAddress(address); err != nil {
		c.report("add address "+address, err)
	}

	if c.setting.HasRouter() {
		if err := c.iface.netlink.AddDefaultRoute(c.setting.Router()); err != nil {
			c.report("add default route via "+c.setting.Router(), err)
		}
	}

	if c.setting.HasNameservers() {
		if err := c.resolver.Write(c.setting.Nameservers(), c.setting.Domain(), c.setting.Searches()); err != nil {
			c.report("write resolver configuration", err)
		}
	}
}

// Revert undoes Apply's effects, step by step in the same order Apply
// made them: link down, address, default route, resolver file.
func (c *Connection) Revert() {
	address := c.setting.Address()

	if err := c.iface.SetDown(); err != nil {
		c.report("set link down", err)
	}
	if err := c.iface.DelAddress(address); err != nil {
		c.report("delete address "+address, err)
	}

	if c.setting.HasRouter() {
		if err := c.iface.netlink.DelDefaultRoute(c.setting.Router()); err != nil {
			c.report("delete default route via "+c.setting.Router(), err)
		}
	}

	if c.setting.HasNameservers() {
		if err := c.resolver.Erase(); err != nil {
			c.report("erase resolver configuration", err)
		}
	}
}
