package objmgr

import (
	"fmt"
	"strings"
)

// Connections is the coordinator inventory: it enforces the uniqueness
// and activation invariants tying Interfaces, Settings and Connections
// together, and orchestrates add/delete against the two referenced
// inventories.
type Connections struct {
	basePath string
	nextSeq  int
	entries  map[string]*Connection
	order    []string
	active   []string

	interfaces *Interfaces
	settings   *Settings
	resolver   ResolverWriter

	// onFailure is forwarded to every Connection this inventory
	// constructs, letting the Daemon audit apply/revert failures.
	onFailure func(objectPath, step string, err error)
}

// NewConnections constructs an empty Connections inventory. interfaces
// and settings are the two inventories it coordinates against;
// resolver is passed through to each Connection it constructs.
func NewConnections(basePath string, interfaces *Interfaces, settings *Settings, resolver ResolverWriter) *Connections {
	return &Connections{
		basePath:   basePath,
		entries:    make(map[string]*Connection),
		interfaces: interfaces,
		settings:   settings,
		resolver:   resolver,
	}
}

// OnFailure registers the hook forwarded to every Connection's
// apply/revert reporting.
func (c *Connections) OnFailure(fn func(objectPath, step string, err error)) {
	c.onFailure = fn
}

// Paths returns every published Connection object path.
func (c *Connections) Paths() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// ActivePaths returns the object paths of currently active Connections.
func (c *Connections) ActivePaths() []string {
	out := make([]string, len(c.active))
	copy(out, c.active)
	return out
}

// ByPath looks up a Connection by its published object path.
func (c *Connections) ByPath(path string) (*Connection, bool) {
	conn, ok := c.entries[path]
	return conn, ok
}

func (c *Connections) isActive(path string) bool {
	for _, p := range c.active {
		if p == path {
			return true
		}
	}
	return false
}

// interfaceSuffix returns the interface-name half of a Connection id
// ("uuid%name" -> "name").
func interfaceSuffix(id string) string {
	if i := strings.LastIndex(id, "%"); i >= 0 {
		return id[i+1:]
	}
	return ""
}

// Create binds interfacePath and settingPath into a new Connection.
func (c *Connections) Create(interfacePath, settingPath string) (string, error) {
	iface, ok := c.interfaces.ByPath(interfacePath)
	if !ok {
		return "", invalidArgument("no such 'interface' object found")
	}
	setting, ok := c.settings.ByPath(settingPath)
	if !ok {
		return "", invalidArgument("no such 'setting' object found")
	}

	id := setting.UUID() + "%" + iface.Name()
	for _, existing := range c.entries {
		if existing.ID() == id {
			return "", invalidArgument("connection already exists")
		}
	}

	conn := newConnection(iface, setting, c.resolver)
	conn.onFailure = c.onFailure
	c.nextSeq++
	conn.objectPath = fmt.Sprintf("%s_%d", c.basePath, c.nextSeq)

	c.entries[conn.objectPath] = conn
	c.order = append(c.order, conn.objectPath)

	return conn.objectPath, nil
}

// Destroy removes the Connection at path iff it is present and not
// active.
func (c *Connections) Destroy(path string) error {
	if _, ok := c.entries[path]; !ok {
		return invalidArgument("no such 'connection' object found")
	}
	if c.isActive(path) {
		return invalidArgument("'connection' object is active")
	}

	delete(c.entries, path)
	c.order = removeString(c.order, path)
	return nil
}

// Add activates the Connection at path: applies its profile to the
// kernel and resolver, then marks it, its Interface and its Setting as
// active. Preconditions are checked before any side effect so a failed
// call leaves all state unchanged.
func (c *Connections) Add(path string) error {
	conn, ok := c.entries[path]
	if !ok {
		return invalidArgument("no such 'connection' object found")
	}
	if c.isActive(path) {
		return invalidArgument("'connection' object already in use")
	}

	ifaceName := conn.Interface().Name()
	for _, activePath := range c.active {
		active := c.entries[activePath]
		if interfaceSuffix(active.ID()) == ifaceName {
			return invalidArgument("interface already in use")
		}
	}

	conn.Apply()

	c.active = append(c.active, path)
	c.interfaces.AddActive(conn.Interface())
	c.settings.AddActive(conn.Setting())

	return nil
}

// Delete deactivates the Connection at path: reverts its profile, then
// unmarks it, its Interface and its Setting as active.
func (c *Connections) Delete(path string) error {
	if _, ok := c.entries[path]; !ok {
		return invalidArgument("no such 'connection' object found")
	}
	if len(c.active) == 0 {
		return invalidArgument("no 'connection' objects active")
	}
	if !c.isActive(path) {
		return invalidArgument("'connection' object is not active")
	}

	conn := c.entries[path]
	conn.Revert()

	c.active = removeString(c.active, path)
	c.interfaces.RemoveActive(conn.Interface())
	c.settings.RemoveActive(conn.Setting())

	return nil
}
