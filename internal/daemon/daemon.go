// Package daemon is the process-wide hub: it owns the three inventories,
// runs the single-threaded core loop those inventories' invariants
// depend on, and wires the ambient Transport/ChangeHub/Audit components
// to them.
package daemon

import (
	"fmt"
	"time"

	"github.com/blackox/loomd/internal/audit"
	"github.com/blackox/loomd/internal/changehub"
	"github.com/blackox/loomd/internal/objmgr"
)

const (
	// BasePath is the root of the published object tree.
	BasePath = "/org/blackox/Loom"

	tickInterval = 1 * time.Second
)

// Daemon owns Interfaces, Settings and Connections and runs them on a
// single goroutine: Run's loop is the only place inventory state is
// ever touched. The 1 Hz ticker is selected inside Run itself, and
// every other goroutine (HTTP handlers) reaches the inventories only
// through Do, which funnels a closure onto the loop and blocks until
// it has executed -- preserving "no locks, no shared mutable state"
// in the core despite the process as a whole being multi-goroutine.
type Daemon struct {
	Interfaces  *objmgr.Interfaces
	Settings    *objmgr.Settings
	Connections *objmgr.Connections

	hub   *changehub.Hub
	audit *audit.Logger

	commands chan func()
	stop     chan struct{}
	done     chan struct{}
}

// New constructs the Daemon: enumerates links into Interfaces, then
// constructs Settings, then Connections, in that dependency order.
// hub and auditLogger may be nil.
func New(lister objmgr.LinkLister, netlinkAdapter objmgr.NetlinkAdapter, resolverWriter objmgr.ResolverWriter, hub *changehub.Hub, auditLogger *audit.Logger) (*Daemon, error) {
	d := &Daemon{
		hub:      hub,
		audit:    auditLogger,
		commands: make(chan func()),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	interfaces, err := objmgr.NewInterfaces(BasePath+"/Interface", lister, netlinkAdapter, d.onInterfaceChanged)
	if err != nil {
		return nil, fmt.Errorf("enumerate interfaces: %w", err)
	}
	d.Interfaces = interfaces

	d.Settings = objmgr.NewSettings(BasePath + "/Setting")

	d.Connections = objmgr.NewConnections(BasePath+"/Connection", d.Interfaces, d.Settings, resolverWriter)
	d.Connections.OnFailure(d.onApplyFailure)

	return d, nil
}

// Do runs fn on the core loop goroutine and blocks until it has
// completed. Every inventory read or mutation reachable from the
// transport must go through Do.
func (d *Daemon) Do(fn func()) {
	done := make(chan struct{})
	d.commands <- func() {
		fn()
		close(done)
	}
	<-done
}

// Run is the core loop: it processes submitted commands and the 1 Hz
// tick on a single goroutine until Stop is called.
func (d *Daemon) Run() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-d.commands:
			cmd()
		case <-ticker.C:
			d.tick()
		case <-d.stop:
			close(d.done)
			return
		}
	}
}

// Stop halts the core loop and waits for Run to return.
func (d *Daemon) Stop() {
	close(d.stop)
	<-d.done
}

// tick re-reads every Interface's kernel state. Each Interface decides
// independently whether the read changed anything worth announcing.
func (d *Daemon) tick() {
	for _, iface := range d.Interfaces.All() {
		iface.Reconcile()
	}
}

func (d *Daemon) onInterfaceChanged(iface *objmgr.Interface) {
	if d.hub == nil {
		return
	}
	d.hub.Changed(iface.ObjectPath(), map[string]any{
		"state":   iface.State(),
		"carrier": iface.Carrier(),
	})
}

func (d *Daemon) onApplyFailure(objectPath, step string, err error) {
	if d.audit == nil {
		return
	}
	d.audit.Log("system", "apply_revert_step:"+step, objectPath, err)
}
