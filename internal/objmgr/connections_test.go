package objmgr

import (
	"strings"
	"testing"
)

func TestHappyPath(t *testing.T) {
	ifaces, settings, conns, nl, rw := newTestDaemonParts("eth0")

	settingPath, err := settings.Create(map[string]any{
		"address":     "10.0.0.5/24",
		"router":      "10.0.0.1",
		"nameservers": []string{"8.8.8.8"},
	})
	if err != nil {
		t.Fatalf("Settings.Create: %v", err)
	}

	ifacePath := ifaces.Paths()[0]
	connPath, err := conns.Create(ifacePath, settingPath)
	if err != nil {
		t.Fatalf("Connections.Create: %v", err)
	}

	if err := conns.Add(connPath); err != nil {
		t.Fatalf("Connections.Add: %v", err)
	}

	if !nl.up["eth0"] {
		t.Error("expected eth0 to be up")
	}
	if !nl.hasAddress("eth0", "10.0.0.5/24") {
		t.Error("expected address 10.0.0.5/24 on eth0")
	}
	if nl.route != "10.0.0.1" {
		t.Errorf("expected default route via 10.0.0.1, got %q", nl.route)
	}
	if !rw.written || rw.nameservers[0] != "8.8.8.8" {
		t.Error("expected resolver write with nameserver 8.8.8.8")
	}

	active := conns.ActivePaths()
	if len(active) != 1 || active[0] != connPath {
		t.Errorf("expected active_paths = [%s], got %v", connPath, active)
	}
}

func TestDuplicateBindingRejected(t *testing.T) {
	ifaces, settings, conns, _, _ := newTestDaemonParts("eth0")

	settingPath, _ := settings.Create(map[string]any{"address": "10.0.0.5/24"})
	ifacePath := ifaces.Paths()[0]

	if _, err := conns.Create(ifacePath, settingPath); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := conns.Create(ifacePath, settingPath)
	assertInvalidArgument(t, err, "connection already exists")
}

func TestInterfaceCollisionOnActivation(t *testing.T) {
	ifaces, settings, conns, _, _ := newTestDaemonParts("eth0")
	ifacePath := ifaces.Paths()[0]

	s1, _ := settings.Create(map[string]any{"address": "10.0.0.5/24"})
	s2, _ := settings.Create(map[string]any{"address": "10.0.0.6/24"})

	c1, err := conns.Create(ifacePath, s1)
	if err != nil {
		t.Fatalf("Create c1: %v", err)
	}
	c2, err := conns.Create(ifacePath, s2)
	if err != nil {
		t.Fatalf("Create c2: %v", err)
	}

	if err := conns.Add(c1); err != nil {
		t.Fatalf("Add c1: %v", err)
	}

	err = conns.Add(c2)
	assertInvalidArgument(t, err, "interface already in use")

	active := conns.ActivePaths()
	if len(active) != 1 || active[0] != c1 {
		t.Errorf("expected active_paths = [%s], got %v", c1, active)
	}
}

func TestDestroyWhileActiveForbidden(t *testing.T) {
	ifaces, settings, conns, _, _ := newTestDaemonParts("eth0")
	ifacePath := ifaces.Paths()[0]
	settingPath, _ := settings.Create(map[string]any{"address": "10.0.0.5/24"})
	connPath, _ := conns.Create(ifacePath, settingPath)

	if err := conns.Add(connPath); err != nil {
		t.Fatalf("Add: %v", err)
	}

	pathsBefore := conns.Paths()
	err := conns.Destroy(connPath)
	assertInvalidArgument(t, err, "is active")

	if len(conns.Paths()) != len(pathsBefore) {
		t.Error("expected Connections.Paths unchanged after rejected destroy")
	}
}

func TestConnectionsAddDeleteLaw(t *testing.T) {
	ifaces, settings, conns, _, _ := newTestDaemonParts("eth0")
	ifacePath := ifaces.Paths()[0]
	settingPath, _ := settings.Create(map[string]any{"address": "10.0.0.5/24", "nameservers": []string{"8.8.8.8"}})
	connPath, _ := conns.Create(ifacePath, settingPath)

	if err := conns.Add(connPath); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := conns.Delete(connPath); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if len(conns.ActivePaths()) != 0 {
		t.Errorf("expected active_paths empty after add;delete, got %v", conns.ActivePaths())
	}
	if len(ifaces.ActivePaths()) != 0 {
		t.Errorf("expected interface active_paths empty, got %v", ifaces.ActivePaths())
	}
	if len(settings.ActivePaths()) != 0 {
		t.Errorf("expected setting active_paths empty, got %v", settings.ActivePaths())
	}
}

func TestConnectionsCreateDestroyLaw(t *testing.T) {
	ifaces, settings, conns, _, _ := newTestDaemonParts("eth0")
	ifacePath := ifaces.Paths()[0]
	settingPath, _ := settings.Create(map[string]any{"address": "10.0.0.5/24"})

	before := conns.Paths()
	connPath, err := conns.Create(ifacePath, settingPath)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := conns.Destroy(connPath); err != nil {
		t.Fatalf("Destroy: %v", err)
	}

	after := conns.Paths()
	if len(after) != len(before) {
		t.Errorf("expected Connections inventory to return to pre-create state, got %v", after)
	}
}

func TestConnectionsDeleteNoActiveConnections(t *testing.T) {
	ifaces, settings, conns, _, _ := newTestDaemonParts("eth0")
	ifacePath := ifaces.Paths()[0]
	settingPath, _ := settings.Create(map[string]any{"address": "10.0.0.5/24"})
	connPath, _ := conns.Create(ifacePath, settingPath)

	err := conns.Delete(connPath)
	assertInvalidArgument(t, err, "no 'connection' objects active")
}

func TestConnectionsNotFound(t *testing.T) {
	_, _, conns, _, _ := newTestDaemonParts("eth0")

	bogus := "/org/blackox/Loom/Connection_999"
	assertInvalidArgument(t, conns.Destroy(bogus), "no such 'connection' object found")
	assertInvalidArgument(t, conns.Add(bogus), "no such 'connection' object found")
	assertInvalidArgument(t, conns.Delete(bogus), "no such 'connection' object found")
}

func TestConnectionsCreateUnknownReferences(t *testing.T) {
	ifaces, settings, conns, _, _ := newTestDaemonParts("eth0")
	settingPath, _ := settings.Create(map[string]any{"address": "10.0.0.5/24"})

	_, err := conns.Create("/org/blackox/Loom/Interface/bogus", settingPath)
	assertInvalidArgument(t, err, "no such 'interface' object found")

	_, err = conns.Create(ifaces.Paths()[0], "/org/blackox/Loom/Setting_999")
	assertInvalidArgument(t, err, "no such 'setting' object found")
}

func assertInvalidArgument(t *testing.T, err error, wantSubstring string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", wantSubstring)
	}
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("expected *objmgr.Error, got %T: %v", err, err)
	}
	if e.Kind != InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %s", e.Kind)
	}
	if !strings.Contains(e.Message, wantSubstring) {
		t.Fatalf("expected message containing %q, got %q", wantSubstring, e.Message)
	}
}
