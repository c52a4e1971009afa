package objmgr

import "testing"

func TestValidationRejectsBadPrefix(t *testing.T) {
	settings := NewSettings("/org/blackox/Loom/Setting")

	_, err := settings.Create(map[string]any{"address": "10.0.0.5/33"})
	assertInvalidArgument(t, err, "address")

	if len(settings.Paths()) != 0 {
		t.Error("expected no Setting created on validation failure")
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		cfg     map[string]any
		wantErr bool
	}{
		{"valid minimal", map[string]any{"address": "10.0.0.5/24"}, false},
		{"valid full", map[string]any{
			"address":     "10.0.0.5/24",
			"router":      "10.0.0.1",
			"nameservers": []string{"8.8.8.8", "1.1.1.1"},
			"domain":      "example.com",
			"searches":    []string{"corp.example.com"},
		}, false},
		{"missing address", map[string]any{}, true},
		{"address wrong type", map[string]any{"address": 123}, true},
		{"address bad prefix", map[string]any{"address": "10.0.0.5/33"}, true},
		{"address missing prefix", map[string]any{"address": "10.0.0.5"}, true},
		{"router with prefix", map[string]any{"address": "10.0.0.5/24", "router": "10.0.0.1/24"}, true},
		{"router not an ip", map[string]any{"address": "10.0.0.5/24", "router": "not-an-ip"}, true},
		{"nameservers wrong type", map[string]any{"address": "10.0.0.5/24", "nameservers": "8.8.8.8"}, true},
		{"nameservers bad entry", map[string]any{"address": "10.0.0.5/24", "nameservers": []string{"bad"}}, true},
		{"domain invalid", map[string]any{"address": "10.0.0.5/24", "domain": "-bad-.com"}, true},
		{"searches invalid", map[string]any{"address": "10.0.0.5/24", "searches": []string{"not a domain"}}, true},
		{"unknown key ignored", map[string]any{"address": "10.0.0.5/24", "bogus": "whatever"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfiguration(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateConfiguration(%v) error = %v, wantErr %v", tt.cfg, err, tt.wantErr)
			}
		})
	}
}

func TestSettingsConfigurationRoundTrip(t *testing.T) {
	settings := NewSettings("/org/blackox/Loom/Setting")
	cfg := map[string]any{
		"address":     "10.0.0.5/24",
		"router":      "10.0.0.1",
		"nameservers": []string{"8.8.8.8"},
		"domain":      "example.com",
		"searches":    []string{"example.com"},
	}
	path, err := settings.Create(cfg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	setting, ok := settings.ByPath(path)
	if !ok {
		t.Fatal("expected Setting to be retrievable by path")
	}

	got := setting.Configuration()
	if got["address"] != cfg["address"] || got["router"] != cfg["router"] || got["domain"] != cfg["domain"] {
		t.Errorf("Configuration() = %v, want values matching %v", got, cfg)
	}
}

// TestSettingsDestroyChecksActiveBeforeRemoving guards the corrected
// destroy ordering: a Setting referenced by an active Connection must
// survive a failed destroy call, not be removed and then reported as
// erroneously destroyed.
func TestSettingsDestroyChecksActiveBeforeRemoving(t *testing.T) {
	ifaces, settings, conns, _, _ := newTestDaemonParts("eth0")
	settingPath, _ := settings.Create(map[string]any{"address": "10.0.0.5/24"})
	connPath, _ := conns.Create(ifaces.Paths()[0], settingPath)
	if err := conns.Add(connPath); err != nil {
		t.Fatalf("Add: %v", err)
	}

	err := settings.Destroy(settingPath)
	assertInvalidArgument(t, err, "in use")

	if _, ok := settings.ByPath(settingPath); !ok {
		t.Fatal("expected Setting to remain in inventory after rejected destroy")
	}
}

func TestSettingsDestroyNotFound(t *testing.T) {
	settings := NewSettings("/org/blackox/Loom/Setting")
	err := settings.Destroy("/org/blackox/Loom/Setting_999")
	assertInvalidArgument(t, err, "no such 'setting' object found")
}
