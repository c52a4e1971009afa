package objmgr

import "github.com/google/uuid"

// Setting is an immutable IPv4 profile identified by a freshly generated
// UUID. Once constructed its configuration never changes; the Settings
// inventory is solely responsible for validating the configuration
// before a Setting is built.
type Setting struct {
	uuid          string
	address       string
	router        string
	nameservers   []string
	domain        string
	searches      []string
	objectPath    string
}

// newSetting constructs a Setting from an already-validated
// configuration. Callers must have run validateConfiguration first.
func newSetting(cfg map[string]any) *Setting {
	s := &Setting{uuid: uuid.New().String()}

	if v, ok := cfg["address"]; ok {
		s.address, _ = asString(v)
	}
	if v, ok := cfg["router"]; ok {
		s.router, _ = asString(v)
	}
	if v, ok := cfg["nameservers"]; ok {
		s.nameservers, _ = asStringSlice(v)
	}
	if v, ok := cfg["domain"]; ok {
		s.domain, _ = asString(v)
	}
	if v, ok := cfg["searches"]; ok {
		s.searches, _ = asStringSlice(v)
	}
	return s
}

// UUID returns the Setting's canonical 36-char identifier.
func (s *Setting) UUID() string { return s.uuid }

// ObjectPath returns the path this Setting was published under.
func (s *Setting) ObjectPath() string { return s.objectPath }

// Address returns the "address" entry ("A.B.C.D/N").
func (s *Setting) Address() string { return s.address }

// Router returns the "router" entry, or "" if absent.
func (s *Setting) Router() string { return s.router }

// HasRouter reports whether a router was configured.
func (s *Setting) HasRouter() bool { return s.router != "" }

// Nameservers returns the "nameservers" entry, or nil if absent.
func (s *Setting) Nameservers() []string { return s.nameservers }

// HasNameservers reports whether any nameservers were configured.
func (s *Setting) HasNameservers() bool { return len(s.nameservers) > 0 }

// Domain returns the "domain" entry, or "" if absent.
func (s *Setting) Domain() string { return s.domain }

// Searches returns the "searches" entry, or nil if absent.
func (s *Setting) Searches() []string { return s.searches }

// Configuration reconstructs the vardict supplied at create time,
// dropping any unknown keys (the recognised surface is exactly these
// five).
func (s *Setting) Configuration() map[string]any {
	cfg := map[string]any{"address": s.address}
	if s.router != "" {
		cfg["router"] = s.router
	}
	if len(s.nameservers) > 0 {
		cfg["nameservers"] = s.nameservers
	}
	if s.domain != "" {
		cfg["domain"] = s.domain
	}
	if len(s.searches) > 0 {
		cfg["searches"] = s.searches
	}
	return cfg
}

// validateConfiguration validates a raw configuration vardict per the
// recognised-keys table. Unknown keys are silently ignored. Uses the
// corrected "domain" key throughout -- the original daemon reads
// "domains" in one place, which this implementation does not
// replicate.
func validateConfiguration(cfg map[string]any) error {
	addrRaw, ok := cfg["address"]
	if !ok {
		return invalidArgument("'address' entry is required")
	}
	addr, ok := asString(addrRaw)
	if !ok {
		return invalidArgument("'address' entry must be a string")
	}
	if !validateCIDR(addr) {
		return invalidArgument("'address' entry is not a valid address")
	}

	if routerRaw, ok := cfg["router"]; ok {
		router, ok := asString(routerRaw)
		if !ok {
			return invalidArgument("'router' entry must be a string")
		}
		if !validateDottedQuad(router) {
			return invalidArgument("'router' entry is not a valid address")
		}
	}

	if nsRaw, ok := cfg["nameservers"]; ok {
		nameservers, ok := asStringSlice(nsRaw)
		if !ok {
			return invalidArgument("'nameservers' entry must be a string array")
		}
		for _, ns := range nameservers {
			if !validateDottedQuad(ns) {
				return invalidArgument("'nameservers' entry is not a valid address")
			}
		}
	}

	if domainRaw, ok := cfg["domain"]; ok {
		domain, ok := asString(domainRaw)
		if !ok {
			return invalidArgument("'domain' entry must be a string")
		}
		if !validateDomainName(domain) {
			return invalidArgument("'domain' entry is not a valid domain name")
		}
	}

	if searchesRaw, ok := cfg["searches"]; ok {
		searches, ok := asStringSlice(searchesRaw)
		if !ok {
			return invalidArgument("'searches' entry must be a string array")
		}
		for _, s := range searches {
			if !validateDomainName(s) {
				return invalidArgument("'searches' entry is not a valid domain name")
			}
		}
	}

	return nil
}
