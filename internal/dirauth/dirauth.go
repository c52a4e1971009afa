// Package dirauth is an optional LDAP-backed authentication gate,
// trimmed from a full directory client down to the one thing Loom's
// transport needs: verifying a caller's DN and password with a single
// bind before letting a privileged Connections method run.
package dirauth

import (
	"crypto/tls"
	"fmt"

	ldap "github.com/go-ldap/ldap/v3"
)

// Config configures the optional gate. Disabled unless URL is set.
type Config struct {
	URL    string
	UseTLS bool
}

// Gate authenticates a (dn, password) pair against a directory server.
// Nil Gate means the gate is disabled.
type Gate struct {
	cfg Config
}

// New returns a Gate for cfg, or nil if cfg.URL is empty.
func New(cfg Config) *Gate {
	if cfg.URL == "" {
		return nil
	}
	return &Gate{cfg: cfg}
}

// Authenticate binds as dn with password, returning an error if the
// bind fails for any reason (unreachable server, bad credentials).
func (g *Gate) Authenticate(dn, password string) error {
	var conn *ldap.Conn
	var err error

	if g.cfg.UseTLS {
		conn, err = ldap.DialURL(g.cfg.URL, ldap.DialWithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12}))
	} else {
		conn, err = ldap.DialURL(g.cfg.URL)
	}
	if err != nil {
		return fmt.Errorf("connect to directory: %w", err)
	}
	defer conn.Close()

	if err := conn.Bind(dn, password); err != nil {
		return fmt.Errorf("directory bind failed: %w", err)
	}
	return nil
}
