// Command loomd is the Loom daemon: it administers IPv4 configuration
// of local network interfaces and publishes the result over an
// HTTP-based object-manager surface.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blackox/loomd/internal/audit"
	"github.com/blackox/loomd/internal/changehub"
	"github.com/blackox/loomd/internal/daemon"
	"github.com/blackox/loomd/internal/dirauth"
	"github.com/blackox/loomd/internal/netlink"
	"github.com/blackox/loomd/internal/resolver"
	"github.com/blackox/loomd/internal/transport"
)

func main() {
	listenAddr := flag.String("listen", "127.0.0.1:9090", "HTTP object-manager listen address")
	resolvConf := flag.String("resolv-conf", resolver.DefaultPath, "Path to the resolver file Loom owns")
	auditKeyPath := flag.String("audit-key", "/var/lib/loom/audit.key", "Path to the audit log HMAC key")
	auditLogPath := flag.String("audit-log", "/var/lib/loom/audit.log", "Path to the audit log")
	ldapURL := flag.String("ldap-url", "", "Directory server URL gating Connections.add/delete, e.g. ldap://dc.example.com:389 (optional, off by default)")
	ldapTLS := flag.Bool("ldap-tls", false, "Use TLS when connecting to the directory server")
	flag.Parse()

	auditKey, err := audit.LoadOrCreateKey(*auditKeyPath)
	if err != nil {
		log.Fatalf("audit key: %v", err)
	}
	auditLogger, err := audit.NewLogger(*auditLogPath, auditKey)
	if err != nil {
		log.Fatalf("audit log: %v", err)
	}
	defer auditLogger.Close()

	hub := changehub.New()
	go hub.Run()

	gate := dirauth.New(dirauth.Config{URL: *ldapURL, UseTLS: *ldapTLS})
	if gate != nil {
		log.Printf("directory authentication enabled for Connections.add/delete (%s)", *ldapURL)
	}

	d, err := daemon.New(netlink.NewLister(), netlink.New(), resolver.New(*resolvConf), hub, auditLogger)
	if err != nil {
		log.Fatalf("daemon: %v", err)
	}
	go d.Run()

	t := transport.New(d, hub, auditLogger, gate)

	srv := &http.Server{
		Addr:         *listenAddr,
		Handler:      t.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", *listenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	auditLogger.Log("system", "daemon_start", "", nil)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-listenErr:
		log.Printf("listen failed: %v", err)
		d.Stop()
		os.Exit(1)
	case <-stop:
		log.Println("shutting down gracefully")
	}

	auditLogger.Log("system", "daemon_stop", "", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	d.Stop()
	log.Println("stopped")
}
