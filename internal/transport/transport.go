// Package transport publishes the Loom object tree over HTTP, standing
// in for the out-of-scope IPC broker. Every route funnels into the
// Daemon's single core loop via Daemon.Do before touching an inventory.
package transport

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/blackox/loomd/internal/audit"
	"github.com/blackox/loomd/internal/changehub"
	"github.com/blackox/loomd/internal/daemon"
	"github.com/blackox/loomd/internal/dirauth"
)

// Transport is the HTTP object-manager surface.
type Transport struct {
	daemon *daemon.Daemon
	hub    *changehub.Hub
	audit  *audit.Logger
	gate   *dirauth.Gate

	router   *mux.Router
	upgrader websocket.Upgrader
}

// New builds the router for d, broadcasting changes via hub, auditing
// mutations with auditLogger, and gating Connections.add/delete with
// gate if non-nil.
func New(d *daemon.Daemon, hub *changehub.Hub, auditLogger *audit.Logger, gate *dirauth.Gate) *Transport {
	t := &Transport{
		daemon: d,
		hub:    hub,
		audit:  auditLogger,
		gate:   gate,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	r := mux.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(recoverMiddleware)

	r.HandleFunc("/org/blackox/Loom/Interfaces", t.handleInterfaces).Methods("GET")
	r.HandleFunc("/org/blackox/Loom/Interface/{name}", t.handleInterface).Methods("GET")

	r.HandleFunc("/org/blackox/Loom/Settings", t.handleSettingsList).Methods("GET")
	r.HandleFunc("/org/blackox/Loom/Settings", t.handleSettingsCreate).Methods("POST")
	r.HandleFunc("/org/blackox/Loom/Settings/{id}", t.handleSettingsDestroy).Methods("DELETE")
	r.HandleFunc("/org/blackox/Loom/Setting/{id}", t.handleSetting).Methods("GET")

	r.HandleFunc("/org/blackox/Loom/Connections", t.handleConnectionsList).Methods("GET")
	r.HandleFunc("/org/blackox/Loom/Connections", t.handleConnectionsCreate).Methods("POST")
	r.HandleFunc("/org/blackox/Loom/Connections/{id}", t.handleConnectionsDestroy).Methods("DELETE")
	r.HandleFunc("/org/blackox/Loom/Connections/{id}/add", t.requireDirectory(t.handleConnectionsAdd)).Methods("POST")
	r.HandleFunc("/org/blackox/Loom/Connections/{id}/delete", t.requireDirectory(t.handleConnectionsDelete)).Methods("POST")
	r.HandleFunc("/org/blackox/Loom/Connection/{id}", t.handleConnection).Methods("GET")

	r.HandleFunc("/changes", t.handleChanges)

	t.router = r
	return t
}

// Handler returns the http.Handler serving the object tree.
func (t *Transport) Handler() http.Handler { return t.router }

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s %v", r.RemoteAddr, r.Method, r.URL.Path, time.Since(start))
	})
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("transport: panic serving %s: %v", r.URL.Path, rec)
				respondError(w, http.StatusInternalServerError, "TransportError", "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
