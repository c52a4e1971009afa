package transport

import (
	"log"
	"net/http"
)

// handleChanges upgrades to a websocket and registers the connection
// with the ChangeHub for the lifetime of the socket.
func (t *Transport) handleChanges(w http.ResponseWriter, r *http.Request) {
	if t.hub == nil {
		respondError(w, http.StatusNotImplemented, "TransportError", "change notifications are not enabled")
		return
	}

	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("transport: websocket upgrade failed: %v", err)
		return
	}
	t.hub.Register(conn)

	// Drain and discard client frames; this socket is receive-only from
	// the client's perspective. Exit (and unregister) once the client
	// disconnects.
	go func() {
		defer t.hub.Unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
