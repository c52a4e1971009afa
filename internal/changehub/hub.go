// Package changehub broadcasts Interface.changed and inventory
// active_paths notifications to connected websocket clients. It runs on
// its own goroutine outside the single-threaded core loop (see
// internal/daemon): it only ever receives already-computed
// notifications over a channel and never calls back into the
// inventories, so it cannot introduce concurrent mutation of core
// state.
package changehub

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ChangeEvent is one notification frame sent to every connected client.
type ChangeEvent struct {
	Type       string    `json:"type"`
	ObjectPath string    `json:"object_path"`
	Timestamp  time.Time `json:"timestamp"`
	Properties any       `json:"properties,omitempty"`
}

// Hub fans out ChangeEvents to every registered websocket connection.
type Hub struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan ChangeEvent
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// New returns an unstarted Hub. Call Run on its own goroutine.
func New() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan ChangeEvent, 256),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

// Run is the hub's event loop. It never returns; run it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mutex.Unlock()

		case event := <-h.broadcast:
			// Lock, not RLock: a failed client is deleted from the map
			// while we hold it.
			h.mutex.Lock()
			for client := range h.clients {
				if err := client.WriteJSON(event); err != nil {
					log.Printf("changehub: write error: %v", err)
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds a new client connection.
func (h *Hub) Register(conn *websocket.Conn) {
	h.register <- conn
}

// Unregister removes a client connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.unregister <- conn
}

// Changed broadcasts a changed notification for objectPath, carrying
// its current properties. Non-blocking: a full channel drops the
// event rather than stalling the core loop.
func (h *Hub) Changed(objectPath string, properties any) {
	event := ChangeEvent{
		Type:       "changed",
		ObjectPath: objectPath,
		Timestamp:  time.Now(),
		Properties: properties,
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("changehub: broadcast channel full, event for %s dropped", objectPath)
	}
}
