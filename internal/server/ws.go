// Package server provides the HTTP server for the HandHop game.
package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/handhop/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// StateSource provides the live snapshot feed the WebSocket relays.
// *app.App satisfies it.
type StateSource interface {
	Subscribe() (<-chan app.Snapshot, func())
}

// StateHandler streams pipeline snapshots to WebSocket clients. Each
// connection gets its own subscription, so one slow client cannot hold
// back another.
type StateHandler struct {
	source StateSource
}

// NewStateHandler creates a new StateHandler fed by the given source.
func NewStateHandler(source StateSource) *StateHandler {
	return &StateHandler{source: source}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	snapshots, cancel := h.source.Subscribe()
	defer cancel()

	// Reads only serve to notice the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			msg, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}
}
