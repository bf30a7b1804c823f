// Package ws streams conversation turns to monitor clients over WebSocket.
package ws

import (
	"encoding/json"
	"log/slog"

	"github.com/jayrweg/afya-plus/entity"
	"github.com/jayrweg/afya-plus/internal/lib/sl"
)

// Event represents a WebSocket event sent to monitor clients.
type Event struct {
	Type string `json:"type"` // "chat_turn"
	Data any    `json:"data"`
}

// Hub maintains the set of active WebSocket clients and broadcasts
// conversation turns to them. It implements the dialogue engine's
// TurnListener.
type Hub struct {
	// clients is owned by the Run goroutine; no other goroutine touches it.
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log.With(sl.Module("ws.hub")),
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			for client := range h.clients {
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// ChatTurn broadcasts one conversation turn to all connected monitors.
// Dropped when the broadcast queue is full; monitoring must never block a
// user turn.
func (h *Hub) ChatTurn(msg entity.ChatMessage) {
	select {
	case h.broadcast <- &Event{Type: "chat_turn", Data: msg}:
	default:
		h.log.Warn("monitor broadcast queue full, turn dropped")
	}
}
