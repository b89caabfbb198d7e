package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/coder/websocket"

	"aimtrain/internal/record"
)

// Message is the JSON envelope pushed to live feed subscribers.
type Message struct {
	Type string         `json:"t"`
	Run  *record.Record `json:"run,omitempty"`
}

// client is one live feed subscriber.
type client struct {
	send chan []byte
}

// writePump forwards queued messages to the connection until ctx ends.
func (c *client) writePump(ctx context.Context, conn *websocket.Conn) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			if err := conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub fans completed runs out to websocket subscribers. It implements
// sim.RecordWriter.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	buffer  int
}

// NewHub creates a hub whose subscribers buffer up to buffer messages.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{clients: make(map[*client]struct{}), buffer: buffer}
}

func (h *Hub) subscribe() *client {
	c := &client{send: make(chan []byte, h.buffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) unsubscribe(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends msg to every subscriber. Non-blocking: drops if a buffer is full.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("hub marshal failed", "err", err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Drop message if channel full
		}
	}
}

// WriteRecord publishes a completed run.
func (h *Hub) WriteRecord(r record.Record) error {
	h.Broadcast(Message{Type: "run", Run: &r})
	return nil
}
