// Package notifications provides real-time event delivery to connected clients.
package notifications

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Max total connections
const maxTotalConns = 10000

// Hub is a stateless fan-out: it holds every connected websocket client and
// broadcasts each event to all of them. Connection identity carries no
// application semantics.
type Hub struct {
	mu       sync.RWMutex
	conns    map[*Client]struct{}
	shutdown chan struct{}
	done     chan struct{}
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		conns:    make(map[*Client]struct{}),
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "board hub" }

// Register adds a connection to the hub. Returns the Client or an error if
// the connection limit is exceeded.
func (h *Hub) Register(conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.conns) >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	client := NewClient(h, conn)
	h.conns[client] = struct{}{}
	return client, nil
}

// UnregisterClient removes a client from the hub.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, client)
}

// ConnCount returns the number of currently registered clients.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// BroadcastAll sends message to every connected websocket client.
func (h *Hub) BroadcastAll(message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.conns {
		c.TrySend(data)
	}
}

// BroadcastExcept sends message to every client except the sender. Used by
// the ephemeral typing relay.
func (h *Hub) BroadcastExcept(sender *Client, message string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	data := []byte(message)
	for c := range h.conns {
		if c == sender {
			continue
		}
		c.TrySend(data)
	}
}

// StartWiring connects the Notifier to this hub: events published by any
// instance arrive over Redis and are re-broadcast to local connections.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartSubscriber(ctx, func(channel, payload string) {
		if channel != BroadcastChannel {
			log.Printf("unexpected event channel: %s", channel)
			return
		}
		h.BroadcastAll(payload)
	})
}

// Shutdown gracefully closes all websocket connections
func (h *Hub) Shutdown(_ context.Context) error {
	close(h.shutdown)

	h.mu.Lock()
	for client := range h.conns {
		if client.Conn == nil {
			continue
		}
		if err := client.Conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
			log.Printf("failed to write close message: %v", err)
		}
		if err := client.Conn.Close(); err != nil {
			log.Printf("failed to close websocket: %v", err)
		}
	}
	h.conns = make(map[*Client]struct{})
	h.mu.Unlock()

	close(h.done)
	return nil
}
