package hub

import (
	"encoding/json"
	"sync"
	"time"

	pkglog "github.com/virtumeet/room-coordinator/pkg/log"
)

// Config holds the WebSocket keepalive parameters for all clients.
type Config struct {
	PingInterval   time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
	MaxMessageSize int64
}

// Hub manages all WebSocket connections. It owns the transport layer
// only; room membership lives in the registry.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	config     Config
}

// NewHub creates a new Hub.
func NewHub(cfg Config) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		config:     cfg,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	l := pkglog.L()
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l.Debug().Str(pkglog.FieldClientID, client.ID).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			l.Debug().Str(pkglog.FieldClientID, client.ID).Msg("client unregistered")
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// SendToClient sends a message to one connected client. An unknown
// client ID is a no-op: the session is already gone, which every caller
// treats as a benign race. The send never blocks; a client whose buffer
// is full is torn down instead of stalling the caller.
func (h *Hub) SendToClient(clientID string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	h.deliver(clientID, data)
	return nil
}

// deliver queues data for a registered client. The read lock is held
// across the send itself: Run closes the Send channel only under the
// write lock, so the send can never observe a closed channel. The
// select stays non-blocking, so holding the lock here cannot stall
// registration.
func (h *Hub) deliver(clientID string, data []byte) {
	h.mu.RLock()
	client, ok := h.clients[clientID]
	evict := false
	if ok {
		select {
		case client.Send <- data:
		default:
			evict = true
		}
	}
	h.mu.RUnlock()

	if evict {
		go h.removeClient(client)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) removeClient(client *Client) {
	h.unregister <- client
}
