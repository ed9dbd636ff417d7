package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/virtumeet/room-coordinator/internal/domain"
	pkglog "github.com/virtumeet/room-coordinator/pkg/log"
)

// DisconnectHandler is called once when a client's read pump exits,
// before the client is unregistered.
type DisconnectHandler func(*Client)

// Client represents a connected WebSocket client.
type Client struct {
	ID                string
	Hub               *Hub
	Conn              *websocket.Conn
	Send              chan []byte
	Session           *domain.Session
	disconnectHandler DisconnectHandler
}

// NewClient creates a client with a fresh session and send buffer.
func NewClient(id string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:      id,
		Hub:     hub,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Session: domain.NewSession(id),
	}
}

// SetDisconnectHandler sets the handler to be called on disconnect.
func (c *Client) SetDisconnectHandler(handler DisconnectHandler) {
	c.disconnectHandler = handler
}

// ReadPump pumps messages from the WebSocket connection to the handler.
func (c *Client) ReadPump(handler func(*Client, []byte)) {
	defer func() {
		// Unwind presence state before the transport goes away.
		if c.disconnectHandler != nil {
			c.disconnectHandler(c)
		}
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Hub.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.Hub.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l := pkglog.L()
				l.Error().Err(err).Str(pkglog.FieldClientID, c.ID).Msg("websocket error")
			}
			break
		}

		handler(c, message)
	}
}

// WritePump pumps messages from the send buffer to the WebSocket
// connection and keeps the connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.Hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Hub.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.Hub.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage marshals and queues a message for this client without
// blocking. Delivery goes through the hub so it cannot race the close
// of the Send channel; a client that is no longer registered drops the
// frame.
func (c *Client) SendMessage(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	c.Hub.deliver(c.ID, data)
	return nil
}
