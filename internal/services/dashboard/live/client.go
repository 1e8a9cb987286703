package live

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/louisbranch/obstetriccare/internal/platform/timeouts"
)

const (
	// pingPeriod must stay below the pong wait.
	pingPeriod = (timeouts.WebsocketPong * 9) / 10
	// maxMessageSize caps inbound frames; browsers only send control frames.
	maxMessageSize = 512
	// sendBufferSize bounds queued frames before a client counts as slow.
	sendBufferSize = 64
)

// Unregisterer removes a client from its hub.
type Unregisterer interface {
	Unregister(c *Client)
}

// Client is one websocket connection.
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan Message
	hub  Unregisterer
}

// NewClient wraps conn with a fresh client ID.
func NewClient(conn *websocket.Conn, hub Unregisterer) *Client {
	return &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan Message, sendBufferSize),
		hub:  hub,
	}
}

// TrySend queues msg without blocking. It reports false when the buffer is full.
func (c *Client) TrySend(msg Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// ReadPump drains inbound frames so pongs and close frames are processed.
// It unregisters the client when the connection ends.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(timeouts.WebsocketPong))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(timeouts.WebsocketPong))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Printf("live client %s closed: %v", c.ID, err)
			}
			return
		}
	}
}

// WritePump writes queued messages and periodic pings until the hub closes
// the send channel, a write fails, or ctx ends.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(timeouts.WebsocketWrite))
			return

		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(timeouts.WebsocketWrite))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("live client %s write: %v", c.ID, err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(timeouts.WebsocketWrite))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
