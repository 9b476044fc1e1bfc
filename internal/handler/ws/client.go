package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 20 * time.Second
)

type inboundMessage struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outboundMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// client wraps one websocket connection. The read loop is the only
// goroutine touching roomID; all writes funnel through the out channel
// so the socket has a single writer.
type client struct {
	id     string
	conn   *websocket.Conn
	out    chan outboundMessage
	roomID string
}

func newClient(id string, conn *websocket.Conn) *client {
	return &client{
		id:   id,
		conn: conn,
		out:  make(chan outboundMessage, 64),
	}
}

// queue enqueues a message without blocking; a full buffer drops the
// message rather than stalling the sender.
func (c *client) queue(msg outboundMessage) {
	select {
	case c.out <- msg:
	default:
		log.Printf("[ws] dropping message to slow client %s", c.id)
	}
}

// writeLoop drains the out channel and keeps the connection alive with
// periodic pings. Exits when ctx is cancelled.
func (c *client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.out:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
