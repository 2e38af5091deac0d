package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"ordering/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

// subscribeRequest is the only client-to-server message: it binds the
// connection to one location and audience. Sending it again rebinds.
type subscribeRequest struct {
	LocationID string `json:"location_id"`
	Audience   string `json:"audience"`
}

// Client adapts one websocket connection to the hub. Outbound events go
// through a buffered channel; when the buffer is full the event is
// dropped, keeping one slow display from stalling the location.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Event
	log  *slog.Logger
}

// NewClient wraps an upgraded websocket connection.
func NewClient(hub *Hub, conn *websocket.Conn, log *slog.Logger) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan Event, sendBufferSize),
		log:  log,
	}
}

// Deliver queues an event for the connection, dropping it when the
// buffer is full. Never blocks the broadcasting goroutine.
func (c *Client) Deliver(event Event) {
	select {
	case c.send <- event:
	default:
		c.log.Warn("dropping event for slow subscriber", "type", event.Type)
	}
}

// Run services the connection until it closes, then removes its
// subscription. Blocks; callers run it in the connection's goroutine.
func (c *Client) Run() {
	done := make(chan struct{})
	go c.writeLoop(done)
	c.readLoop()
	close(done)

	c.hub.Unsubscribe(c)
	_ = c.conn.Close()
}

// readLoop consumes subscribe requests until the connection drops.
func (c *Client) readLoop() {
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var req subscribeRequest
		if err = json.Unmarshal(data, &req); err != nil {
			c.log.Warn("ignoring malformed subscribe request", "error", err)
			continue
		}

		locationID, err := kernel.UUIDFromString(req.LocationID)
		if err != nil {
			c.log.Warn("ignoring subscribe request with invalid location", "error", err)
			continue
		}

		audience, err := ParseAudience(req.Audience)
		if err != nil {
			c.log.Warn("ignoring subscribe request with invalid audience", "error", err)
			continue
		}

		c.hub.Subscribe(c, locationID, audience)
	}
}

func (c *Client) writeLoop(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
