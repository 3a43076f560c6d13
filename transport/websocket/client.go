package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Time allowed for one action to be applied.
	actionTimeout = 5 * time.Second
)

// Intent actions
const (
	ActionMove      = "move"
	ActionPlaceWall = "place_wall"
)

// Intent is a client to server action
type Intent struct {
	Action      string `json:"action"`
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Orientation string `json:"orientation,omitempty"`
}

// Client is one websocket connection attached to a room
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	code    string
	seat    int
	actions Actions
}

// readPump reads intents from the connection and applies them
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error", zap.String("code", c.code), zap.Error(err))
			}
			return
		}

		var intent Intent
		if err := json.Unmarshal(data, &intent); err != nil {
			c.hub.reject(c)
			continue
		}
		if !c.apply(intent) {
			c.hub.reject(c)
		}
	}
}

// apply submits one intent and reports whether it was accepted. Accepted
// actions are announced to the room by the session, not here.
func (c *Client) apply(intent Intent) bool {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	switch intent.Action {
	case ActionMove:
		res, err := c.actions.SubmitMove(ctx, c.code, c.seat, intent.X, intent.Y)
		return err == nil && res.Accepted
	case ActionPlaceWall:
		res, err := c.actions.SubmitWall(ctx, c.code, c.seat, intent.X, intent.Y, intent.Orientation)
		return err == nil && res.Accepted
	default:
		return false
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
