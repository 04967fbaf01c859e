package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"legifai-be/internal/dto"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// TurnFunc runs one consultation turn for a websocket frame.
type TurnFunc func(ctx context.Context, sessionID, message string) (*dto.InvokeResponse, error)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	// SessionID is the consultation this connection follows.
	SessionID string

	// Buffered channel of outbound messages.
	Send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, sessionID string) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		SessionID: sessionID,
		Send:      make(chan []byte, 32),
		done:      make(chan struct{}),
	}
}

func (c *Client) trySend(data []byte) bool {
	select {
	case <-c.done:
		return true
	default:
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readPump reads chat frames and runs them one at a time, so a connection
// never has two turns in flight.
func (c *Client) readPump(ctx context.Context, turn TurnFunc) {
	defer func() {
		c.Hub.drop(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("ChatSocket", "Unexpected close", map[string]interface{}{
					"session_id": c.SessionID,
					"error":      err.Error(),
				})
			}
			return
		}

		c.handleFrame(ctx, raw, turn)
	}
}

func (c *Client) handleFrame(ctx context.Context, raw []byte, turn TurnFunc) {
	var frame dto.ChatFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.replyError("invalid frame")
		return
	}
	if frame.SessionId != "" && frame.SessionId != c.SessionID {
		c.replyError("frame session_id does not match the connection")
		return
	}
	if frame.Message == "" {
		c.replyError("message is required")
		return
	}

	res, err := turn(ctx, c.SessionID, frame.Message)
	if err != nil {
		c.replyError(err.Error())
		return
	}

	data, err := json.Marshal(dto.ChatFrameReply{InvokeResponse: res})
	if err != nil {
		c.replyError(err.Error())
		return
	}
	c.Hub.Deliver(ctx, c.SessionID, data)
}

// replyError answers only the connection that sent the frame.
func (c *Client) replyError(msg string) {
	data, _ := json.Marshal(dto.ChatFrameReply{Error: msg})
	c.trySend(data)
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case message := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
