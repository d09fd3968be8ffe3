package ws

import (
	"encoding/json"
	"time"

	"fapbot/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
)

type Client struct {
	UserID int64
	Conn   *websocket.Conn
	Send   chan []byte

	Hub  *Hub
	Done chan struct{}
}

func NewClient(userID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
		Hub:    hub,
		Done:   make(chan struct{}),
	}
}

func (c *Client) Run() {
	go c.writePump()

	c.Hub.register(c)
	c.Send <- []byte(`{"type":"ready"}`)

	go c.readPump()
	<-c.Done
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.unregister(c)
		_ = c.Conn.Close()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}
		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg []byte) {
	var payload ClaimBoxPayload
	if err := json.Unmarshal(msg, &payload); err != nil {
		logger.Debug("unreadable ws message", "user_id", c.UserID, "error", err)
		return
	}
	if payload.Type != MsgClaimBox {
		return
	}

	accepted := c.Hub.Claim(c.UserID, payload.BoxID)
	ack, err := json.Marshal(ClaimAckPayload{Type: MsgClaimAck, BoxID: payload.BoxID, Accepted: accepted})
	if err != nil {
		return
	}
	select {
	case c.Send <- ack:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
