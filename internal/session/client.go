package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 1 << 20
	callWait   = 10 * time.Second
)

type Client struct {
	hub      *Hub
	session  *Session
	conn     *websocket.Conn
	send     chan []byte
	ClientID string
}

func NewClient(hub *Hub, session *Session, conn *websocket.Conn, clientID string) *Client {
	return &Client{
		hub:      hub,
		session:  session,
		conn:     conn,
		send:     make(chan []byte, 256),
		ClientID: clientID,
	}
}

func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway {
				return
			}
			slog.Debug("read error", "error", err, "client", c.ClientID)
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			slog.Warn("invalid message", "error", err, "client", c.ClientID)
			continue
		}

		msg.ClientID = c.ClientID
		msg.SessionID = c.session.ID

		callCtx, cancel := context.WithTimeout(ctx, callWait)
		reply, err := c.session.Handle(callCtx, &msg)
		cancel()
		if err != nil {
			c.sendError(msg.Seq, err)
			continue
		}
		if reply != nil {
			c.Send(reply)
		}
	}
}

func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}

			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, message)
			cancel()
			if err != nil {
				slog.Debug("write error", "error", err, "client", c.ClientID)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal message", "error", err)
		return
	}
	c.session.mu.RLock()
	defer c.session.mu.RUnlock()
	if _, ok := c.session.clients[c.ClientID]; ok {
		c.queue(data)
	}
}

func (c *Client) sendError(seq int64, err error) {
	payload, _ := json.Marshal(ErrorPayload{Message: err.Error()})
	c.Send(&Message{
		Type:      TypeError,
		SessionID: c.session.ID,
		Seq:       seq,
		Payload:   payload,
	})
}

// queue must be called with the session lock held, or from the hub
// goroutine, so send is not closed underneath it.
func (c *Client) queue(data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("client send buffer full, dropping message", "client", c.ClientID)
	}
}
