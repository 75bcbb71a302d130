package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"coscribe/internal/config"
)

// WriteAuthorizer answers whether a user may push content updates to a
// document. The live path checks it per update so a revoked editor stops
// writing without reconnecting.
type WriteAuthorizer interface {
	CanWrite(ctx context.Context, userID, documentID string) (bool, error)
}

// Client is one live websocket subscription to a document. It implements
// Subscriber; the write pump is the only goroutine that touches the
// connection for writes, and the read pump is the only reader.
type Client struct {
	id         string
	userID     string
	userName   string
	documentID string

	conn   *websocket.Conn
	send   chan []byte
	hub    *Hub
	gate   WriteAuthorizer
	cfg    *config.RealtimeConfig
	logger *slog.Logger
}

// NewClient wraps an upgraded connection. The caller has already verified
// the user may read the document.
func NewClient(
	conn *websocket.Conn,
	hub *Hub,
	gate WriteAuthorizer,
	cfg *config.RealtimeConfig,
	documentID, userID, userName string,
	logger *slog.Logger,
) *Client {
	return &Client{
		id:         uuid.New().String(),
		userID:     userID,
		userName:   userName,
		documentID: documentID,
		conn:       conn,
		send:       make(chan []byte, cfg.SendBuffer),
		hub:        hub,
		gate:       gate,
		cfg:        cfg,
		logger:     logger,
	}
}

func (c *Client) ID() string       { return c.id }
func (c *Client) UserID() string   { return c.userID }
func (c *Client) UserName() string { return c.userName }

// Send queues an outbound message without blocking. False means the buffer
// is full and the frame was dropped.
func (c *Client) Send(v any) bool {
	payload, err := json.Marshal(v)
	if err != nil {
		c.logger.Error("marshal outbound message", "error", err)
		return false
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Run subscribes the client and pumps messages until the connection closes.
// Closing the connection at any point is a normal event; the unsubscribe in
// the defer is what keeps presence accounting correct.
func (c *Client) Run(ctx context.Context) {
	c.hub.Subscribe(c.documentID, c)
	defer func() {
		c.hub.Unsubscribe(c.documentID, c)
		c.conn.Close()
	}()

	done := make(chan struct{})
	go c.writePump(done)

	c.readPump(ctx)
	close(done)
}

// readPump decodes and dispatches client frames. A frame that fails
// validation or authorization is logged and dropped - there is no error
// channel back over the live connection, and a bad frame must never kill
// the session.
func (c *Client) readPump(ctx context.Context) {
	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("websocket read error", "error", err, "connection_id", c.id)
			}
			return
		}

		msg, err := DecodeInbound(data)
		if err != nil {
			c.logger.Warn("dropping malformed live message",
				"error", err,
				"document_id", c.documentID,
				"user_id", c.userID,
			)
			continue
		}

		switch m := msg.(type) {
		case UpdateMessage:
			ok, err := c.gate.CanWrite(ctx, c.userID, c.documentID)
			if err != nil {
				c.logger.Error("live write check failed", "error", err, "document_id", c.documentID)
				continue
			}
			if !ok {
				c.logger.Warn("dropping update from non-editor",
					"document_id", c.documentID,
					"user_id", c.userID,
				)
				continue
			}
			c.hub.ApplyUpdate(c.documentID, m.Changes, c)
		case CursorMessage:
			c.hub.RelayCursor(c.documentID, m, c)
		}
	}
}

// writePump owns all writes: queued frames and keepalive pings.
func (c *Client) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.logger.Debug("websocket write error", "error", err, "connection_id", c.id)
				c.conn.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.conn.Close()
				return
			}
		case <-done:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
