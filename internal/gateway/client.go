package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/openclaw/openclaw/pkg/protocol"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client is one connected WebSocket session: it owns the socket, serializes
// writes (the gorilla/websocket docs require a single writer goroutine per
// connection), and feeds inbound RequestFrames to the server's MethodRouter.
type Client struct {
	id     string
	conn   *websocket.Conn
	server *Server

	writeMu sync.Mutex
}

// NewClient wraps conn for use by the server's connection registry and
// read/dispatch loop.
func NewClient(conn *websocket.Conn, s *Server) *Client {
	return &Client{
		id:     uuid.NewString(),
		conn:   conn,
		server: s,
	}
}

// ID returns the client's connection identifier, used to key subscriptions
// and to stamp into "connect" responses.
func (c *Client) ID() string { return c.id }

// Run reads frames off the connection until it closes or ctx is canceled,
// dispatching each RequestFrame through the server's MethodRouter. It blocks
// until the connection ends.
func (c *Client) Run(ctx context.Context) {
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	go c.pingLoop(done)
	defer close(done)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("ws.read_error", "client", c.id, "error", err)
			}
			return
		}

		ft, err := protocol.ParseFrameType(raw)
		if err != nil {
			slog.Warn("ws.bad_frame", "client", c.id, "error", err)
			continue
		}
		if ft != protocol.FrameTypeRequest {
			// Clients only ever send requests; ignore anything else rather
			// than tearing down the connection over a stray frame.
			continue
		}

		var req protocol.RequestFrame
		if err := json.Unmarshal(raw, &req); err != nil {
			slog.Warn("ws.bad_request_frame", "client", c.id, "error", err)
			continue
		}

		go c.handleRequest(ctx, req)
	}
}

func (c *Client) handleRequest(ctx context.Context, req protocol.RequestFrame) {
	resp := c.server.router.Dispatch(ctx, c.server, c, req)
	if err := c.writeJSON(resp); err != nil {
		slog.Warn("ws.write_error", "client", c.id, "error", err)
	}
}

func (c *Client) pingLoop(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			err := c.conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (c *Client) writeJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// SendEvent pushes a server-initiated EventFrame to the client.
func (c *Client) SendEvent(event protocol.EventFrame) {
	if err := c.writeJSON(event); err != nil {
		slog.Warn("ws.send_event_error", "client", c.id, "error", err)
	}
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
