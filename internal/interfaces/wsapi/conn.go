package wsapi

import (
	"context"
	"log/slog"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/gorilla/websocket"
)

type connection struct {
	sessionID string
	sock      *websocket.Conn
	send      chan []byte
	config    Config
	logger    *slog.Logger
}

func newConnection(sessionID string, sock *websocket.Conn, config Config, logger *slog.Logger) *connection {
	buffer := config.SendBuffer
	if buffer <= 0 {
		buffer = 64
	}

	return &connection{
		sessionID: sessionID,
		sock:      sock,
		send:      make(chan []byte, buffer),
		config:    config,
		logger:    logger,
	}
}

// readPump forwards inbound frames to the router until the peer goes away.
// Closing the socket here also unblocks the write pump.
func (c *connection) readPump(ctx context.Context, router RequestSink) {
	defer c.sock.Close()

	c.sock.SetReadLimit(c.config.MaxMessageBytes)
	_ = c.sock.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	})

	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read failed",
					"session_id", c.sessionID, "error", crerr.Wrap(err, "read frame"))
			}
			return
		}

		router.Submit(ctx, c.sessionID, raw)
		_ = c.sock.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	}
}

// writePump drains the send channel and keeps the connection alive with
// pings. A failed write ends the session; there is no retry.
func (c *connection) writePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.sock.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.sock.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if !ok {
				_ = c.sock.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Warn("websocket write failed",
					"session_id", c.sessionID, "error", crerr.Wrap(err, "write frame"))
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
