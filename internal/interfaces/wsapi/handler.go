// Package wsapi is the websocket transport for the realtime protocol. It
// owns connection lifecycles only: session identity, the read pump feeding
// the router and the write pump draining the hub. All request semantics
// live behind the router.
package wsapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sourcegraph/conc"
)

// Config bounds one websocket connection.
type Config struct {
	SendBuffer      int
	MaxMessageBytes int64
	WriteTimeout    time.Duration
	PingInterval    time.Duration
	ReadTimeout     time.Duration
}

func DefaultConfig() Config {
	return Config{
		SendBuffer:      64,
		MaxMessageBytes: 16 * 1024,
		WriteTimeout:    10 * time.Second,
		PingInterval:    30 * time.Second,
		ReadTimeout:     60 * time.Second,
	}
}

// SessionSink is the hub side of a connection: attach and detach the send
// channel and record nothing else.
type SessionSink interface {
	Register(sessionID string, send chan []byte)
	Detach(sessionID string)
}

// RequestSink receives raw inbound frames tied to a session.
type RequestSink interface {
	Submit(ctx context.Context, sessionID string, raw []byte)
}

type Handler struct {
	hub      SessionSink
	router   RequestSink
	upgrader websocket.Upgrader
	config   Config
	logger   *slog.Logger
}

func NewHandler(hub SessionSink, router RequestSink, config Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		hub:    hub,
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		config: config,
		logger: logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.HandleSession(w, r)
}

// HandleSession upgrades the connection, assigns it a session identifier
// and blocks until both pumps finish. The session ID is the identity every
// subscription and point reply keys on.
func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sock, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}

	sessionID := uuid.NewString()
	conn := newConnection(sessionID, sock, h.config, h.logger)

	h.hub.Register(sessionID, conn.send)
	h.logger.Info("session connected", "session_id", sessionID, "remote_addr", r.RemoteAddr)

	var pumps conc.WaitGroup
	pumps.Go(conn.writePump)
	pumps.Go(func() { conn.readPump(r.Context(), h.router) })
	pumps.Wait()

	h.hub.Detach(sessionID)
	h.logger.Info("session disconnected", "session_id", sessionID)
}
