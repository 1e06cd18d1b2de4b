package realtime

import (
	"log/slog"
	"sync"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/valyala/bytebufferpool"
)

// Hub tracks live sessions and which team each session is viewing, and
// fans outbound messages out to them. Fan-out runs on a worker pool with
// non-blocking sends so the serialized request loop never waits on a slow
// connection; a full send buffer drops the message for that session.
type Hub struct {
	logger *slog.Logger
	pool   *ants.Pool

	mu sync.RWMutex
	// send channel per live session; detached sessions just disappear here.
	sessions map[string]chan []byte
	// teamID -> set of session IDs that loaded the team. Entries accumulate
	// for the process lifetime; there is no unsubscribe.
	subscribers map[string]map[string]struct{}
}

func NewHub(workers int, logger *slog.Logger) (*Hub, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if workers <= 0 {
		workers = 8
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, crerr.Wrap(err, "create broadcast worker pool")
	}

	return &Hub{
		logger:      logger,
		pool:        pool,
		sessions:    make(map[string]chan []byte),
		subscribers: make(map[string]map[string]struct{}),
	}, nil
}

// Register attaches a session's send channel. The transport owns the
// channel and drains it until Detach.
func (h *Hub) Register(sessionID string, send chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[sessionID] = send
}

// Detach removes the live channel but keeps any subscriptions; later
// broadcasts to a detached session drop silently.
func (h *Hub) Detach(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.sessions, sessionID)
}

// Subscribe marks a session as a viewer of a team. Idempotent.
func (h *Hub) Subscribe(teamID, sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subscribers[teamID]
	if !ok {
		set = make(map[string]struct{})
		h.subscribers[teamID] = set
	}
	set[sessionID] = struct{}{}
}

// SubscriberCount reports how many sessions have loaded a team.
func (h *Hub) SubscriberCount(teamID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[teamID])
}

// SendTo delivers a message to one session, best effort.
func (h *Hub) SendTo(sessionID string, msg Outbound) {
	data, err := h.encode(msg)
	if err != nil {
		h.logger.Error("encode outbound message", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	send, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	h.push(sessionID, send, msg.Type, data)
}

// Broadcast delivers a message once to every subscriber of a team, order
// unspecified, no acknowledgment. The fan-out runs on the pool so the
// caller returns as soon as the message is encoded.
func (h *Hub) Broadcast(teamID string, msg Outbound) {
	data, err := h.encode(msg)
	if err != nil {
		h.logger.Error("encode broadcast message", "type", msg.Type, "team_id", teamID, "error", err)
		return
	}

	h.mu.RLock()
	targets := make(map[string]chan []byte, len(h.subscribers[teamID]))
	for sessionID := range h.subscribers[teamID] {
		if send, ok := h.sessions[sessionID]; ok {
			targets[sessionID] = send
		}
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	if err := h.pool.Submit(func() {
		for sessionID, send := range targets {
			h.push(sessionID, send, msg.Type, data)
		}
	}); err != nil {
		h.logger.Warn("broadcast pool rejected task, delivering inline",
			"team_id", teamID, "type", msg.Type, "error", err)
		for sessionID, send := range targets {
			h.push(sessionID, send, msg.Type, data)
		}
	}
}

// Close releases the worker pool. Registered sessions are left to their
// transports to tear down.
func (h *Hub) Close() {
	h.pool.Release()
}

func (h *Hub) encode(msg Outbound) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(msg); err != nil {
		return nil, crerr.Wrap(err, "marshal outbound envelope")
	}

	// The pooled buffer is reused immediately, so hand out an owned copy.
	out := make([]byte, buf.Len())
	copy(out, buf.B)

	return out, nil
}

func (h *Hub) push(sessionID string, send chan []byte, msgType string, data []byte) {
	select {
	case send <- data:
	default:
		h.logger.Warn("session send buffer full, dropping message",
			"session_id", sessionID, "type", msgType)
	}
}
