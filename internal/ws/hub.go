package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
)

// session is one connected websocket client: an identity plus its outbound
// queue, the same shape as the teacher's Client (id, conn, send chan), with
// a uuid session id and a rate limiter added.
type session struct {
	id       string
	nickname string
	conn     *websocket.Conn
	send     chan []byte
	limiter  rateLimiter
}

// Hub is the connection registry and websocket transport, adapted from the
// teacher's card-game Hub: origin-gated upgrade, a ping ticker per
// connection, and JSON envelope dispatch — generalized from Mulatschak's
// room/table commands to Hive's join/action/forfeit commands, delegating
// all state mutation to an Engine instead of mutating rooms directly.
type Hub struct {
	allowOrigins map[string]bool
	devMode      bool

	mu       sync.RWMutex
	sessions map[string]*session

	engine *Engine
	logger zerolog.Logger
}

// NewHub returns a Hub that gates connections by allow and forwards decoded
// actions to engine.
func NewHub(allow []string, devMode bool, engine *Engine, logger zerolog.Logger) *Hub {
	m := map[string]bool{}
	for _, a := range allow {
		if a != "" {
			m[a] = true
		}
	}
	return &Hub{allowOrigins: m, devMode: devMode, sessions: map[string]*session{}, engine: engine, logger: logger}
}

// Broadcast implements Broadcaster: fan msg out to every connected session.
func (h *Hub) Broadcast(msg Msg) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.sessions {
		select {
		case s.send <- b:
		default:
		}
	}
}

// SendTo implements Broadcaster: deliver msg to a single session, if still
// connected.
func (h *Hub) SendTo(sessionID string, msg Msg) {
	b, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.RLock()
	s, ok := h.sessions[sessionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case s.send <- b:
	default:
	}
}

// ServeWS upgrades the connection, per §4.9's model of the teacher's
// cmd/server/main.go wiring: origin allowlist enforced unless devMode
// relaxes it, then a read loop dispatching decoded envelopes to the engine.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && !h.devMode && !h.allowOrigins[origin] {
		http.Error(w, "forbidden origin", http.StatusForbidden)
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: h.devMode})
	if err != nil {
		return
	}

	s := &session{id: uuid.NewString(), conn: c, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()
	h.logger.Info().Str("session", s.id).Msg("session connected")

	h.sendSnapshotTo(s)

	go h.writeLoop(r.Context(), s)
	h.readLoop(r.Context(), s)

	h.mu.Lock()
	delete(h.sessions, s.id)
	close(s.send)
	h.mu.Unlock()
	h.engine.Disconnect(s.id)
	h.logger.Info().Str("session", s.id).Msg("session disconnected")
}

func (h *Hub) writeLoop(ctx context.Context, s *session) {
	ping := time.NewTicker(15 * time.Second)
	defer func() { ping.Stop(); _ = s.conn.Close(websocket.StatusNormalClosure, "bye") }()
	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				return
			}
			if err := s.conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		case <-ping.C:
			_ = s.conn.Ping(ctx)
		}
	}
}

func (h *Hub) readLoop(ctx context.Context, s *session) {
	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			return
		}
		var m Msg
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		if !s.limiter.allow(time.Now()) {
			h.SendTo(s.id, Msg{T: msgError, M: map[string]interface{}{"reason": "rate limited"}})
			continue
		}
		h.dispatch(s, m)
	}
}

func (h *Hub) dispatch(s *session, m Msg) {
	switch m.T {
	case msgJoinAsHuman:
		name := stringField(m.M, "name")
		s.nickname = name
		h.engine.JoinAsHuman(s.id, name)

	case msgJoinVsBot:
		name := stringField(m.M, "name")
		s.nickname = name
		h.engine.JoinVsBot(s.id, name)

	case msgGameAction:
		h.engine.SubmitAction(s.id, m.M)

	case msgForfeit:
		h.engine.Forfeit(s.id)

	default:
		h.SendTo(s.id, Msg{T: msgError, M: map[string]interface{}{"reason": "unrecognised message type"}})
	}
}

func (h *Hub) sendSnapshotTo(s *session) {
	h.engine.RequestSnapshot(s.id)
}
