package handler

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"surana-backend/internal/moodboard"
	"surana-backend/internal/session"
)

// MoodboardWSHandler canvas editing over WebSocket. Every connection owns its
// own canvas; commands are applied in arrival order.
type MoodboardWSHandler struct {
	boards         *moodboard.Repository
	canvasOpts     []moodboard.Option
	maxMessageSize int64
	logger         *zap.Logger

	sessions map[string]*session.Session
	mu       sync.RWMutex
}

// NewMoodboardWSHandler creates a MoodboardWSHandler
func NewMoodboardWSHandler(boards *moodboard.Repository, width, height float64, maxMessageSize int64, logger *zap.Logger) *MoodboardWSHandler {
	return &MoodboardWSHandler{
		boards:         boards,
		canvasOpts:     []moodboard.Option{moodboard.WithSize(width, height)},
		maxMessageSize: maxMessageSize,
		logger:         logger.Named("moodboard-ws"),
		sessions:       make(map[string]*session.Session),
	}
}

// ActiveSessions number of open canvas connections
func (h *MoodboardWSHandler) ActiveSessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.sessions)
}

func (h *MoodboardWSHandler) register(s *session.Session) {
	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()
}

func (h *MoodboardWSHandler) unregister(s *session.Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
}

// HandleWebSocket serves one connection until the client goes away
func (h *MoodboardWSHandler) HandleWebSocket(c *websocket.Conn) {
	if h.maxMessageSize > 0 {
		c.SetReadLimit(h.maxMessageSize)
	}

	sess := session.New(h.boards, h.logger, h.canvasOpts...)
	h.register(sess)

	email, _ := c.Locals("email").(string)
	log := h.logger.With(zap.String("session", sess.ID), zap.String("email", email))
	log.Info("canvas client connected")

	defer func() {
		sess.Close()
		h.unregister(sess)
		c.Close()
		log.Info("canvas client disconnected",
			zap.Uint64("commands", sess.Commands()),
			zap.Duration("duration", sess.Duration()),
		)
	}()

	if err := c.WriteJSON(sess.Current()); err != nil {
		log.Warn("failed to send initial state", zap.Error(err))
		return
	}

	ctx := context.Background()
	for {
		mt, msg, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("canvas read error", zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}

		var cmd session.Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			if werr := c.WriteJSON(session.Event{Type: session.EventError, Error: "malformed command"}); werr != nil {
				return
			}
			continue
		}

		ev, err := sess.Apply(ctx, cmd)
		if err != nil {
			log.Debug("command rejected", zap.String("type", cmd.Type), zap.Error(err))
			ev = session.ErrorEvent(err)
		}
		if err := c.WriteJSON(ev); err != nil {
			log.Warn("canvas write error", zap.Error(err))
			return
		}
	}
}
