package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/moodboard"
)

// State canvas connection state
type State int

const (
	StateActive State = iota
	StateClosed
)

// String state name for logs
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Command types sent by the client
const (
	CmdAdd          = "add"
	CmdPointerDown  = "pointerdown"
	CmdPointerMove  = "pointermove"
	CmdPointerUp    = "pointerup"
	CmdPointerLeave = "pointerleave"
	CmdRemove       = "remove"
	CmdEdit         = "edit"
	CmdClear        = "clear"
	CmdResize       = "resize"
	CmdRename       = "rename"
	CmdSave         = "save"
	CmdLoad         = "load"
)

// Event types sent back
const (
	EventState = "state"
	EventError = "error"
)

// Command one client message. Fields are used per type.
type Command struct {
	Type    string         `json:"type"`
	Kind    moodboard.Kind `json:"kind,omitempty"`
	Content string         `json:"content,omitempty"`
	ID      string         `json:"id,omitempty"`
	X       *float64       `json:"x,omitempty"`
	Y       *float64       `json:"y,omitempty"`
	Text    string         `json:"text,omitempty"`
	Width   float64        `json:"width,omitempty"`
	Height  float64        `json:"height,omitempty"`
	Name    string         `json:"name,omitempty"`
	Index   *int           `json:"index,omitempty"`
	Confirm bool           `json:"confirm,omitempty"`
}

// Event reply to a command
type Event struct {
	Type       string           `json:"type"`
	Name       string           `json:"name,omitempty"`
	Width      float64          `json:"width,omitempty"`
	Height     float64          `json:"height,omitempty"`
	Items      []moodboard.Item `json:"items"`
	Dragging   string           `json:"dragging,omitempty"`
	SavedIndex *int             `json:"savedIndex,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// MarshalJSON always sends items on state events, [] when the canvas is
// empty. Error events carry only type and error.
func (e Event) MarshalJSON() ([]byte, error) {
	type wire Event
	if e.Type == EventError {
		return json.Marshal(struct {
			Type  string `json:"type"`
			Error string `json:"error"`
		}{e.Type, e.Error})
	}
	if e.Items == nil {
		e.Items = []moodboard.Item{}
	}
	return json.Marshal(wire(e))
}

// ErrorEvent wraps err for the client
func ErrorEvent(err error) Event {
	return Event{Type: EventError, Error: err.Error()}
}

// Session one WebSocket client editing its own canvas. Commands must be
// applied from a single goroutine; the mutex only guards state and stats read
// by other goroutines.
type Session struct {
	ID          string
	ConnectedAt time.Time

	canvas *moodboard.Canvas
	boards *moodboard.Repository
	logger *zap.Logger

	mu       sync.RWMutex
	state    State
	commands uint64
}

// New creates a session with a fresh canvas
func New(boards *moodboard.Repository, logger *zap.Logger, opts ...moodboard.Option) *Session {
	id := uuid.New().String()
	return &Session{
		ID:          id,
		ConnectedAt: time.Now(),
		canvas:      moodboard.NewCanvas(opts...),
		boards:      boards,
		logger:      logger.With(zap.String("session", id)),
		state:       StateActive,
	}
}

func (s *Session) snapshot() Event {
	w, h := s.canvas.Size()
	dragging, _ := s.canvas.Dragging()
	return Event{
		Type:     EventState,
		Name:     s.canvas.Name(),
		Width:    w,
		Height:   h,
		Items:    s.canvas.Items(),
		Dragging: dragging,
	}
}

// Current canvas state without applying anything
func (s *Session) Current() Event {
	return s.snapshot()
}

func requirePoint(cmd Command) (float64, float64, error) {
	if cmd.X == nil || cmd.Y == nil {
		return 0, 0, fmt.Errorf("%w: %s needs x and y", apperr.ErrInvalidInput, cmd.Type)
	}
	return *cmd.X, *cmd.Y, nil
}

// Apply runs one command and returns the resulting canvas state. Errors leave
// the canvas unchanged and are returned as error events by the caller.
func (s *Session) Apply(ctx context.Context, cmd Command) (Event, error) {
	if s.IsClosed() {
		return Event{}, errors.New("session closed")
	}
	s.mu.Lock()
	s.commands++
	s.mu.Unlock()

	switch cmd.Type {
	case CmdAdd:
		content, err := moodboard.NewContent(cmd.Kind, cmd.Content)
		if err != nil {
			return Event{}, err
		}
		if cmd.X != nil && cmd.Y != nil {
			s.canvas.AddItemAt(content, *cmd.X, *cmd.Y)
		} else {
			s.canvas.AddItem(content)
		}

	case CmdPointerDown:
		x, y, err := requirePoint(cmd)
		if err != nil {
			return Event{}, err
		}
		s.canvas.BeginDrag(cmd.ID, x, y)

	case CmdPointerMove:
		x, y, err := requirePoint(cmd)
		if err != nil {
			return Event{}, err
		}
		s.canvas.UpdateDrag(x, y)

	case CmdPointerUp, CmdPointerLeave:
		s.canvas.EndDrag()

	case CmdRemove:
		s.canvas.RemoveItem(cmd.ID)

	case CmdEdit:
		s.canvas.EditText(cmd.ID, cmd.Text)

	case CmdClear:
		if !cmd.Confirm {
			return Event{}, fmt.Errorf("%w: clear must be confirmed", apperr.ErrInvalidInput)
		}
		s.canvas.Clear()

	case CmdResize:
		s.canvas.Resize(cmd.Width, cmd.Height)

	case CmdRename:
		s.canvas.Rename(cmd.Name)

	case CmdSave:
		idx, err := s.boards.Save(ctx, s.canvas.Snapshot())
		if err != nil {
			return Event{}, err
		}
		ev := s.snapshot()
		ev.SavedIndex = &idx
		return ev, nil

	case CmdLoad:
		if cmd.Index == nil {
			return Event{}, fmt.Errorf("%w: load needs an index", apperr.ErrInvalidInput)
		}
		board, err := s.boards.Load(ctx, *cmd.Index)
		if err != nil {
			return Event{}, err
		}
		s.canvas.Load(board)
		s.logger.Debug("board loaded", zap.Int("index", *cmd.Index), zap.Int("items", len(board.Items)))

	default:
		return Event{}, fmt.Errorf("%w: unknown command %q", apperr.ErrInvalidInput, cmd.Type)
	}

	return s.snapshot(), nil
}

// GetState connection state
func (s *Session) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Commands number of commands applied so far
func (s *Session) Commands() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.commands
}

// Duration time since connect
func (s *Session) Duration() time.Duration {
	return time.Since(s.ConnectedAt)
}

// Close marks the session closed. Unsaved canvas state is dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateClosed
}

// IsClosed reports whether Close was called
func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state == StateClosed
}
