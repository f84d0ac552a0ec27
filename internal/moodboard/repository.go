package moodboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/kvstore"
	"surana-backend/internal/model"
)

// ErrEmptyBoard saving a board without items
var ErrEmptyBoard = fmt.Errorf("%w: moodboard is empty, add some items before saving", apperr.ErrInvalidInput)

// Repository saved board snapshots, kept as one JSON list under savedMoodboards.
// Save always appends; boards have no identity beyond name and index.
type Repository struct {
	store  kvstore.Store
	logger *zap.Logger

	// serializes read-modify-write of the list
	mu sync.Mutex
}

// NewRepository creates a Repository over store
func NewRepository(store kvstore.Store, logger *zap.Logger) *Repository {
	return &Repository{store: store, logger: logger.Named("moodboards")}
}

// List returns saved boards in save order. A corrupt list reads as empty.
func (r *Repository) List(ctx context.Context) ([]Board, error) {
	var boards []Board
	_, err := kvstore.GetJSON(ctx, r.store, model.KeySavedMoodboards.String(), &boards)
	if errors.Is(err, apperr.ErrStorageCorruption) {
		r.logger.Warn("saved moodboards unreadable, treating as empty", zap.Error(err))
		return []Board{}, nil
	}
	if err != nil {
		return nil, err
	}
	if boards == nil {
		boards = []Board{}
	}
	return boards, nil
}

// Save appends b and returns its index. Empty boards are rejected without
// touching storage.
func (r *Repository) Save(ctx context.Context, b Board) (int, error) {
	if len(b.Items) == 0 {
		return 0, ErrEmptyBoard
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	boards, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	boards = append(boards, b.Clone())
	if err := kvstore.SetJSON(ctx, r.store, model.KeySavedMoodboards.String(), boards); err != nil {
		return 0, err
	}

	r.logger.Info("moodboard saved", zap.String("name", b.Name), zap.Int("items", len(b.Items)), zap.Int("index", len(boards)-1))
	return len(boards) - 1, nil
}

// Load returns the snapshot at index
func (r *Repository) Load(ctx context.Context, index int) (Board, error) {
	boards, err := r.List(ctx)
	if err != nil {
		return Board{}, err
	}
	if index < 0 || index >= len(boards) {
		return Board{}, fmt.Errorf("moodboard %d: %w", index, apperr.ErrNotFound)
	}
	return boards[index], nil
}

// Delete removes the snapshot at index and rewrites the list
func (r *Repository) Delete(ctx context.Context, index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	boards, err := r.List(ctx)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(boards) {
		return fmt.Errorf("moodboard %d: %w", index, apperr.ErrNotFound)
	}

	boards = append(boards[:index], boards[index+1:]...)
	if err := kvstore.SetJSON(ctx, r.store, model.KeySavedMoodboards.String(), boards); err != nil {
		return err
	}

	r.logger.Info("moodboard deleted", zap.Int("index", index))
	return nil
}
