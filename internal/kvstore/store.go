// Package kvstore is the flat string-keyed persistence layer. Every piece of
// application state (credentials, saved boards, galleries, session flag) lives
// under a fixed key as a JSON-encoded string.
package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"surana-backend/internal/apperr"
)

// Store get/set/remove over string keys. No transactions, no quotas.
type Store interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// GetJSON decodes the value under key into v. A missing key reports ok=false;
// a value that does not decode returns apperr.ErrStorageCorruption.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("%w: key %q: %v", apperr.ErrStorageCorruption, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}
