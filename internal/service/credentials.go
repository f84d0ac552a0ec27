package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/kvstore"
	"surana-backend/internal/model"
)

// Provider third-party API that needs a user key
type Provider string

const (
	ProviderRunware Provider = "runware"
	ProviderGemini  Provider = "gemini"
)

// ParseProvider validates a provider path segment
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(s)) {
	case ProviderRunware:
		return ProviderRunware, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("%w: unknown provider %q", apperr.ErrInvalidInput, s)
	}
}

func (p Provider) storageKey() string {
	if p == ProviderGemini {
		return model.KeyGeminiAPIKey.String()
	}
	return model.KeyRunwareAPIKey.String()
}

// KeySource resolves the API key for a provider. Empty means not configured.
type KeySource interface {
	APIKey(ctx context.Context, p Provider) (string, error)
}

// CredentialService user-supplied vendor keys. Keys from config act as
// defaults until the user stores their own.
type CredentialService struct {
	store    kvstore.Store
	defaults map[Provider]string
	logger   *zap.Logger
}

// NewCredentialService creates a CredentialService
func NewCredentialService(store kvstore.Store, runwareDefault, geminiDefault string, logger *zap.Logger) *CredentialService {
	return &CredentialService{
		store: store,
		defaults: map[Provider]string{
			ProviderRunware: runwareDefault,
			ProviderGemini:  geminiDefault,
		},
		logger: logger.Named("credentials"),
	}
}

// APIKey stored key, else the configured default
func (s *CredentialService) APIKey(ctx context.Context, p Provider) (string, error) {
	v, ok, err := s.store.Get(ctx, p.storageKey())
	if err != nil {
		return "", err
	}
	if ok && strings.TrimSpace(v) != "" {
		return v, nil
	}
	return s.defaults[p], nil
}

// Save stores key for p. Blank keys are rejected.
func (s *CredentialService) Save(ctx context.Context, p Provider, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: please enter a valid API key", apperr.ErrInvalidInput)
	}
	if err := s.store.Set(ctx, p.storageKey(), key); err != nil {
		return err
	}
	s.logger.Info("api key saved", zap.String("provider", string(p)))
	return nil
}

// Clear removes the stored key; a configured default still applies afterwards
func (s *CredentialService) Clear(ctx context.Context, p Provider) error {
	if err := s.store.Remove(ctx, p.storageKey()); err != nil {
		return err
	}
	s.logger.Info("api key cleared", zap.String("provider", string(p)))
	return nil
}

// CredentialStatus what the client is told about a key; the key itself is never returned
type CredentialStatus struct {
	Provider   Provider `json:"provider"`
	Configured bool     `json:"configured"`
	Source     string   `json:"source,omitempty"`
}

// Status reports whether a key is available and where it comes from
func (s *CredentialService) Status(ctx context.Context, p Provider) (CredentialStatus, error) {
	st := CredentialStatus{Provider: p}
	v, ok, err := s.store.Get(ctx, p.storageKey())
	if err != nil {
		return st, err
	}
	switch {
	case ok && strings.TrimSpace(v) != "":
		st.Configured, st.Source = true, "user"
	case s.defaults[p] != "":
		st.Configured, st.Source = true, "config"
	}
	return st, nil
}
