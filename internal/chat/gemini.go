// Package chat wraps the Gemini text completion API.
package chat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"surana-backend/internal/apperr"
)

const (
	DefaultModel   = "gemini-2.0-flash"
	DefaultTimeout = 30 * time.Second
)

// Completer single-turn text completion keyed per call
type Completer interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}

// Config Gemini client settings. BaseURL is empty for the public endpoint.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// GeminiClient builds a genai client per call because the key lives in the
// store and can change between requests.
type GeminiClient struct {
	baseURL    string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGeminiClient creates a GeminiClient, filling unset fields with defaults
func NewGeminiClient(cfg Config, logger *zap.Logger) *GeminiClient {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &GeminiClient{
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger.Named("gemini"),
	}
}

// Complete sends prompt as one user turn and returns the model's text.
func (c *GeminiClient) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", fmt.Errorf("%w: gemini API key is not set", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is empty", apperr.ErrInvalidInput)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create gemini client: %v", apperr.ErrUpstream, err)
	}

	start := time.Now()
	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		c.logger.Warn("gemini request failed", zap.String("model", c.model), zap.Error(err))
		return "", fmt.Errorf("%w: gemini: %v", apperr.ErrUpstream, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned no candidates", apperr.ErrUpstream)
	}

	c.logger.Debug("gemini completion",
		zap.String("model", c.model),
		zap.Int("prompt_len", len(prompt)),
		zap.Int("response_len", len(text)),
		zap.Duration("took", time.Since(start)))
	return text, nil
}
