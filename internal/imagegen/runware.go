// Package imagegen talks to the Runware image inference REST API.
package imagegen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/model"
)

const (
	DefaultBaseURL = "https://api.runware.ai"
	DefaultModel   = "runware:100@1"
	DefaultTimeout = 60 * time.Second

	outputFormat = "WEBP"
)

// Request what to draw
type Request struct {
	PositivePrompt string `json:"positivePrompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}

// Generator single-shot text-to-image
type Generator interface {
	Generate(ctx context.Context, apiKey string, req Request) (model.GeneratedImage, error)
}

// Config Runware client settings
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client Runware REST client. One request per call, no retries.
type Client struct {
	baseURL string
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates a Client, filling unset fields with defaults
func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger.Named("runware"),
	}
}

type authTask struct {
	TaskType string `json:"taskType"`
	APIKey   string `json:"apiKey"`
}

type inferenceTask struct {
	TaskType       string `json:"taskType"`
	TaskUUID       string `json:"taskUUID"`
	PositivePrompt string `json:"positivePrompt"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Model          string `json:"model"`
	NumberResults  int    `json:"numberResults"`
	OutputFormat   string `json:"outputFormat"`
}

type inferenceResponse struct {
	Data   []model.GeneratedImage `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Generate asks Runware for one image. Blank key or prompt is rejected before
// any network call.
func (c *Client) Generate(ctx context.Context, apiKey string, req Request) (model.GeneratedImage, error) {
	if strings.TrimSpace(apiKey) == "" {
		return model.GeneratedImage{}, fmt.Errorf("%w: runware API key is not set", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(req.PositivePrompt) == "" {
		return model.GeneratedImage{}, fmt.Errorf("%w: prompt is empty", apperr.ErrInvalidInput)
	}
	if req.Width <= 0 || req.Height <= 0 {
		return model.GeneratedImage{}, fmt.Errorf("%w: image size %dx%d", apperr.ErrInvalidInput, req.Width, req.Height)
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return model.GeneratedImage{}, fmt.Errorf("%w: %v", apperr.ErrUpstream, ctx.Err())
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	taskUUID := uuid.NewString()
	body := []any{
		authTask{TaskType: "authentication", APIKey: apiKey},
		inferenceTask{
			TaskType:       "imageInference",
			TaskUUID:       taskUUID,
			PositivePrompt: req.PositivePrompt,
			Width:          req.Width,
			Height:         req.Height,
			Model:          c.model,
			NumberResults:  1,
			OutputFormat:   outputFormat,
		},
	}

	start := time.Now()
	var (
		resp inferenceResponse
		code int
		raw  []byte
		errs []error
	)
	// the agent takes no context; abandon it on cancel and let its own timeout reap it
	done := make(chan struct{})
	go func() {
		defer close(done)
		var r inferenceResponse
		cd, b, e := fiber.Post(c.baseURL+"/v1").
			JSON(body).
			Timeout(timeout).
			Struct(&r)
		resp, code, raw, errs = r, cd, b, e
	}()

	select {
	case <-ctx.Done():
		c.logger.Info("runware request cancelled", zap.String("task", taskUUID), zap.Error(ctx.Err()))
		return model.GeneratedImage{}, fmt.Errorf("%w: %v", apperr.ErrUpstream, ctx.Err())
	case <-done:
	}
	if len(resp.Errors) > 0 {
		c.logger.Warn("runware rejected request",
			zap.Int("status", code),
			zap.String("task", taskUUID),
			zap.String("message", resp.Errors[0].Message))
		return model.GeneratedImage{}, fmt.Errorf("%w: runware: %s", apperr.ErrUpstream, resp.Errors[0].Message)
	}
	if code < 200 || code >= 300 {
		c.logger.Warn("runware request failed", zap.Int("status", code), zap.ByteString("body", truncate(raw, 256)))
		return model.GeneratedImage{}, fmt.Errorf("%w: runware status %d", apperr.ErrUpstream, code)
	}
	if len(errs) > 0 {
		return model.GeneratedImage{}, fmt.Errorf("%w: runware: %v", apperr.ErrUpstream, errors.Join(errs...))
	}
	if len(resp.Data) == 0 || resp.Data[0].ImageURL == "" {
		return model.GeneratedImage{}, fmt.Errorf("%w: runware returned no image", apperr.ErrUpstream)
	}

	img := resp.Data[0]
	if img.PositivePrompt == "" {
		img.PositivePrompt = req.PositivePrompt
	}
	c.logger.Info("image generated",
		zap.String("task", img.TaskUUID),
		zap.Int("width", req.Width),
		zap.Int("height", req.Height),
		zap.Duration("took", time.Since(start)))
	return img, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
