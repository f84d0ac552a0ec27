package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const checkTimeout = 2 * time.Second

// HealthCheck pings one dependency
type HealthCheck func(ctx context.Context) error

type namedCheck struct {
	name     string
	check    HealthCheck
	critical bool
}

// HealthHandler health endpoints
type HealthHandler struct {
	checks []namedCheck
}

// NewHealthHandler creates a HealthHandler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Register adds a dependency check. Failing critical checks make the service
// unhealthy; others only degrade it.
func (h *HealthHandler) Register(name string, check HealthCheck, critical bool) *HealthHandler {
	h.checks = append(h.checks, namedCheck{name: name, check: check, critical: critical})
	return h
}

// ComponentCheck component status
type ComponentCheck struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse health response
type HealthResponse struct {
	Status    string                    `json:"status"`
	Timestamp string                    `json:"timestamp"`
	Checks    map[string]ComponentCheck `json:"checks"`
}

// Check full status of every registered dependency
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    make(map[string]ComponentCheck),
	}

	for _, nc := range h.checks {
		start := time.Now()
		ctx, cancel := context.WithTimeout(c.UserContext(), checkTimeout)
		err := nc.check(ctx)
		cancel()

		switch {
		case err == nil:
			response.Checks[nc.name] = ComponentCheck{Status: "healthy", Latency: time.Since(start).String()}
		case nc.critical:
			response.Status = "unhealthy"
			response.Checks[nc.name] = ComponentCheck{Status: "unhealthy", Error: err.Error()}
		default:
			if response.Status == "healthy" {
				response.Status = "degraded"
			}
			response.Checks[nc.name] = ComponentCheck{Status: "degraded", Error: err.Error()}
		}
	}

	statusCode := fiber.StatusOK
	if response.Status == "unhealthy" {
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(response)
}

// Liveness liveness probe
func (h *HealthHandler) Liveness(c *fiber.Ctx) error {
	return c.SendString("OK")
}

// Readiness readiness probe; critical checks only
func (h *HealthHandler) Readiness(c *fiber.Ctx) error {
	for _, nc := range h.checks {
		if !nc.critical {
			continue
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), checkTimeout)
		err := nc.check(ctx)
		cancel()
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("NOT READY")
		}
	}
	return c.SendString("READY")
}
