package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"surana-backend/internal/service"
)

// CredentialHandler vendor API key endpoints. Keys are write-only.
type CredentialHandler struct {
	creds  *service.CredentialService
	logger *zap.Logger
}

// NewCredentialHandler creates a CredentialHandler
func NewCredentialHandler(creds *service.CredentialService, logger *zap.Logger) *CredentialHandler {
	return &CredentialHandler{creds: creds, logger: logger}
}

type saveKeyRequest struct {
	APIKey string `json:"apiKey"`
}

// Status GET /api/credentials/:provider
func (h *CredentialHandler) Status(c *fiber.Ctx) error {
	p, err := service.ParseProvider(c.Params("provider"))
	if err != nil {
		return fail(c, h.logger, err)
	}
	st, err := h.creds.Status(c.UserContext(), p)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(st)
}

// Save PUT /api/credentials/:provider
func (h *CredentialHandler) Save(c *fiber.Ctx) error {
	p, err := service.ParseProvider(c.Params("provider"))
	if err != nil {
		return fail(c, h.logger, err)
	}

	var req saveKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.creds.Save(c.UserContext(), p, req.APIKey); err != nil {
		return fail(c, h.logger, err)
	}

	return c.JSON(fiber.Map{"message": "API key saved", "provider": p})
}

// Clear DELETE /api/credentials/:provider
func (h *CredentialHandler) Clear(c *fiber.Ctx) error {
	p, err := service.ParseProvider(c.Params("provider"))
	if err != nil {
		return fail(c, h.logger, err)
	}
	if err := h.creds.Clear(c.UserContext(), p); err != nil {
		return fail(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
