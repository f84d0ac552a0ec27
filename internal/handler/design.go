package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"surana-backend/internal/model"
	"surana-backend/internal/service"
)

// DesignHandler design generator endpoints
type DesignHandler struct {
	designs *service.DesignService
	logger  *zap.Logger
}

// NewDesignHandler creates a DesignHandler
func NewDesignHandler(designs *service.DesignService, logger *zap.Logger) *DesignHandler {
	return &DesignHandler{designs: designs, logger: logger}
}

// Options GET /api/designs/options
func (h *DesignHandler) Options(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"rooms":        service.Rooms,
		"styles":       service.Styles,
		"colorSchemes": service.ColorSchemes,
	})
}

// Prompt POST /api/designs/prompt
func (h *DesignHandler) Prompt(c *fiber.Ctx) error {
	var opts service.PromptOptions
	if err := c.BodyParser(&opts); err != nil {
		return badRequest(c, "invalid request body")
	}
	prompt, err := service.BuildPrompt(opts)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"prompt": prompt})
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

// Generate POST /api/designs/generate
func (h *DesignHandler) Generate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	img, err := h.designs.Generate(c.UserContext(), req.Prompt)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(img)
}

type describeRequest struct {
	Description string `json:"description"`
}

// Describe POST /api/designs/describe
func (h *DesignHandler) Describe(c *fiber.Ctx) error {
	var req describeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	img, err := h.designs.Describe(c.UserContext(), req.Description)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(img)
}

// Save POST /api/designs/save
func (h *DesignHandler) Save(c *fiber.Ctx) error {
	var img model.GeneratedImage
	if err := c.BodyParser(&img); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.designs.Save(c.UserContext(), img); err != nil {
		return fail(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Design saved to My Gallery!"})
}
