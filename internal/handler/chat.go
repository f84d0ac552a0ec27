package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"surana-backend/internal/service"
)

// ChatHandler design assistant endpoint
type ChatHandler struct {
	assistant *service.Assistant
	logger    *zap.Logger
}

// NewChatHandler creates a ChatHandler
func NewChatHandler(assistant *service.Assistant, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{assistant: assistant, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Send POST /api/chat
func (h *ChatHandler) Send(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	reply, err := h.assistant.Send(c.UserContext(), req.Message)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(reply)
}

// Greeting GET /api/chat/greeting
func (h *ChatHandler) Greeting(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"text": service.GreetingText, "sender": "bot"})
}
