package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"surana-backend/internal/apperr"
)

// fail writes err as {"error": ...} with the mapped status. Internal errors
// are logged and hidden from the client.
func fail(c *fiber.Ctx, log *zap.Logger, err error) error {
	status := apperr.StatusCode(err)
	if status >= fiber.StatusInternalServerError && status != fiber.StatusBadGateway {
		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
