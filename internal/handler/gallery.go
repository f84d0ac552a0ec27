package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"surana-backend/internal/service"
)

// GalleryHandler saved image endpoints
type GalleryHandler struct {
	gallery *service.GalleryService
	logger  *zap.Logger
}

// NewGalleryHandler creates a GalleryHandler
func NewGalleryHandler(gallery *service.GalleryService, logger *zap.Logger) *GalleryHandler {
	return &GalleryHandler{gallery: gallery, logger: logger}
}

// List GET /api/gallery?q=
func (h *GalleryHandler) List(c *fiber.Ctx) error {
	images, err := h.gallery.List(c.UserContext(), c.Query("q"))
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"images": images})
}

// Delete DELETE /api/gallery?url=
func (h *GalleryHandler) Delete(c *fiber.Ctx) error {
	if err := h.gallery.Delete(c.UserContext(), c.Query("url")); err != nil {
		return fail(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
