package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"surana-backend/internal/moodboard"
	"surana-backend/internal/service"
)

// MoodboardHandler saved board REST endpoints and side-panel search
type MoodboardHandler struct {
	boards *moodboard.Repository
	search *service.MoodboardSearch
	logger *zap.Logger
}

// NewMoodboardHandler creates a MoodboardHandler
func NewMoodboardHandler(boards *moodboard.Repository, search *service.MoodboardSearch, logger *zap.Logger) *MoodboardHandler {
	return &MoodboardHandler{boards: boards, search: search, logger: logger}
}

// BoardSummary list entry
type BoardSummary struct {
	Index     int    `json:"index"`
	Name      string `json:"name"`
	ItemCount int    `json:"itemCount"`
}

// List GET /api/moodboards
func (h *MoodboardHandler) List(c *fiber.Ctx) error {
	boards, err := h.boards.List(c.UserContext())
	if err != nil {
		return fail(c, h.logger, err)
	}

	out := make([]BoardSummary, len(boards))
	for i, b := range boards {
		out[i] = BoardSummary{Index: i, Name: b.Name, ItemCount: len(b.Items)}
	}
	return c.JSON(fiber.Map{"boards": out})
}

// Get GET /api/moodboards/:index
func (h *MoodboardHandler) Get(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "invalid board index")
	}
	b, err := h.boards.Load(c.UserContext(), idx)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(b)
}

// Create POST /api/moodboards
func (h *MoodboardHandler) Create(c *fiber.Ctx) error {
	var b moodboard.Board
	if err := c.BodyParser(&b); err != nil {
		return badRequest(c, "invalid request body")
	}
	if b.Name == "" {
		b.Name = moodboard.DefaultName
	}

	idx, err := h.boards.Save(c.UserContext(), b)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"index": idx, "name": b.Name})
}

// Delete DELETE /api/moodboards/:index
func (h *MoodboardHandler) Delete(c *fiber.Ctx) error {
	idx, err := c.ParamsInt("index")
	if err != nil {
		return badRequest(c, "invalid board index")
	}
	if err := h.boards.Delete(c.UserContext(), idx); err != nil {
		return fail(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type searchRequest struct {
	Tab   service.SearchTab `json:"tab"`
	Query string            `json:"query"`
}

// Search POST /api/moodboards/search
func (h *MoodboardHandler) Search(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	res, err := h.search.Search(c.UserContext(), req.Tab, req.Query)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(res)
}
