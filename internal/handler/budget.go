package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"surana-backend/internal/model"
	"surana-backend/internal/service"
)

// BudgetHandler budget planner endpoints
type BudgetHandler struct {
	budgets *service.BudgetService
	logger  *zap.Logger
}

// NewBudgetHandler creates a BudgetHandler
func NewBudgetHandler(budgets *service.BudgetService, logger *zap.Logger) *BudgetHandler {
	return &BudgetHandler{budgets: budgets, logger: logger}
}

// List GET /api/budgets
func (h *BudgetHandler) List(c *fiber.Ctx) error {
	plans, err := h.budgets.List(c.UserContext())
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"plans": plans, "categories": model.BudgetCategories})
}

// Save POST /api/budgets; upserts by id
func (h *BudgetHandler) Save(c *fiber.Ctx) error {
	plan := model.BudgetPlan{TotalBudget: model.DefaultTotalBudget}
	if err := c.BodyParser(&plan); err != nil {
		return badRequest(c, "invalid request body")
	}
	saved, err := h.budgets.Save(c.UserContext(), plan)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(saved)
}

type addItemRequest struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// AddItem POST /api/budgets/:id/items
func (h *BudgetHandler) AddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	plan, err := h.budgets.AddItem(c.UserContext(), c.Params("id"), req.Name, req.Category, req.EstimatedCost)
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(plan)
}

// Delete DELETE /api/budgets/:id
func (h *BudgetHandler) Delete(c *fiber.Ctx) error {
	if err := h.budgets.Delete(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary GET /api/budgets/:id/summary
func (h *BudgetHandler) Summary(c *fiber.Ctx) error {
	plan, err := h.budgets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, h.logger, err)
	}
	return c.JSON(service.Summarize(plan))
}
