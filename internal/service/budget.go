package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"surana-backend/internal/apperr"
	"surana-backend/internal/kvstore"
	"surana-backend/internal/model"
)

// NewBudgetPlan fresh plan with the default name and total
func NewBudgetPlan() model.BudgetPlan {
	return model.BudgetPlan{
		ID:          uuid.NewString(),
		Name:        model.DefaultBudgetPlanName,
		TotalBudget: model.DefaultTotalBudget,
		Items:       []model.BudgetItem{},
	}
}

// AddBudgetItem validates and appends an item, returning the updated plan
func AddBudgetItem(plan model.BudgetPlan, name, category string, cost float64) (model.BudgetPlan, model.BudgetItem, error) {
	if strings.TrimSpace(name) == "" {
		return plan, model.BudgetItem{}, fmt.Errorf("%w: please enter an item name", apperr.ErrInvalidInput)
	}
	if strings.TrimSpace(category) == "" {
		return plan, model.BudgetItem{}, fmt.Errorf("%w: please select a category", apperr.ErrInvalidInput)
	}
	if !(cost > 0) {
		return plan, model.BudgetItem{}, fmt.Errorf("%w: please enter a valid cost", apperr.ErrInvalidInput)
	}

	item := model.BudgetItem{
		ID:            uuid.NewString(),
		Name:          name,
		Category:      category,
		EstimatedCost: cost,
	}
	items := make([]model.BudgetItem, 0, len(plan.Items)+1)
	items = append(items, plan.Items...)
	plan.Items = append(items, item)
	return plan, item, nil
}

// Summarize totals for a plan. Per-category spend follows the category
// catalogue order and skips empty categories; unknown categories come last.
func Summarize(plan model.BudgetPlan) model.BudgetSummary {
	sum := model.BudgetSummary{TotalBudget: plan.TotalBudget, ByCategory: []model.CategorySpend{}}

	perCategory := make(map[string]float64)
	var extra []string
	for _, item := range plan.Items {
		sum.TotalEstimated += item.EstimatedCost
		if item.ActualCost != nil {
			sum.TotalActual += *item.ActualCost
		}
		if _, ok := perCategory[item.Category]; !ok && !slices.Contains(model.BudgetCategories, item.Category) {
			extra = append(extra, item.Category)
		}
		perCategory[item.Category] += item.EstimatedCost
	}

	sum.Remaining = plan.TotalBudget - sum.TotalEstimated
	if plan.TotalBudget > 0 {
		sum.PercentUsed = sum.TotalEstimated / plan.TotalBudget * 100
	}

	for _, c := range append(slices.Clone(model.BudgetCategories), extra...) {
		if v := perCategory[c]; v > 0 {
			sum.ByCategory = append(sum.ByCategory, model.CategorySpend{Category: c, Amount: v})
		}
	}
	return sum
}

// BudgetService budget plans stored as one list under budgetPlans
type BudgetService struct {
	store  kvstore.Store
	logger *zap.Logger
	mu     sync.Mutex
}

// NewBudgetService creates a BudgetService
func NewBudgetService(store kvstore.Store, logger *zap.Logger) *BudgetService {
	return &BudgetService{store: store, logger: logger.Named("budget")}
}

// List saved plans; corrupt data reads as empty
func (s *BudgetService) List(ctx context.Context) ([]model.BudgetPlan, error) {
	var plans []model.BudgetPlan
	_, err := kvstore.GetJSON(ctx, s.store, model.KeyBudgetPlans.String(), &plans)
	if errors.Is(err, apperr.ErrStorageCorruption) {
		s.logger.Warn("budget plans unreadable, treating as empty", zap.Error(err))
		return []model.BudgetPlan{}, nil
	}
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []model.BudgetPlan{}
	}
	return plans, nil
}

// Get one plan by id
func (s *BudgetService) Get(ctx context.Context, id string) (model.BudgetPlan, error) {
	plans, err := s.List(ctx)
	if err != nil {
		return model.BudgetPlan{}, err
	}
	for _, p := range plans {
		if p.ID == id {
			return p, nil
		}
	}
	return model.BudgetPlan{}, fmt.Errorf("budget plan %q: %w", id, apperr.ErrNotFound)
}

// Save replaces the plan with the same id or appends it. A missing id is assigned.
func (s *BudgetService) Save(ctx context.Context, plan model.BudgetPlan) (model.BudgetPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(ctx, plan)
}

// save is Save without locking; callers hold s.mu
func (s *BudgetService) save(ctx context.Context, plan model.BudgetPlan) (model.BudgetPlan, error) {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	if strings.TrimSpace(plan.Name) == "" {
		plan.Name = model.DefaultBudgetPlanName
	}
	if plan.TotalBudget < 0 {
		return plan, fmt.Errorf("%w: total budget cannot be negative", apperr.ErrInvalidInput)
	}
	if plan.Items == nil {
		plan.Items = []model.BudgetItem{}
	}

	plans, err := s.List(ctx)
	if err != nil {
		return plan, err
	}
	idx := slices.IndexFunc(plans, func(p model.BudgetPlan) bool { return p.ID == plan.ID })
	if idx >= 0 {
		plans[idx] = plan
	} else {
		plans = append(plans, plan)
	}
	if err := kvstore.SetJSON(ctx, s.store, model.KeyBudgetPlans.String(), plans); err != nil {
		return plan, err
	}

	s.logger.Info("budget plan saved", zap.String("id", plan.ID), zap.Bool("updated", idx >= 0))
	return plan, nil
}

// AddItem appends a validated item to a saved plan. The read and the write
// happen under one lock so concurrent adds keep every item.
func (s *BudgetService) AddItem(ctx context.Context, planID, name, category string, cost float64) (model.BudgetPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, err := s.Get(ctx, planID)
	if err != nil {
		return plan, err
	}
	plan, _, err = AddBudgetItem(plan, name, category, cost)
	if err != nil {
		return plan, err
	}
	return s.save(ctx, plan)
}

// Delete removes a plan. The only remaining plan cannot be deleted.
func (s *BudgetService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	plans, err := s.List(ctx)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(plans, func(p model.BudgetPlan) bool { return p.ID == id })
	if idx < 0 {
		return fmt.Errorf("budget plan %q: %w", id, apperr.ErrNotFound)
	}
	if len(plans) <= 1 {
		return fmt.Errorf("%w: cannot delete the only budget plan", apperr.ErrInvalidInput)
	}

	plans = slices.Delete(plans, idx, idx+1)
	if err := kvstore.SetJSON(ctx, s.store, model.KeyBudgetPlans.String(), plans); err != nil {
		return err
	}
	s.logger.Info("budget plan deleted", zap.String("id", id))
	return nil
}
