// Package budget manages category-limit budgets and their embedded plan
// items. TotalSpent is never recomputed here; the analytics aggregator owns
// spend figures at read time.
package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gharkhata/gharkhata/internal/bus"
	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/session"
	"github.com/gharkhata/gharkhata/internal/store"
)

// Service provides budget CRUD and plan-item operations.
type Service struct {
	store store.Store
	sess  *session.Session
	bus   *bus.Bus
	log   zerolog.Logger
}

// NewService creates a budget Service.
func NewService(st store.Store, sess *session.Session, b *bus.Bus, log zerolog.Logger) *Service {
	return &Service{store: st, sess: sess, bus: b, log: log}
}

// CreateParams holds the caller-supplied fields of a new budget.
type CreateParams struct {
	Name           string
	Mode           model.BudgetMode
	StartDate      time.Time // EVENT mode only
	EndDate        time.Time // EVENT mode only
	CategoryLimits []model.CategoryLimit
}

// Create persists a new draft budget. TotalBudget is the sum of the
// category limits when any are configured.
func (s *Service) Create(ctx context.Context, p CreateParams) (*model.Budget, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("budget requires a name")
	}
	if p.Mode == model.BudgetEvent && p.EndDate.Before(p.StartDate) {
		return nil, fmt.Errorf("event budget end date precedes start date")
	}

	now := time.Now()
	b := &model.Budget{
		HouseholdID:    householdID,
		Name:           p.Name,
		Mode:           p.Mode,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		CategoryLimits: p.CategoryLimits,
		TotalBudget:    limitTotal(p.CategoryLimits),
		TotalSpent:     decimal.Zero,
		Status:         model.BudgetDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("saving budget: %w", err)
	}
	s.bus.Publish(bus.TopicBudgets)
	return b, nil
}

// Get returns a budget by id.
func (s *Service) Get(ctx context.Context, id string) (*model.Budget, error) {
	return s.store.GetBudget(ctx, id)
}

// GetAll returns the household's budgets.
func (s *Service) GetAll(ctx context.Context) ([]*model.Budget, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	return s.store.ListBudgets(ctx, householdID)
}

// UpdateParams holds a partial budget update.
type UpdateParams struct {
	Name           *string
	StartDate      *time.Time
	EndDate        *time.Time
	CategoryLimits *[]model.CategoryLimit
	TotalSpent     *decimal.Decimal
	Status         *model.BudgetStatus
}

// Update merges the partial onto the stored budget. Changing the category
// limits recomputes TotalBudget.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*model.Budget, error) {
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading budget %s: %w", id, err)
	}
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.StartDate != nil {
		b.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = *p.EndDate
	}
	if p.CategoryLimits != nil {
		b.CategoryLimits = *p.CategoryLimits
		b.TotalBudget = limitTotal(b.CategoryLimits)
	}
	if p.TotalSpent != nil {
		b.TotalSpent = *p.TotalSpent
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	b.UpdatedAt = time.Now()
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("saving budget %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicBudgets)
	return b, nil
}

// Delete removes a budget. Deleting an absent budget is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteBudget(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting budget %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicBudgets)
	return nil
}

// AddPlanItem appends a checklist item to the budget's embedded plan.
func (s *Service) AddPlanItem(ctx context.Context, id, name string, amount decimal.Decimal) (*model.Budget, error) {
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading budget %s: %w", id, err)
	}
	b.PlanItems = append(b.PlanItems, model.PlanItem{
		ID:     uuid.NewString(),
		Name:   name,
		Amount: amount,
	})
	b.UpdatedAt = time.Now()
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("saving budget %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicBudgets)
	return b, nil
}

// RemovePlanItem drops a plan item by its id; removing an unknown item is a
// no-op.
func (s *Service) RemovePlanItem(ctx context.Context, id, planItemID string) (*model.Budget, error) {
	b, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading budget %s: %w", id, err)
	}
	kept := b.PlanItems[:0]
	for _, item := range b.PlanItems {
		if item.ID != planItemID {
			kept = append(kept, item)
		}
	}
	b.PlanItems = kept
	b.UpdatedAt = time.Now()
	if err := s.store.UpdateBudget(ctx, b); err != nil {
		return nil, fmt.Errorf("saving budget %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicBudgets)
	return b, nil
}

// Activate transitions a budget to ACTIVE.
func (s *Service) Activate(ctx context.Context, id string) (*model.Budget, error) {
	status := model.BudgetActive
	return s.Update(ctx, id, UpdateParams{Status: &status})
}

// GetActiveEventBudgets returns ACTIVE budgets in EVENT mode.
func (s *Service) GetActiveEventBudgets(ctx context.Context) ([]*model.Budget, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Budget
	for _, b := range all {
		if b.Status == model.BudgetActive && b.Mode == model.BudgetEvent {
			out = append(out, b)
		}
	}
	return out, nil
}

func limitTotal(limits []model.CategoryLimit) decimal.Decimal {
	total := decimal.Zero
	for _, l := range limits {
		total = total.Add(l.Amount)
	}
	return total
}
