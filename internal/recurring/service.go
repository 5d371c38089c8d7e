// Package recurring advances payment schedules and materializes due items
// into real ledger transactions.
package recurring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gharkhata/gharkhata/internal/bus"
	"github.com/gharkhata/gharkhata/internal/ledger"
	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/session"
	"github.com/gharkhata/gharkhata/internal/store"
)

// Service provides recurring-item CRUD, schedule advancement and the
// upcoming-payments query.
type Service struct {
	store  store.Store
	sess   *session.Session
	bus    *bus.Bus
	ledger *ledger.Service
	log    zerolog.Logger
}

// NewService creates a recurring-payment Service.
func NewService(st store.Store, sess *session.Session, b *bus.Bus, lg *ledger.Service, log zerolog.Logger) *Service {
	return &Service{store: st, sess: sess, bus: b, ledger: lg, log: log}
}

// CreateParams holds the caller-supplied fields of a new recurring item.
type CreateParams struct {
	Name        string
	Amount      decimal.Decimal
	Type        model.TransactionType
	CategoryID  string
	Frequency   model.Frequency
	NextDueDate time.Time
}

// Create persists a new active recurring item.
func (s *Service) Create(ctx context.Context, p CreateParams) (*model.RecurringItem, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("recurring item requires a name")
	}
	if !p.Amount.IsPositive() {
		return nil, fmt.Errorf("recurring amount must be positive, got %s", p.Amount)
	}
	switch p.Frequency {
	case model.FrequencyWeekly, model.FrequencyMonthly, model.FrequencyQuarterly, model.FrequencyYearly:
	default:
		return nil, fmt.Errorf("unknown frequency %q", p.Frequency)
	}

	now := time.Now()
	item := &model.RecurringItem{
		HouseholdID: householdID,
		Name:        p.Name,
		Amount:      p.Amount,
		Type:        p.Type,
		CategoryID:  p.CategoryID,
		Frequency:   p.Frequency,
		NextDueDate: p.NextDueDate,
		Status:      model.RecurringActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateRecurringItem(ctx, item); err != nil {
		return nil, fmt.Errorf("saving recurring item: %w", err)
	}
	s.bus.Publish(bus.TopicRecurring)
	return item, nil
}

// Get returns a recurring item by id.
func (s *Service) Get(ctx context.Context, id string) (*model.RecurringItem, error) {
	return s.store.GetRecurringItem(ctx, id)
}

// GetAll returns the household's recurring items ordered by next due date.
func (s *Service) GetAll(ctx context.Context) ([]*model.RecurringItem, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	return s.store.ListRecurringItems(ctx, householdID)
}

// UpdateParams holds a partial recurring-item update.
type UpdateParams struct {
	Name       *string
	Amount     *decimal.Decimal
	CategoryID *string
	Frequency  *model.Frequency
	Status     *model.RecurringStatus
}

// Update merges the partial onto the stored item and persists it.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*model.RecurringItem, error) {
	item, err := s.store.GetRecurringItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading recurring item %s: %w", id, err)
	}
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Amount != nil {
		item.Amount = *p.Amount
	}
	if p.CategoryID != nil {
		item.CategoryID = *p.CategoryID
	}
	if p.Frequency != nil {
		item.Frequency = *p.Frequency
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
	item.UpdatedAt = time.Now()
	if err := s.store.UpdateRecurringItem(ctx, item); err != nil {
		return nil, fmt.Errorf("saving recurring item %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicRecurring)
	return item, nil
}

// Delete removes a recurring item. Deleting an absent item is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteRecurringItem(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting recurring item %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicRecurring)
	return nil
}

// ProcessPayment materializes one due payment: a real transaction is created
// through the ledger engine, and the schedule advances by exactly one period
// computed from the previous due date — never from the wall clock — so a
// late payment does not drift the schedule.
func (s *Service) ProcessPayment(ctx context.Context, id, accountID string, date time.Time) (*model.Transaction, error) {
	item, err := s.store.GetRecurringItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading recurring item %s: %w", id, err)
	}

	txn, err := s.ledger.Create(ctx, ledger.CreateParams{
		Date:        date,
		Amount:      item.Amount,
		Type:        item.Type,
		AccountID:   accountID,
		CategoryID:  item.CategoryID,
		Description: fmt.Sprintf("Recurring payment: %s", item.Name),
	})
	if err != nil {
		return nil, fmt.Errorf("materializing recurring payment %s: %w", id, err)
	}

	item.NextDueDate = advance(item.NextDueDate, item.Frequency)
	item.LastPaidDate = date
	item.UpdatedAt = time.Now()
	if err := s.store.UpdateRecurringItem(ctx, item); err != nil {
		return nil, fmt.Errorf("saving recurring item %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicRecurring)
	return txn, nil
}

// GetUpcoming returns ACTIVE items due within [now, now+daysAhead], soonest
// first.
func (s *Service) GetUpcoming(ctx context.Context, daysAhead int, now time.Time) ([]*model.RecurringItem, error) {
	items, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	horizon := now.AddDate(0, 0, daysAhead)
	var out []*model.RecurringItem
	for _, item := range items {
		if item.Status != model.RecurringActive {
			continue
		}
		if item.NextDueDate.Before(now) || item.NextDueDate.After(horizon) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// advance moves a due date forward by exactly one period.
func advance(from time.Time, f model.Frequency) time.Time {
	switch f {
	case model.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case model.FrequencyMonthly:
		return from.AddDate(0, 1, 0)
	case model.FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case model.FrequencyYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}
