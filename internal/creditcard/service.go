// Package creditcard computes billing-cycle statements and records payments
// for revolving credit facilities. The outstanding balance itself is
// maintained by the ledger engine; this package only reads the transaction
// log and appends statements.
package creditcard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/gharkhata/gharkhata/internal/bus"
	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/session"
	"github.com/gharkhata/gharkhata/internal/store"
)

const (
	minCycleDay = 1
	maxCycleDay = 28
)

// minimumDueRate is the fraction of the closing balance due each cycle.
var minimumDueRate = decimal.RequireFromString("0.05")

// dueGraceDays is the gap between cycle close and payment due date.
const dueGraceDays = 20

// Service provides credit-card CRUD, statement generation and payments.
type Service struct {
	store store.Store
	sess  *session.Session
	bus   *bus.Bus
	log   zerolog.Logger
}

// NewService creates a credit-card Service.
func NewService(st store.Store, sess *session.Session, b *bus.Bus, log zerolog.Logger) *Service {
	return &Service{store: st, sess: sess, bus: b, log: log}
}

// CreateParams holds the caller-supplied fields of a new credit card.
type CreateParams struct {
	Name            string
	CreditLimit     decimal.Decimal
	BillingCycleDay int
	PaymentDueDay   int
	AnnualRate      decimal.Decimal
}

// Create persists a new credit card with zero outstanding.
func (s *Service) Create(ctx context.Context, p CreateParams) (*model.CreditCard, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("credit card requires a name")
	}
	if p.BillingCycleDay < minCycleDay || p.BillingCycleDay > maxCycleDay {
		return nil, fmt.Errorf("billing cycle day must be between %d and %d, got %d", minCycleDay, maxCycleDay, p.BillingCycleDay)
	}

	now := time.Now()
	card := &model.CreditCard{
		HouseholdID:        householdID,
		Name:               p.Name,
		CreditLimit:        p.CreditLimit,
		CurrentOutstanding: decimal.Zero,
		BillingCycleDay:    p.BillingCycleDay,
		PaymentDueDay:      p.PaymentDueDay,
		AnnualRate:         p.AnnualRate,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.CreateCreditCard(ctx, card); err != nil {
		return nil, fmt.Errorf("saving credit card: %w", err)
	}
	s.bus.Publish(bus.TopicCreditCards)
	return card, nil
}

// Get returns a credit card by id.
func (s *Service) Get(ctx context.Context, id string) (*model.CreditCard, error) {
	return s.store.GetCreditCard(ctx, id)
}

// GetAll returns the household's credit cards.
func (s *Service) GetAll(ctx context.Context) ([]*model.CreditCard, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	return s.store.ListCreditCards(ctx, householdID)
}

// UpdateParams holds a partial credit-card update; nil fields keep the
// stored value. CurrentOutstanding belongs to the ledger engine.
type UpdateParams struct {
	Name            *string
	CreditLimit     *decimal.Decimal
	BillingCycleDay *int
	PaymentDueDay   *int
	AnnualRate      *decimal.Decimal
}

// Update merges the partial onto the stored card and persists it.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*model.CreditCard, error) {
	card, err := s.store.GetCreditCard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading credit card %s: %w", id, err)
	}
	if p.Name != nil {
		card.Name = *p.Name
	}
	if p.CreditLimit != nil {
		card.CreditLimit = *p.CreditLimit
	}
	if p.BillingCycleDay != nil {
		if *p.BillingCycleDay < minCycleDay || *p.BillingCycleDay > maxCycleDay {
			return nil, fmt.Errorf("billing cycle day must be between %d and %d, got %d", minCycleDay, maxCycleDay, *p.BillingCycleDay)
		}
		card.BillingCycleDay = *p.BillingCycleDay
	}
	if p.PaymentDueDay != nil {
		card.PaymentDueDay = *p.PaymentDueDay
	}
	if p.AnnualRate != nil {
		card.AnnualRate = *p.AnnualRate
	}
	card.UpdatedAt = time.Now()
	if err := s.store.UpdateCreditCard(ctx, card); err != nil {
		return nil, fmt.Errorf("saving credit card %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicCreditCards)
	return card, nil
}

// Delete removes a credit card. Deleting an absent card is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteCreditCard(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting credit card %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicCreditCards)
	return nil
}

// GenerateStatement produces the statement for the most recently closed
// billing cycle as of now. Generation is idempotent per cycle: if a
// statement for the computed cycle end already exists it is returned
// unchanged and nothing is written.
func (s *Service) GenerateStatement(ctx context.Context, id string, now time.Time) (model.Statement, error) {
	card, err := s.store.GetCreditCard(ctx, id)
	if err != nil {
		return model.Statement{}, fmt.Errorf("loading credit card %s: %w", id, err)
	}

	cycleStart, cycleEnd := cycleBounds(card.BillingCycleDay, now)

	if existing, ok := card.StatementFor(cycleEnd); ok {
		return existing, nil
	}

	charges, payments, err := s.cycleActivity(ctx, card, cycleStart, cycleEnd)
	if err != nil {
		return model.Statement{}, err
	}

	previous := decimal.Zero
	if n := len(card.Statements); n > 0 {
		previous = card.Statements[n-1].ClosingBalance
	}
	closing := previous.Add(charges).Sub(payments)
	if closing.IsNegative() {
		closing = decimal.Zero
	}
	minimumDue := closing.Mul(minimumDueRate).Round(0)
	if minimumDue.IsNegative() {
		minimumDue = decimal.Zero
	}

	stmt := model.Statement{
		CycleStart:     cycleStart,
		CycleEnd:       cycleEnd,
		ClosingBalance: closing,
		MinimumDue:     minimumDue,
		DueDate:        cycleEnd.AddDate(0, 0, dueGraceDays),
		Status:         model.StatementGenerated,
		GeneratedAt:    now,
	}
	card.Statements = append(card.Statements, stmt)
	card.UpdatedAt = now
	if err := s.store.UpdateCreditCard(ctx, card); err != nil {
		return model.Statement{}, fmt.Errorf("saving statement for %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicCreditCards)
	return stmt, nil
}

// RecordPayment lowers the card's outstanding, clamped at zero.
func (s *Service) RecordPayment(ctx context.Context, id string, amount decimal.Decimal) (*model.CreditCard, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive, got %s", amount)
	}
	card, err := s.store.GetCreditCard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading credit card %s: %w", id, err)
	}
	card.CurrentOutstanding = card.CurrentOutstanding.Sub(amount)
	if card.CurrentOutstanding.IsNegative() {
		card.CurrentOutstanding = decimal.Zero
	}
	card.UpdatedAt = time.Now()
	if err := s.store.UpdateCreditCard(ctx, card); err != nil {
		return nil, fmt.Errorf("saving credit card %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicCreditCards)
	return card, nil
}

// cycleBounds computes the most recently closed billing cycle relative to
// now. The cycle closes on billingDay-1; if now has not yet reached the
// billing day, the closed cycle is the previous month's.
func cycleBounds(billingDay int, now time.Time) (start, end time.Time) {
	y, m, _ := now.Date()
	loc := now.Location()
	if now.Day() >= billingDay {
		end = time.Date(y, m, billingDay-1, 0, 0, 0, 0, loc)
	} else {
		end = time.Date(y, m-1, billingDay-1, 0, 0, 0, 0, loc)
	}
	ey, em, _ := end.Date()
	start = time.Date(ey, em-1, billingDay, 0, 0, 0, 0, end.Location())
	return start, end
}

// cycleActivity sums the card's EXPENSE charges and INCOME payments within
// the cycle window, inclusive of both bounds.
func (s *Service) cycleActivity(ctx context.Context, card *model.CreditCard, from, to time.Time) (charges, payments decimal.Decimal, err error) {
	txns, err := s.store.ListTransactions(ctx, card.HouseholdID)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("listing transactions: %w", err)
	}
	charges, payments = decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.AccountID != card.ID {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		switch t.Type {
		case model.TypeExpense:
			charges = charges.Add(t.Amount)
		case model.TypeIncome:
			payments = payments.Add(t.Amount)
		}
	}
	return charges, payments, nil
}
