// Package loan implements EMI computation, amortization schedules and the
// loan payment lifecycle.
package loan

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

var (
	one     = decimal.NewFromInt(1)
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
	// powScale bounds digit growth while iterating (1+r)^n.
	powScale int32 = 20
)

// Service provides loan CRUD, EMI math and payment recording.
type Service struct {
	store store.Store
	sess  *session.Session
	bus   *bus.Bus
	log   zerolog.Logger
}

// NewService creates a loan Service.
func NewService(st store.Store, sess *session.Session, b *bus.Bus, log zerolog.Logger) *Service {
	return &Service{store: st, sess: sess, bus: b, log: log}
}

// CalculateEMI returns the fixed monthly installment for a reducing-balance
// loan: P·r·(1+r)^n / ((1+r)^n − 1), with r the monthly rate. A zero rate
// degenerates to P/n. The result is rounded to 2 decimal places.
func CalculateEMI(principal, annualRate decimal.Decimal, tenureMonths int) decimal.Decimal {
	if tenureMonths <= 0 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(tenureMonths))
	r := monthlyRate(annualRate)
	if r.IsZero() {
		return principal.Div(n).Round(2)
	}
	factor := powInt(one.Add(r), tenureMonths)
	emi := principal.Mul(r).Mul(factor).Div(factor.Sub(one))
	return emi.Round(2)
}

// Installment is one row of an amortization schedule.
type Installment struct {
	Period    int
	EMI       decimal.Decimal
	Interest  decimal.Decimal
	Principal decimal.Decimal
	Balance   decimal.Decimal
}

// Schedule returns the full amortization table for the given terms. It is a
// pure projection, independent of any stored loan's payment state.
func Schedule(principal, annualRate decimal.Decimal, tenureMonths int) []Installment {
	if tenureMonths <= 0 {
		return nil
	}
	emi := CalculateEMI(principal, annualRate, tenureMonths)
	r := monthlyRate(annualRate)

	rows := make([]Installment, 0, tenureMonths)
	balance := principal
	for period := 1; period <= tenureMonths; period++ {
		interest := balance.Mul(r)
		principalComp := emi.Sub(interest)
		balance = balance.Sub(principalComp)
		if period == tenureMonths || balance.IsNegative() {
			// Absorb rounding drift into the final row.
			principalComp = principalComp.Add(balance)
			balance = decimal.Zero
		}
		rows = append(rows, Installment{
			Period:    period,
			EMI:       emi,
			Interest:  interest.Round(2),
			Principal: principalComp.Round(2),
			Balance:   balance.Round(2),
		})
		if balance.IsZero() {
			break
		}
	}
	return rows
}

// CreateParams holds the caller-supplied fields of a new loan.
type CreateParams struct {
	Name            string
	Principal       decimal.Decimal
	InterestRate    decimal.Decimal // annual, percent
	TenureMonths    int
	StartDate       time.Time
	InitialPaidEMIs int
	EMIAmount       decimal.Decimal // derived from the terms when zero
	AccountID       string
}

// Create persists a new loan. When InitialPaidEMIs is set, that many EMI
// periods are simulated against the declared principal so the stored
// outstanding reflects the pre-seeded history instead of the full principal.
func (s *Service) Create(ctx context.Context, p CreateParams) (*model.Loan, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("loan requires a name")
	}
	if !p.Principal.IsPositive() {
		return nil, fmt.Errorf("loan principal must be positive, got %s", p.Principal)
	}
	if p.TenureMonths <= 0 {
		return nil, fmt.Errorf("loan tenure must be positive, got %d", p.TenureMonths)
	}
	if p.InitialPaidEMIs < 0 || p.InitialPaidEMIs > p.TenureMonths {
		return nil, fmt.Errorf("initial paid EMIs must be between 0 and the tenure, got %d", p.InitialPaidEMIs)
	}

	emi := p.EMIAmount
	if emi.IsZero() {
		emi = CalculateEMI(p.Principal, p.InterestRate, p.TenureMonths)
	}
	outstanding := simulateOutstanding(p.Principal, p.InterestRate, emi, p.InitialPaidEMIs)

	status := model.LoanActive
	if outstanding.IsZero() {
		status = model.LoanClosed
	}

	now := time.Now()
	loan := &model.Loan{
		HouseholdID:          householdID,
		Name:                 p.Name,
		Principal:            p.Principal,
		InterestRate:         p.InterestRate,
		TenureMonths:         p.TenureMonths,
		StartDate:            p.StartDate,
		InitialPaidEMIs:      p.InitialPaidEMIs,
		EMIAmount:            emi,
		OutstandingPrincipal: outstanding,
		PaidEMIs:             p.InitialPaidEMIs,
		Status:               status,
		AccountID:            p.AccountID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("saving loan: %w", err)
	}
	s.bus.Publish(bus.TopicLoans)
	return loan, nil
}

// Get returns a loan by id.
func (s *Service) Get(ctx context.Context, id string) (*model.Loan, error) {
	return s.store.GetLoan(ctx, id)
}

// GetAll returns the household's loans.
func (s *Service) GetAll(ctx context.Context) ([]*model.Loan, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	return s.store.ListLoans(ctx, householdID)
}

// UpdateParams holds a partial loan update. The amortization terms are
// fixed at creation; only descriptive fields are editable.
type UpdateParams struct {
	Name      *string
	AccountID *string
}

// Update merges the partial onto the stored loan and persists it.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*model.Loan, error) {
	loan, err := s.store.GetLoan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading loan %s: %w", id, err)
	}
	if p.Name != nil {
		loan.Name = *p.Name
	}
	if p.AccountID != nil {
		loan.AccountID = *p.AccountID
	}
	loan.UpdatedAt = time.Now()
	if err := s.store.UpdateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("saving loan %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicLoans)
	return loan, nil
}

// Delete removes a loan. Deleting an absent loan is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteLoan(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("deleting loan %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicLoans)
	return nil
}

// RecordPayment lowers the outstanding principal (clamped at zero) and
// bumps the paid-EMI counter. The loan closes once the outstanding reaches
// zero; the transition is one-way and closed loans reject further payments.
func (s *Service) RecordPayment(ctx context.Context, id string, amount decimal.Decimal) (*model.Loan, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive, got %s", amount)
	}
	loan, err := s.store.GetLoan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading loan %s: %w", id, err)
	}
	if loan.Status != model.LoanActive {
		return nil, fmt.Errorf("loan %s is not active", id)
	}

	loan.OutstandingPrincipal = loan.OutstandingPrincipal.Sub(amount)
	if loan.OutstandingPrincipal.IsNegative() {
		loan.OutstandingPrincipal = decimal.Zero
	}
	loan.PaidEMIs++
	if loan.OutstandingPrincipal.IsZero() {
		loan.Status = model.LoanClosed
	}
	loan.UpdatedAt = time.Now()
	if err := s.store.UpdateLoan(ctx, loan); err != nil {
		return nil, fmt.Errorf("saving loan %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicLoans)
	return loan, nil
}

func monthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	return annualRate.Div(twelve).Div(hundred)
}

// powInt raises base to a non-negative integer power by repeated
// multiplication, rounding intermediates to bound digit growth.
func powInt(base decimal.Decimal, n int) decimal.Decimal {
	result := one
	for i := 0; i < n; i++ {
		result = result.Mul(base).Round(powScale)
	}
	return result
}

// simulateOutstanding walks the amortization forward for the given number
// of periods: interest accrues on the balance, the rest of the EMI retires
// principal.
func simulateOutstanding(principal, annualRate, emi decimal.Decimal, periods int) decimal.Decimal {
	r := monthlyRate(annualRate)
	balance := principal
	for i := 0; i < periods; i++ {
		interest := balance.Mul(r)
		principalComp := emi.Sub(interest)
		balance = balance.Sub(principalComp)
	}
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return balance.Round(2)
}
