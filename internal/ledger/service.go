// Package ledger owns the transaction collection and is the sole writer of
// the derived balances on accounts and credit cards. Balances are caches
// over the transaction log: every create applies a signed effect, and every
// update or delete reverts the previously stored effect before applying the
// new one. That revert-then-reapply strategy is the only mechanism keeping
// derived balances correct under edits.
package ledger

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

// splitTolerance is the maximum allowed gap between a transaction amount and
// the sum of its split amounts.
var splitTolerance = decimal.RequireFromString("0.01")

// Service provides transaction CRUD and derived-balance maintenance.
type Service struct {
	store store.Store
	sess  *session.Session
	bus   *bus.Bus
	log   zerolog.Logger
}

// NewService creates a ledger Service.
func NewService(st store.Store, sess *session.Session, b *bus.Bus, log zerolog.Logger) *Service {
	return &Service{store: st, sess: sess, bus: b, log: log}
}

// CreateParams holds the caller-supplied fields of a new transaction.
type CreateParams struct {
	Date              time.Time
	Amount            decimal.Decimal
	Type              model.TransactionType
	AccountID         string
	CategoryID        string
	TransferAccountID string
	Description       string
	Splits            []model.Split
}

// Create persists a transaction and applies its balance effect. The funding
// source id is resolved against accounts first, then credit cards. For a
// TRANSFER an additional credit is applied to the destination account.
// Balance-adjustment failures are logged, not returned; the transaction
// record itself is always persisted once validation passes.
func (s *Service) Create(ctx context.Context, p CreateParams) (*model.Transaction, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	user, err := s.sess.CurrentUser()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	txn := &model.Transaction{
		HouseholdID:       householdID,
		Date:              p.Date,
		Amount:            p.Amount,
		Type:              p.Type,
		AccountID:         p.AccountID,
		CategoryID:        p.CategoryID,
		TransferAccountID: p.TransferAccountID,
		Description:       p.Description,
		Splits:            p.Splits,
		CreatedBy:         user.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := validateTransaction(txn); err != nil {
		return nil, err
	}

	if err := s.store.CreateTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("saving transaction: %w", err)
	}

	cardTouched := s.applyEffect(ctx, txn, 1)
	s.publish(cardTouched)
	return txn, nil
}

// UpdateParams holds a partial update; nil fields keep the stored value.
type UpdateParams struct {
	Date              *time.Time
	Amount            *decimal.Decimal
	Type              *model.TransactionType
	AccountID         *string
	CategoryID        *string
	TransferAccountID *string
	Description       *string
	Splits            *[]model.Split
}

// Update reverts the stored effect of the transaction, merges the partial
// onto it, persists the merged record and applies the new effect. A funding
// source deleted since creation makes the corresponding revert or apply step
// a logged no-op, never a failure.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*model.Transaction, error) {
	old, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading transaction %s: %w", id, err)
	}

	merged := *old
	if p.Date != nil {
		merged.Date = *p.Date
	}
	if p.Amount != nil {
		merged.Amount = *p.Amount
	}
	if p.Type != nil {
		merged.Type = *p.Type
	}
	if p.AccountID != nil {
		merged.AccountID = *p.AccountID
	}
	if p.CategoryID != nil {
		merged.CategoryID = *p.CategoryID
	}
	if p.TransferAccountID != nil {
		merged.TransferAccountID = *p.TransferAccountID
	}
	if p.Description != nil {
		merged.Description = *p.Description
	}
	if p.Splits != nil {
		merged.Splits = *p.Splits
	}
	if err := validateTransaction(&merged); err != nil {
		return nil, err
	}
	merged.UpdatedAt = time.Now()

	cardTouched := s.applyEffect(ctx, old, -1)

	if err := s.store.UpdateTransaction(ctx, &merged); err != nil {
		return nil, fmt.Errorf("saving transaction %s: %w", id, err)
	}

	if s.applyEffect(ctx, &merged, 1) {
		cardTouched = true
	}
	s.publish(cardTouched)
	return &merged, nil
}

// Delete reverts the stored effect (including the transfer credit) and
// removes the record. Deleting an absent transaction is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	txn, err := s.store.GetTransaction(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading transaction %s: %w", id, err)
	}

	cardTouched := s.applyEffect(ctx, txn, -1)

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("deleting transaction %s: %w", id, err)
	}
	s.publish(cardTouched)
	return nil
}

// BulkItem pairs a transaction id with its partial update.
type BulkItem struct {
	ID     string
	Params UpdateParams
}

// BulkUpdate applies updates sequentially; the first failure aborts and is
// returned. There is no rollback of already-applied items — the store offers
// only single-document atomicity.
func (s *Service) BulkUpdate(ctx context.Context, items []BulkItem) ([]*model.Transaction, error) {
	out := make([]*model.Transaction, 0, len(items))
	for _, item := range items {
		txn, err := s.Update(ctx, item.ID, item.Params)
		if err != nil {
			return out, fmt.Errorf("bulk update of %s: %w", item.ID, err)
		}
		out = append(out, txn)
	}
	return out, nil
}

// Get returns a transaction by id.
func (s *Service) Get(ctx context.Context, id string) (*model.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// GetAll returns the household's transactions ordered by date.
func (s *Service) GetAll(ctx context.Context) ([]*model.Transaction, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	return s.store.ListTransactions(ctx, householdID)
}

// GetByDateRange returns transactions with from <= date <= to.
func (s *Service) GetByDateRange(ctx context.Context, from, to time.Time) ([]*model.Transaction, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Transaction
	for _, t := range all {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// GetByAccount returns transactions funded by or transferred into the given
// account or credit card.
func (s *Service) GetByAccount(ctx context.Context, accountID string) ([]*model.Transaction, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Transaction
	for _, t := range all {
		if t.AccountID == accountID || t.TransferAccountID == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetByCategory returns transactions categorized under the given category,
// including split allocations.
func (s *Service) GetByCategory(ctx context.Context, categoryID string) ([]*model.Transaction, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Transaction
	for _, t := range all {
		if t.CategoryID == categoryID {
			out = append(out, t)
			continue
		}
		for _, sp := range t.Splits {
			if sp.CategoryID == categoryID {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

// TotalIncome sums INCOME amounts over the date range.
func (s *Service) TotalIncome(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.totalByType(ctx, model.TypeIncome, from, to)
}

// TotalExpense sums EXPENSE amounts over the date range.
func (s *Service) TotalExpense(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.totalByType(ctx, model.TypeExpense, from, to)
}

// TotalInvestment sums INVESTMENT amounts over the date range.
func (s *Service) TotalInvestment(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.totalByType(ctx, model.TypeInvestment, from, to)
}

func (s *Service) totalByType(ctx context.Context, tt model.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	txns, err := s.GetByDateRange(ctx, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, t := range txns {
		if t.Type == tt {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (s *Service) publish(cardTouched bool) {
	topics := []bus.Topic{bus.TopicTransactions, bus.TopicAccounts}
	if cardTouched {
		topics = append(topics, bus.TopicCreditCards)
	}
	s.bus.Publish(topics...)
}

// validateTransaction enforces the synchronous validation rules. Violations
// surface to the caller unmodified.
func validateTransaction(t *model.Transaction) error {
	if t.AccountID == "" {
		return fmt.Errorf("transaction requires an account")
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", t.Amount)
	}
	if t.Type == model.TypeTransfer {
		if t.TransferAccountID == "" {
			return fmt.Errorf("transfer requires a destination account")
		}
		if t.TransferAccountID == t.AccountID {
			return fmt.Errorf("transfer destination must differ from the source account")
		}
	}
	if t.IsSplit() {
		total := t.SplitTotal()
		if t.Amount.Sub(total).Abs().GreaterThan(splitTolerance) {
			return fmt.Errorf("split amounts (%s) do not match transaction amount (%s)",
				total.StringFixed(2), t.Amount.StringFixed(2))
		}
	}
	return nil
}

// fundingTarget is the resolved funding source: exactly one field is set.
type fundingTarget struct {
	account *model.Account
	card    *model.CreditCard
}

// resolveFunding looks the id up as an account first, then as a credit card.
func (s *Service) resolveFunding(ctx context.Context, id string) (fundingTarget, error) {
	a, err := s.store.GetAccount(ctx, id)
	if err == nil {
		return fundingTarget{account: a}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fundingTarget{}, err
	}
	c, err := s.store.GetCreditCard(ctx, id)
	if err != nil {
		return fundingTarget{}, err
	}
	return fundingTarget{card: c}, nil
}

// applyEffect applies (sign=+1) or reverts (sign=-1) the signed balance
// effect of a transaction. INCOME adds to an account balance and every other
// type subtracts; on a credit card, EXPENSE and DEBT raise the outstanding
// and every other type lowers it, clamped at zero. A TRANSFER additionally
// credits the destination account. Each step tolerates a missing funding
// source: the step is skipped and logged, per the error policy. Reports
// whether a credit card was touched.
func (s *Service) applyEffect(ctx context.Context, t *model.Transaction, sign int) bool {
	cardTouched := false
	amt := t.Amount
	if sign < 0 {
		amt = amt.Neg()
	}

	target, err := s.resolveFunding(ctx, t.AccountID)
	switch {
	case err != nil:
		s.log.Warn().Err(err).
			Str("transaction", t.ID).
			Str("account", t.AccountID).
			Msg("funding source lookup failed; balance adjustment skipped")
	case target.account != nil:
		delta := amt.Neg()
		if t.Type == model.TypeIncome {
			delta = amt
		}
		acct := target.account
		acct.Balance = acct.Balance.Add(delta)
		acct.UpdatedAt = time.Now()
		if err := s.store.UpdateAccount(ctx, acct); err != nil {
			s.log.Warn().Err(err).
				Str("transaction", t.ID).
				Str("account", acct.ID).
				Msg("account balance adjustment failed")
		}
	default:
		cardTouched = true
		delta := amt.Neg()
		if t.Type == model.TypeExpense || t.Type == model.TypeDebt {
			delta = amt
		}
		card := target.card
		card.CurrentOutstanding = card.CurrentOutstanding.Add(delta)
		if card.CurrentOutstanding.IsNegative() {
			card.CurrentOutstanding = decimal.Zero
		}
		card.UpdatedAt = time.Now()
		if err := s.store.UpdateCreditCard(ctx, card); err != nil {
			s.log.Warn().Err(err).
				Str("transaction", t.ID).
				Str("card", card.ID).
				Msg("card outstanding adjustment failed")
		}
	}

	if t.Type == model.TypeTransfer && t.TransferAccountID != "" {
		dest, err := s.store.GetAccount(ctx, t.TransferAccountID)
		if err != nil {
			s.log.Warn().Err(err).
				Str("transaction", t.ID).
				Str("account", t.TransferAccountID).
				Msg("transfer destination lookup failed; credit skipped")
		} else {
			dest.Balance = dest.Balance.Add(amt)
			dest.UpdatedAt = time.Now()
			if err := s.store.UpdateAccount(ctx, dest); err != nil {
				s.log.Warn().Err(err).
					Str("transaction", t.ID).
					Str("account", dest.ID).
					Msg("transfer credit adjustment failed")
			}
		}
	}
	return cardTouched
}
