package accounts

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

// Service provides CRUD and balance queries over funding accounts. The
// ledger engine is the only writer of Balance after creation; this service
// never touches it on update.
type Service struct {
	store store.Store
	sess  *session.Session
	bus   *bus.Bus
	log   zerolog.Logger
}

// NewService creates an account Service.
func NewService(st store.Store, sess *session.Session, b *bus.Bus, log zerolog.Logger) *Service {
	return &Service{store: st, sess: sess, bus: b, log: log}
}

// CreateParams holds the caller-supplied fields of a new account.
type CreateParams struct {
	Name           string
	Type           model.AccountType
	Currency       string
	OpeningBalance decimal.Decimal
}

// Create persists a new account with its opening balance.
func (s *Service) Create(ctx context.Context, p CreateParams) (*model.Account, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	if p.Name == "" {
		return nil, fmt.Errorf("account requires a name")
	}

	now := time.Now()
	acct := &model.Account{
		HouseholdID: householdID,
		Name:        p.Name,
		Type:        p.Type,
		Balance:     p.OpeningBalance,
		Currency:    p.Currency,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateAccount(ctx, acct); err != nil {
		return nil, fmt.Errorf("saving account: %w", err)
	}
	s.bus.Publish(bus.TopicAccounts)
	return acct, nil
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id string) (*model.Account, error) {
	return s.store.GetAccount(ctx, id)
}

// GetAll returns the household's accounts.
func (s *Service) GetAll(ctx context.Context) ([]*model.Account, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return nil, err
	}
	return s.store.ListAccounts(ctx, householdID)
}

// UpdateParams holds a partial account update; nil fields keep the stored
// value. Balance is deliberately absent.
type UpdateParams struct {
	Name     *string
	Type     *model.AccountType
	Currency *string
}

// Update merges the partial onto the stored account and persists it.
func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (*model.Account, error) {
	acct, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading account %s: %w", id, err)
	}
	if p.Name != nil {
		acct.Name = *p.Name
	}
	if p.Type != nil {
		acct.Type = *p.Type
	}
	if p.Currency != nil {
		acct.Currency = *p.Currency
	}
	acct.UpdatedAt = time.Now()
	if err := s.store.UpdateAccount(ctx, acct); err != nil {
		return nil, fmt.Errorf("saving account %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicAccounts)
	return acct, nil
}

// Delete removes an account. It refuses when transaction history references
// the account; archive instead. Deleting an absent account is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.store.GetAccount(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading account %s: %w", id, err)
	}

	has, err := s.HasTransactions(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("account %s has transaction history; archive it instead", id)
	}
	if err := s.store.DeleteAccount(ctx, id); err != nil {
		return fmt.Errorf("deleting account %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicAccounts)
	return nil
}

// Archive flags the account archived without touching its history.
func (s *Service) Archive(ctx context.Context, id string) (*model.Account, error) {
	acct, err := s.store.GetAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading account %s: %w", id, err)
	}
	acct.Archived = true
	acct.UpdatedAt = time.Now()
	if err := s.store.UpdateAccount(ctx, acct); err != nil {
		return nil, fmt.Errorf("saving account %s: %w", id, err)
	}
	s.bus.Publish(bus.TopicAccounts)
	return acct, nil
}

// HasTransactions reports whether any transaction references the account as
// source or transfer destination.
func (s *Service) HasTransactions(ctx context.Context, id string) (bool, error) {
	householdID, err := s.sess.HouseholdID()
	if err != nil {
		return false, err
	}
	txns, err := s.store.ListTransactions(ctx, householdID)
	if err != nil {
		return false, err
	}
	for _, t := range txns {
		if t.AccountID == id || t.TransferAccountID == id {
			return true, nil
		}
	}
	return false, nil
}

// CalculateTotalBalance sums the balances of all non-archived accounts.
func (s *Service) CalculateTotalBalance(ctx context.Context) (decimal.Decimal, error) {
	accts, err := s.GetAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, a := range accts {
		if a.Archived {
			continue
		}
		total = total.Add(a.Balance)
	}
	return total, nil
}
