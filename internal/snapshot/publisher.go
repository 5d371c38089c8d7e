// Package snapshot publishes a denormalized, read-only view of the current
// month for cross-user visibility. Every publish fully replaces the shared
// collection; rows carry embedded names and no references back into the
// live collections.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/store"
)

// Publisher materializes shared snapshots.
type Publisher struct {
	store store.Store
	log   zerolog.Logger
}

// NewPublisher creates a snapshot Publisher.
func NewPublisher(st store.Store, log zerolog.Logger) *Publisher {
	return &Publisher{store: st, log: log}
}

// Publish snapshots the household's current-calendar-month transactions and
// the balances of its active accounts and credit cards as of now. The shared
// collection ends up containing exactly these rows and nothing else, however
// many times Publish runs.
func (p *Publisher) Publish(ctx context.Context, householdID string, now time.Time) error {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

	txns, err := p.store.ListTransactions(ctx, householdID)
	if err != nil {
		return fmt.Errorf("listing transactions: %w", err)
	}
	accounts, err := p.store.ListAccounts(ctx, householdID)
	if err != nil {
		return fmt.Errorf("listing accounts: %w", err)
	}
	cards, err := p.store.ListCreditCards(ctx, householdID)
	if err != nil {
		return fmt.Errorf("listing credit cards: %w", err)
	}
	categories, err := p.store.ListCategories(ctx, householdID)
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	household, err := p.store.GetHousehold(ctx)
	if err != nil {
		return fmt.Errorf("loading household: %w", err)
	}

	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryNames[c.ID] = c.Name
		for _, sc := range c.SubCategories {
			categoryNames[sc.ID] = sc.Name
		}
	}
	accountNames := make(map[string]string, len(accounts)+len(cards))
	for _, a := range accounts {
		accountNames[a.ID] = a.Name
	}
	for _, c := range cards {
		accountNames[c.ID] = c.Name
	}
	memberNames := make(map[string]string, len(household.Members))
	for _, m := range household.Members {
		memberNames[m.UserID] = m.Name
	}

	var sharedTxns []model.SharedTransaction
	for _, t := range txns {
		if t.Date.Before(monthStart) || t.Date.After(monthEnd) {
			continue
		}
		user := memberNames[t.CreatedBy]
		if user == "" {
			user = t.CreatedBy
		}
		sharedTxns = append(sharedTxns, model.SharedTransaction{
			ID:           t.ID,
			Date:         t.Date,
			Amount:       t.Amount,
			Type:         t.Type,
			CategoryName: categoryNames[t.CategoryID],
			Description:  t.Description,
			AccountName:  accountNames[t.AccountID],
			User:         user,
		})
	}

	var sharedBals []model.SharedAccountBalance
	for _, a := range accounts {
		if a.Archived {
			continue
		}
		sharedBals = append(sharedBals, model.SharedAccountBalance{
			ID:       a.ID,
			Name:     a.Name,
			Type:     string(a.Type),
			Balance:  a.Balance,
			Currency: a.Currency,
		})
	}
	for _, c := range cards {
		if c.Archived {
			continue
		}
		sharedBals = append(sharedBals, model.SharedAccountBalance{
			ID:      c.ID,
			Name:    c.Name,
			Type:    "credit-card",
			Balance: c.CurrentOutstanding,
		})
	}

	if err := p.store.ReplaceSnapshot(ctx, sharedTxns, sharedBals); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	p.log.Info().
		Int("transactions", len(sharedTxns)).
		Int("balances", len(sharedBals)).
		Str("month", monthStart.Format("2006-01")).
		Msg("snapshot published")
	return nil
}
