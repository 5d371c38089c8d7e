package store

import (
	"context"
	"errors"

	"github.com/gharkhata/gharkhata/internal/model"
)

// ErrNotFound is returned when a document id does not exist in a collection.
var ErrNotFound = errors.New("document not found")

// ErrConflict is returned when a write presents a stale revision token.
// The caller must re-read the document and retry; the store never retries.
var ErrConflict = errors.New("revision conflict")

// HouseholdKey is the well-known key the singleton household is stored under.
const HouseholdKey = "household"

// Store is the document store: independently queryable collections with
// per-document optimistic concurrency. Create assigns the document id (when
// empty) and a fresh revision token. Update requires the current revision
// token and assigns a new one on success. Delete of an absent document is a
// no-op, not an error.
type Store interface {
	CreateAccount(ctx context.Context, a *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	UpdateAccount(ctx context.Context, a *model.Account) error
	DeleteAccount(ctx context.Context, id string) error
	ListAccounts(ctx context.Context, householdID string) ([]*model.Account, error)

	CreateCategory(ctx context.Context, c *model.Category) error
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	UpdateCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	ListCategories(ctx context.Context, householdID string) ([]*model.Category, error)

	CreateTransaction(ctx context.Context, t *model.Transaction) error
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, t *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, householdID string) ([]*model.Transaction, error)

	CreateCreditCard(ctx context.Context, c *model.CreditCard) error
	GetCreditCard(ctx context.Context, id string) (*model.CreditCard, error)
	UpdateCreditCard(ctx context.Context, c *model.CreditCard) error
	DeleteCreditCard(ctx context.Context, id string) error
	ListCreditCards(ctx context.Context, householdID string) ([]*model.CreditCard, error)

	CreateLoan(ctx context.Context, l *model.Loan) error
	GetLoan(ctx context.Context, id string) (*model.Loan, error)
	UpdateLoan(ctx context.Context, l *model.Loan) error
	DeleteLoan(ctx context.Context, id string) error
	ListLoans(ctx context.Context, householdID string) ([]*model.Loan, error)

	CreateRecurringItem(ctx context.Context, r *model.RecurringItem) error
	GetRecurringItem(ctx context.Context, id string) (*model.RecurringItem, error)
	UpdateRecurringItem(ctx context.Context, r *model.RecurringItem) error
	DeleteRecurringItem(ctx context.Context, id string) error
	ListRecurringItems(ctx context.Context, householdID string) ([]*model.RecurringItem, error)

	CreateBudget(ctx context.Context, b *model.Budget) error
	GetBudget(ctx context.Context, id string) (*model.Budget, error)
	UpdateBudget(ctx context.Context, b *model.Budget) error
	DeleteBudget(ctx context.Context, id string) error
	ListBudgets(ctx context.Context, householdID string) ([]*model.Budget, error)

	// The household is a singleton stored under HouseholdKey.
	GetHousehold(ctx context.Context) (*model.Household, error)
	PutHousehold(ctx context.Context, h *model.Household) error

	// ReplaceSnapshot deletes every existing shared-snapshot document and
	// bulk-inserts the given rows. Full replace, never a merge.
	ReplaceSnapshot(ctx context.Context, txns []model.SharedTransaction, balances []model.SharedAccountBalance) error
	ListSharedTransactions(ctx context.Context) ([]model.SharedTransaction, error)
	ListSharedBalances(ctx context.Context) ([]model.SharedAccountBalance, error)

	Close() error
}
