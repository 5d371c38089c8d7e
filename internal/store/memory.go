package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gharkhata/gharkhata/internal/model"
)

// Memory is an in-memory Store used by tests and degraded/offline startup.
// Documents are held as JSON so reads hand out isolated copies.
type Memory struct {
	mu           sync.RWMutex
	accounts     memColl
	categories   memColl
	transactions memColl
	creditCards  memColl
	loans        memColl
	recurring    memColl
	budgets      memColl
	household    []byte
	sharedTxns   []model.SharedTransaction
	sharedBals   []model.SharedAccountBalance
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		accounts:     newMemColl(),
		categories:   newMemColl(),
		transactions: newMemColl(),
		creditCards:  newMemColl(),
		loans:        newMemColl(),
		recurring:    newMemColl(),
		budgets:      newMemColl(),
	}
}

// memColl is one collection: id -> JSON body. Locking is the Memory's job.
type memColl struct {
	docs map[string][]byte
}

func newMemColl() memColl {
	return memColl{docs: make(map[string][]byte)}
}

// docProbe extracts the fields the collection machinery needs without
// knowing the full document type.
type docProbe struct {
	Rev         string `json:"rev"`
	HouseholdID string `json:"householdId"`
}

func (c memColl) put(id string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", id, err)
	}
	c.docs[id] = b
	return nil
}

func (c memColl) get(id string, out any) error {
	b, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(b, out)
}

func (c memColl) remove(id string) {
	delete(c.docs, id)
}

func (c memColl) checkRev(id, rev string) error {
	b, ok := c.docs[id]
	if !ok {
		return ErrNotFound
	}
	var probe docProbe
	if err := json.Unmarshal(b, &probe); err != nil {
		return err
	}
	if probe.Rev != rev {
		return ErrConflict
	}
	return nil
}

func (c memColl) byHousehold(householdID string) [][]byte {
	var out [][]byte
	for _, b := range c.docs {
		var probe docProbe
		if err := json.Unmarshal(b, &probe); err != nil {
			continue
		}
		if probe.HouseholdID == householdID {
			out = append(out, b)
		}
	}
	return out
}

func decodeAll[T any](bodies [][]byte) ([]*T, error) {
	out := make([]*T, 0, len(bodies))
	for _, b := range bodies {
		var doc T
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
		out = append(out, &doc)
	}
	return out, nil
}

// Accounts

func (m *Memory) CreateAccount(_ context.Context, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Rev = uuid.NewString()
	return m.accounts.put(a.ID, a)
}

func (m *Memory) GetAccount(_ context.Context, id string) (*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var a model.Account
	if err := m.accounts.get(id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (m *Memory) UpdateAccount(_ context.Context, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.accounts.checkRev(a.ID, a.Rev); err != nil {
		return err
	}
	a.Rev = uuid.NewString()
	return m.accounts.put(a.ID, a)
}

func (m *Memory) DeleteAccount(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts.remove(id)
	return nil
}

func (m *Memory) ListAccounts(_ context.Context, householdID string) ([]*model.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, err := decodeAll[model.Account](m.accounts.byHousehold(householdID))
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Categories

func (m *Memory) CreateCategory(_ context.Context, c *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Rev = uuid.NewString()
	return m.categories.put(c.ID, c)
}

func (m *Memory) GetCategory(_ context.Context, id string) (*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var c model.Category
	if err := m.categories.get(id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *Memory) UpdateCategory(_ context.Context, c *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.categories.checkRev(c.ID, c.Rev); err != nil {
		return err
	}
	c.Rev = uuid.NewString()
	return m.categories.put(c.ID, c)
}

func (m *Memory) DeleteCategory(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories.remove(id)
	return nil
}

func (m *Memory) ListCategories(_ context.Context, householdID string) ([]*model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, err := decodeAll[model.Category](m.categories.byHousehold(householdID))
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Transactions

func (m *Memory) CreateTransaction(_ context.Context, t *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Rev = uuid.NewString()
	return m.transactions.put(t.ID, t)
}

func (m *Memory) GetTransaction(_ context.Context, id string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var t model.Transaction
	if err := m.transactions.get(id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (m *Memory) UpdateTransaction(_ context.Context, t *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.transactions.checkRev(t.ID, t.Rev); err != nil {
		return err
	}
	t.Rev = uuid.NewString()
	return m.transactions.put(t.ID, t)
}

func (m *Memory) DeleteTransaction(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions.remove(id)
	return nil
}

func (m *Memory) ListTransactions(_ context.Context, householdID string) ([]*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, err := decodeAll[model.Transaction](m.transactions.byHousehold(householdID))
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Credit cards

func (m *Memory) CreateCreditCard(_ context.Context, c *model.CreditCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Rev = uuid.NewString()
	return m.creditCards.put(c.ID, c)
}

func (m *Memory) GetCreditCard(_ context.Context, id string) (*model.CreditCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var c model.CreditCard
	if err := m.creditCards.get(id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (m *Memory) UpdateCreditCard(_ context.Context, c *model.CreditCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.creditCards.checkRev(c.ID, c.Rev); err != nil {
		return err
	}
	c.Rev = uuid.NewString()
	return m.creditCards.put(c.ID, c)
}

func (m *Memory) DeleteCreditCard(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creditCards.remove(id)
	return nil
}

func (m *Memory) ListCreditCards(_ context.Context, householdID string) ([]*model.CreditCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, err := decodeAll[model.CreditCard](m.creditCards.byHousehold(householdID))
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Loans

func (m *Memory) CreateLoan(_ context.Context, l *model.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.Rev = uuid.NewString()
	return m.loans.put(l.ID, l)
}

func (m *Memory) GetLoan(_ context.Context, id string) (*model.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var l model.Loan
	if err := m.loans.get(id, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (m *Memory) UpdateLoan(_ context.Context, l *model.Loan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.loans.checkRev(l.ID, l.Rev); err != nil {
		return err
	}
	l.Rev = uuid.NewString()
	return m.loans.put(l.ID, l)
}

func (m *Memory) DeleteLoan(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans.remove(id)
	return nil
}

func (m *Memory) ListLoans(_ context.Context, householdID string) ([]*model.Loan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, err := decodeAll[model.Loan](m.loans.byHousehold(householdID))
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Recurring items

func (m *Memory) CreateRecurringItem(_ context.Context, r *model.RecurringItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Rev = uuid.NewString()
	return m.recurring.put(r.ID, r)
}

func (m *Memory) GetRecurringItem(_ context.Context, id string) (*model.RecurringItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var r model.RecurringItem
	if err := m.recurring.get(id, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (m *Memory) UpdateRecurringItem(_ context.Context, r *model.RecurringItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.recurring.checkRev(r.ID, r.Rev); err != nil {
		return err
	}
	r.Rev = uuid.NewString()
	return m.recurring.put(r.ID, r)
}

func (m *Memory) DeleteRecurringItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recurring.remove(id)
	return nil
}

func (m *Memory) ListRecurringItems(_ context.Context, householdID string) ([]*model.RecurringItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, err := decodeAll[model.RecurringItem](m.recurring.byHousehold(householdID))
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NextDueDate.Equal(out[j].NextDueDate) {
			return out[i].NextDueDate.Before(out[j].NextDueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Budgets

func (m *Memory) CreateBudget(_ context.Context, b *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.Rev = uuid.NewString()
	return m.budgets.put(b.ID, b)
}

func (m *Memory) GetBudget(_ context.Context, id string) (*model.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var b model.Budget
	if err := m.budgets.get(id, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (m *Memory) UpdateBudget(_ context.Context, b *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.budgets.checkRev(b.ID, b.Rev); err != nil {
		return err
	}
	b.Rev = uuid.NewString()
	return m.budgets.put(b.ID, b)
}

func (m *Memory) DeleteBudget(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.budgets.remove(id)
	return nil
}

func (m *Memory) ListBudgets(_ context.Context, householdID string) ([]*model.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out, err := decodeAll[model.Budget](m.budgets.byHousehold(householdID))
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Household singleton

func (m *Memory) GetHousehold(_ context.Context) (*model.Household, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.household == nil {
		return nil, ErrNotFound
	}
	var h model.Household
	if err := json.Unmarshal(m.household, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (m *Memory) PutHousehold(_ context.Context, h *model.Household) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.Rev = uuid.NewString()
	b, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding household: %w", err)
	}
	m.household = b
	return nil
}

// Shared snapshot

func (m *Memory) ReplaceSnapshot(_ context.Context, txns []model.SharedTransaction, balances []model.SharedAccountBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sharedTxns = append([]model.SharedTransaction(nil), txns...)
	m.sharedBals = append([]model.SharedAccountBalance(nil), balances...)
	return nil
}

func (m *Memory) ListSharedTransactions(_ context.Context) ([]model.SharedTransaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.SharedTransaction(nil), m.sharedTxns...), nil
}

func (m *Memory) ListSharedBalances(_ context.Context) ([]model.SharedAccountBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.SharedAccountBalance(nil), m.sharedBals...), nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }
