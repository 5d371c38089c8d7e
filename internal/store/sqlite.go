package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/gharkhata/gharkhata/internal/model"
)

const (
	tableAccounts     = "accounts"
	tableCategories   = "categories"
	tableTransactions = "transactions"
	tableCreditCards  = "credit_cards"
	tableLoans        = "loans"
	tableRecurring    = "recurring_items"
	tableBudgets      = "budgets"
)

var docTables = []string{
	tableAccounts, tableCategories, tableTransactions,
	tableCreditCards, tableLoans, tableRecurring, tableBudgets,
}

// SQLite is the persistent Store: one document table per collection, each
// row holding the JSON body alongside id, household and revision columns.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (and if needed initializes) a sqlite document store.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite store: %w", err)
	}
	s := &SQLite{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) initSchema() error {
	for _, table := range docTables {
		stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			household_id TEXT NOT NULL,
			rev TEXT NOT NULL,
			body TEXT NOT NULL
		)`, table)
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating table %s: %w", table, err)
		}
	}
	singles := []string{
		`CREATE TABLE IF NOT EXISTS household (
			key TEXT PRIMARY KEY,
			body TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS shared_transactions (
			id TEXT PRIMARY KEY,
			body TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS shared_balances (
			id TEXT PRIMARY KEY,
			body TEXT NOT NULL
		)`,
	}
	for _, stmt := range singles {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating snapshot tables: %w", err)
		}
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) createDoc(ctx context.Context, table, id, householdID, rev string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", id, err)
	}
	stmt := fmt.Sprintf(`INSERT INTO %s (id, household_id, rev, body) VALUES (?, ?, ?, ?)`, table)
	if _, err := s.db.ExecContext(ctx, stmt, id, householdID, rev, string(body)); err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

func (s *SQLite) getDoc(ctx context.Context, table, id string, out any) error {
	stmt := fmt.Sprintf(`SELECT body FROM %s WHERE id = ?`, table)
	var body string
	err := s.db.QueryRowContext(ctx, stmt, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("reading from %s: %w", table, err)
	}
	return json.Unmarshal([]byte(body), out)
}

// updateDoc writes only when the stored revision matches oldRev. A zero
// row count is disambiguated into ErrNotFound vs ErrConflict.
func (s *SQLite) updateDoc(ctx context.Context, table, id, householdID, oldRev, newRev string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", id, err)
	}
	stmt := fmt.Sprintf(`UPDATE %s SET household_id = ?, rev = ?, body = ? WHERE id = ? AND rev = ?`, table)
	res, err := s.db.ExecContext(ctx, stmt, householdID, newRev, string(body), id, oldRev)
	if err != nil {
		return fmt.Errorf("updating %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		probe := fmt.Sprintf(`SELECT COUNT(1) FROM %s WHERE id = ?`, table)
		if err := s.db.QueryRowContext(ctx, probe, id).Scan(&exists); err != nil {
			return fmt.Errorf("probing %s: %w", table, err)
		}
		if exists == 0 {
			return ErrNotFound
		}
		return ErrConflict
	}
	return nil
}

func (s *SQLite) deleteDoc(ctx context.Context, table, id string) error {
	stmt := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table)
	if _, err := s.db.ExecContext(ctx, stmt, id); err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}
	return nil
}

func (s *SQLite) listDocs(ctx context.Context, table, householdID string) ([][]byte, error) {
	stmt := fmt.Sprintf(`SELECT body FROM %s WHERE household_id = ?`, table)
	rows, err := s.db.QueryContext(ctx, stmt, householdID)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	defer rows.Close()

	var bodies [][]byte
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		bodies = append(bodies, []byte(body))
	}
	return bodies, rows.Err()
}

// Accounts

func (s *SQLite) CreateAccount(ctx context.Context, a *model.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.Rev = uuid.NewString()
	return s.createDoc(ctx, tableAccounts, a.ID, a.HouseholdID, a.Rev, a)
}

func (s *SQLite) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	var a model.Account
	if err := s.getDoc(ctx, tableAccounts, id, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *SQLite) UpdateAccount(ctx context.Context, a *model.Account) error {
	oldRev := a.Rev
	a.Rev = uuid.NewString()
	if err := s.updateDoc(ctx, tableAccounts, a.ID, a.HouseholdID, oldRev, a.Rev, a); err != nil {
		a.Rev = oldRev
		return err
	}
	return nil
}

func (s *SQLite) DeleteAccount(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableAccounts, id)
}

func (s *SQLite) ListAccounts(ctx context.Context, householdID string) ([]*model.Account, error) {
	bodies, err := s.listDocs(ctx, tableAccounts, householdID)
	if err != nil {
		return nil, err
	}
	out, err := decodeAll[model.Account](bodies)
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

func (s *SQLite) CreateCategory(ctx context.Context, c *model.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Rev = uuid.NewString()
	return s.createDoc(ctx, tableCategories, c.ID, c.HouseholdID, c.Rev, c)
}

func (s *SQLite) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	var c model.Category
	if err := s.getDoc(ctx, tableCategories, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLite) UpdateCategory(ctx context.Context, c *model.Category) error {
	oldRev := c.Rev
	c.Rev = uuid.NewString()
	if err := s.updateDoc(ctx, tableCategories, c.ID, c.HouseholdID, oldRev, c.Rev, c); err != nil {
		c.Rev = oldRev
		return err
	}
	return nil
}

func (s *SQLite) DeleteCategory(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableCategories, id)
}

func (s *SQLite) ListCategories(ctx context.Context, householdID string) ([]*model.Category, error) {
	bodies, err := s.listDocs(ctx, tableCategories, householdID)
	if err != nil {
		return nil, err
	}
	out, err := decodeAll[model.Category](bodies)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Transactions

func (s *SQLite) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Rev = uuid.NewString()
	return s.createDoc(ctx, tableTransactions, t.ID, t.HouseholdID, t.Rev, t)
}

func (s *SQLite) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	var t model.Transaction
	if err := s.getDoc(ctx, tableTransactions, id, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLite) UpdateTransaction(ctx context.Context, t *model.Transaction) error {
	oldRev := t.Rev
	t.Rev = uuid.NewString()
	if err := s.updateDoc(ctx, tableTransactions, t.ID, t.HouseholdID, oldRev, t.Rev, t); err != nil {
		t.Rev = oldRev
		return err
	}
	return nil
}

func (s *SQLite) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableTransactions, id)
}

func (s *SQLite) ListTransactions(ctx context.Context, householdID string) ([]*model.Transaction, error) {
	bodies, err := s.listDocs(ctx, tableTransactions, householdID)
	if err != nil {
		return nil, err
	}
	out, err := decodeAll[model.Transaction](bodies)
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

func (s *SQLite) CreateCreditCard(ctx context.Context, c *model.CreditCard) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Rev = uuid.NewString()
	return s.createDoc(ctx, tableCreditCards, c.ID, c.HouseholdID, c.Rev, c)
}

func (s *SQLite) GetCreditCard(ctx context.Context, id string) (*model.CreditCard, error) {
	var c model.CreditCard
	if err := s.getDoc(ctx, tableCreditCards, id, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLite) UpdateCreditCard(ctx context.Context, c *model.CreditCard) error {
	oldRev := c.Rev
	c.Rev = uuid.NewString()
	if err := s.updateDoc(ctx, tableCreditCards, c.ID, c.HouseholdID, oldRev, c.Rev, c); err != nil {
		c.Rev = oldRev
		return err
	}
	return nil
}

func (s *SQLite) DeleteCreditCard(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableCreditCards, id)
}

func (s *SQLite) ListCreditCards(ctx context.Context, householdID string) ([]*model.CreditCard, error) {
	bodies, err := s.listDocs(ctx, tableCreditCards, householdID)
	if err != nil {
		return nil, err
	}
	out, err := decodeAll[model.CreditCard](bodies)
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

func (s *SQLite) CreateLoan(ctx context.Context, l *model.Loan) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.Rev = uuid.NewString()
	return s.createDoc(ctx, tableLoans, l.ID, l.HouseholdID, l.Rev, l)
}

func (s *SQLite) GetLoan(ctx context.Context, id string) (*model.Loan, error) {
	var l model.Loan
	if err := s.getDoc(ctx, tableLoans, id, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *SQLite) UpdateLoan(ctx context.Context, l *model.Loan) error {
	oldRev := l.Rev
	l.Rev = uuid.NewString()
	if err := s.updateDoc(ctx, tableLoans, l.ID, l.HouseholdID, oldRev, l.Rev, l); err != nil {
		l.Rev = oldRev
		return err
	}
	return nil
}

func (s *SQLite) DeleteLoan(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableLoans, id)
}

func (s *SQLite) ListLoans(ctx context.Context, householdID string) ([]*model.Loan, error) {
	bodies, err := s.listDocs(ctx, tableLoans, householdID)
	if err != nil {
		return nil, err
	}
	out, err := decodeAll[model.Loan](bodies)
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

func (s *SQLite) CreateRecurringItem(ctx context.Context, r *model.RecurringItem) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.Rev = uuid.NewString()
	return s.createDoc(ctx, tableRecurring, r.ID, r.HouseholdID, r.Rev, r)
}

func (s *SQLite) GetRecurringItem(ctx context.Context, id string) (*model.RecurringItem, error) {
	var r model.RecurringItem
	if err := s.getDoc(ctx, tableRecurring, id, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLite) UpdateRecurringItem(ctx context.Context, r *model.RecurringItem) error {
	oldRev := r.Rev
	r.Rev = uuid.NewString()
	if err := s.updateDoc(ctx, tableRecurring, r.ID, r.HouseholdID, oldRev, r.Rev, r); err != nil {
		r.Rev = oldRev
		return err
	}
	return nil
}

func (s *SQLite) DeleteRecurringItem(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableRecurring, id)
}

func (s *SQLite) ListRecurringItems(ctx context.Context, householdID string) ([]*model.RecurringItem, error) {
	bodies, err := s.listDocs(ctx, tableRecurring, householdID)
	if err != nil {
		return nil, err
	}
	out, err := decodeAll[model.RecurringItem](bodies)
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

func (s *SQLite) CreateBudget(ctx context.Context, b *model.Budget) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.Rev = uuid.NewString()
	return s.createDoc(ctx, tableBudgets, b.ID, b.HouseholdID, b.Rev, b)
}

func (s *SQLite) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	var b model.Budget
	if err := s.getDoc(ctx, tableBudgets, id, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *SQLite) UpdateBudget(ctx context.Context, b *model.Budget) error {
	oldRev := b.Rev
	b.Rev = uuid.NewString()
	if err := s.updateDoc(ctx, tableBudgets, b.ID, b.HouseholdID, oldRev, b.Rev, b); err != nil {
		b.Rev = oldRev
		return err
	}
	return nil
}

func (s *SQLite) DeleteBudget(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, tableBudgets, id)
}

func (s *SQLite) ListBudgets(ctx context.Context, householdID string) ([]*model.Budget, error) {
	bodies, err := s.listDocs(ctx, tableBudgets, householdID)
	if err != nil {
		return nil, err
	}
	out, err := decodeAll[model.Budget](bodies)
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

func (s *SQLite) GetHousehold(ctx context.Context) (*model.Household, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM household WHERE key = ?`, HouseholdKey).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading household: %w", err)
	}
	var h model.Household
	if err := json.Unmarshal([]byte(body), &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *SQLite) PutHousehold(ctx context.Context, h *model.Household) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.Rev = uuid.NewString()
	body, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encoding household: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO household (key, body) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body`,
		HouseholdKey, string(body))
	if err != nil {
		return fmt.Errorf("writing household: %w", err)
	}
	return nil
}

// Shared snapshot

func (s *SQLite) ReplaceSnapshot(ctx context.Context, txns []model.SharedTransaction, balances []model.SharedAccountBalance) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting snapshot replace: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shared_transactions`); err != nil {
		return fmt.Errorf("clearing shared transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM shared_balances`); err != nil {
		return fmt.Errorf("clearing shared balances: %w", err)
	}
	for _, t := range txns {
		body, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("encoding shared transaction %s: %w", t.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO shared_transactions (id, body) VALUES (?, ?)`, t.ID, string(body)); err != nil {
			return fmt.Errorf("inserting shared transaction %s: %w", t.ID, err)
		}
	}
	for _, b := range balances {
		body, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("encoding shared balance %s: %w", b.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO shared_balances (id, body) VALUES (?, ?)`, b.ID, string(body)); err != nil {
			return fmt.Errorf("inserting shared balance %s: %w", b.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLite) ListSharedTransactions(ctx context.Context) ([]model.SharedTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM shared_transactions`)
	if err != nil {
		return nil, fmt.Errorf("listing shared transactions: %w", err)
	}
	defer rows.Close()

	var out []model.SharedTransaction
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var t model.SharedTransaction
		if err := json.Unmarshal([]byte(body), &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLite) ListSharedBalances(ctx context.Context) ([]model.SharedAccountBalance, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT body FROM shared_balances`)
	if err != nil {
		return nil, fmt.Errorf("listing shared balances: %w", err)
	}
	defer rows.Close()

	var out []model.SharedAccountBalance
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, err
		}
		var b model.SharedAccountBalance
		if err := json.Unmarshal([]byte(body), &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
