// Package importer turns bank-statement CSV exports into ledger
// transactions.
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gharkhata/gharkhata/internal/ledger"
	"github.com/gharkhata/gharkhata/internal/model"
)

// Row is one parsed statement line. Amount is signed: negative spends,
// positive receives.
type Row struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Category    string // category name, matched case-insensitively
}

// Parser converts a statement file into Rows.
type Parser interface {
	Parse(r io.Reader) ([]Row, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&GenericParser{})
	return r
}

// Result summarizes one import run.
type Result struct {
	Created int
	Skipped int
}

// Import creates one ledger transaction per row against the given funding
// account. Signed CSV amounts become positive magnitudes: negative rows are
// EXPENSE, positive rows INCOME. Zero-amount rows are skipped. Category
// names resolve against the household's categories; unresolved names leave
// the transaction uncategorized.
func Import(ctx context.Context, lg *ledger.Service, accountID string, rows []Row, categories []*model.Category) (Result, error) {
	byName := make(map[string]string, len(categories))
	for _, c := range categories {
		byName[strings.ToLower(c.Name)] = c.ID
		for _, sc := range c.SubCategories {
			byName[strings.ToLower(sc.Name)] = sc.ID
		}
	}

	var res Result
	for i, row := range rows {
		if row.Amount.IsZero() {
			res.Skipped++
			continue
		}
		txType := model.TypeIncome
		amount := row.Amount
		if amount.IsNegative() {
			txType = model.TypeExpense
			amount = amount.Neg()
		}
		_, err := lg.Create(ctx, ledger.CreateParams{
			Date:        row.Date,
			Amount:      amount,
			Type:        txType,
			AccountID:   accountID,
			CategoryID:  byName[strings.ToLower(row.Category)],
			Description: row.Description,
		})
		if err != nil {
			return res, fmt.Errorf("row %d: %w", i+1, err)
		}
		res.Created++
	}
	return res, nil
}
