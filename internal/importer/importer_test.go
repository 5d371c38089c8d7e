package importer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharkhata/gharkhata/internal/bus"
	"github.com/gharkhata/gharkhata/internal/ledger"
	"github.com/gharkhata/gharkhata/internal/logging"
	"github.com/gharkhata/gharkhata/internal/model"
	"github.com/gharkhata/gharkhata/internal/session"
	"github.com/gharkhata/gharkhata/internal/store"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestGenericParser(t *testing.T) {
	input := strings.Join([]string{
		"date,description,amount,category",
		"2025-03-01,Big Bazaar,-450.50,Groceries",
		"2025-03-05,Salary credit,50000,Salary",
		"2025-03-07,ATM withdrawal,-2000",
	}, "\n")

	rows, err := (&GenericParser{}).Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, "Big Bazaar", rows[0].Description)
	assert.True(t, rows[0].Amount.Equal(dec("-450.50")))
	assert.Equal(t, "Groceries", rows[0].Category)

	// The category column is optional.
	assert.Empty(t, rows[2].Category)
}

func TestGenericParser_HeaderOnly(t *testing.T) {
	rows, err := (&GenericParser{}).Parse(strings.NewReader("date,description,amount\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGenericParser_BadRow(t *testing.T) {
	input := "date,description,amount\n2025-03-01,Shop,notanumber\n"
	_, err := (&GenericParser{}).Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("generic"))
	assert.NotNil(t, r.Get("GENERIC"), "lookup is case-insensitive")
	assert.Nil(t, r.Get("unknown"))

	assert.Panics(t, func() { r.Register(&GenericParser{}) })
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	sess := session.New()
	sess.Login("hh", model.User{ID: "u1", Name: "Asha"})
	lg := ledger.NewService(st, sess, bus.New(), logging.Nop())

	acct := &model.Account{HouseholdID: "hh", Name: "HDFC", Balance: dec("10000")}
	require.NoError(t, st.CreateAccount(ctx, acct))

	cats := []*model.Category{
		{ID: "cat-groc", HouseholdID: "hh", Name: "Groceries", Type: model.TypeExpense, SubCategories: []model.SubCategory{
			{ID: "groceries-staples", Name: "Staples"},
		}},
	}

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []Row{
		{Date: day, Description: "Big Bazaar", Amount: dec("-450"), Category: "groceries"},
		{Date: day, Description: "Refund", Amount: dec("100"), Category: "Staples"},
		{Date: day, Description: "Zero line", Amount: dec("0")},
		{Date: day, Description: "Unknown cat", Amount: dec("-50"), Category: "Mystery"},
	}

	res, err := Import(ctx, lg, acct.ID, rows, cats)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 1, res.Skipped)

	txns, err := st.ListTransactions(ctx, "hh")
	require.NoError(t, err)
	require.Len(t, txns, 3)

	byDesc := make(map[string]*model.Transaction)
	for _, tx := range txns {
		byDesc[tx.Description] = tx
	}

	// Negative rows become expenses with positive magnitudes.
	spend := byDesc["Big Bazaar"]
	require.NotNil(t, spend)
	assert.Equal(t, model.TypeExpense, spend.Type)
	assert.True(t, spend.Amount.Equal(dec("450")))
	assert.Equal(t, "cat-groc", spend.CategoryID, "name match is case-insensitive")

	// Positive rows become income; sub-category names resolve too.
	refund := byDesc["Refund"]
	require.NotNil(t, refund)
	assert.Equal(t, model.TypeIncome, refund.Type)
	assert.Equal(t, "groceries-staples", refund.CategoryID)

	// Unknown names leave the transaction uncategorized.
	assert.Empty(t, byDesc["Unknown cat"].CategoryID)

	// 10000 - 450 + 100 - 50.
	got, err := st.GetAccount(ctx, acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("9600")), "balance %s", got.Balance)
}

func TestImport_RowErrorReportsPosition(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	sess := session.New()
	sess.Login("hh", model.User{ID: "u1", Name: "Asha"})
	lg := ledger.NewService(st, sess, bus.New(), logging.Nop())

	rows := []Row{
		{Date: time.Now(), Description: "no account", Amount: dec("-10")},
	}
	_, err := Import(ctx, lg, "", rows, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}
