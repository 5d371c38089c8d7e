package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharkhata/gharkhata/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func txn(day time.Time, txType model.TransactionType, amount, categoryID string) *model.Transaction {
	return &model.Transaction{
		Date:       day,
		Amount:     dec(amount),
		Type:       txType,
		CategoryID: categoryID,
	}
}

func testCategories() []*model.Category {
	return []*model.Category{
		{ID: "cat-salary", Name: "Salary", Type: model.TypeIncome},
		{ID: "cat-groc", Name: "Groceries", Type: model.TypeExpense, SubCategories: []model.SubCategory{
			{ID: "groceries-staples", Name: "Staples"},
			{ID: "groceries-vegetables", Name: "Vegetables & Fruit"},
		}},
		{ID: "cat-dine", Name: "Dining Out", Type: model.TypeExpense},
		{ID: "cat-mf", Name: "Mutual Funds", Type: model.TypeInvestment},
		{ID: "cat-emi", Name: "Loan EMI", Type: model.TypeDebt},
	}
}

func TestMonthlyStats(t *testing.T) {
	txns := []*model.Transaction{
		txn(date(2025, 1, 5), model.TypeIncome, "50000", "cat-salary"),
		txn(date(2025, 1, 10), model.TypeExpense, "12000", "cat-groc"),
		txn(date(2025, 1, 20), model.TypeInvestment, "5000", "cat-mf"),
		txn(date(2025, 2, 5), model.TypeIncome, "50000", "cat-salary"),
		txn(date(2025, 2, 12), model.TypeExpense, "8000", "cat-dine"),
		txn(date(2025, 2, 15), model.TypeDebt, "3000", "cat-emi"),
		txn(date(2025, 3, 1), model.TypeExpense, "999", "cat-dine"), // outside window
	}

	stats := MonthlyStats(txns, date(2025, 1, 1), date(2025, 2, 28))
	require.Len(t, stats, 2)

	jan := stats[0]
	assert.Equal(t, "2025-01", jan.Month)
	assert.True(t, jan.Income.Equal(dec("50000")))
	assert.True(t, jan.Expense.Equal(dec("12000")))
	assert.True(t, jan.Investment.Equal(dec("5000")))
	assert.True(t, jan.Net.Equal(dec("38000")))

	feb := stats[1]
	assert.Equal(t, "2025-02", feb.Month)
	assert.True(t, feb.Debt.Equal(dec("3000")))
	assert.True(t, feb.Net.Equal(dec("42000")))
}

func TestCategoryBreakdown(t *testing.T) {
	split := &model.Transaction{
		Date:   date(2025, 1, 8),
		Amount: dec("100"),
		Type:   model.TypeExpense,
		Splits: []model.Split{
			{CategoryID: "groceries-staples", Amount: dec("60")},
			{CategoryID: "cat-dine", Amount: dec("40")},
		},
	}
	txns := []*model.Transaction{
		split,
		txn(date(2025, 1, 10), model.TypeExpense, "50", "cat-groc"),
		// Investment-typed category: excluded from the expense breakdown.
		txn(date(2025, 1, 12), model.TypeExpense, "500", "cat-mf"),
		txn(date(2025, 1, 15), model.TypeIncome, "9999", "cat-salary"),
	}

	shares := CategoryBreakdown(txns, testCategories(), model.TypeExpense)
	require.Len(t, shares, 2)

	// Split legs roll up to the parent category; largest share first.
	assert.Equal(t, "Groceries", shares[0].Name)
	assert.True(t, shares[0].Amount.Equal(dec("110")), "amount %s", shares[0].Amount)
	assert.True(t, shares[0].Percent.Equal(dec("73.33")), "percent %s", shares[0].Percent)

	assert.Equal(t, "Dining Out", shares[1].Name)
	assert.True(t, shares[1].Amount.Equal(dec("40")))
	assert.True(t, shares[1].Percent.Equal(dec("26.67")))
}

func TestCategoryBreakdown_Uncategorized(t *testing.T) {
	txns := []*model.Transaction{
		txn(date(2025, 1, 10), model.TypeExpense, "75", ""),
	}
	shares := CategoryBreakdown(txns, testCategories(), model.TypeExpense)
	require.Len(t, shares, 1)
	assert.Equal(t, "Uncategorized", shares[0].Name)
	assert.True(t, shares[0].Percent.Equal(dec("100")))
}

func TestSubCategoryBreakdown(t *testing.T) {
	var parent model.Category
	for _, c := range testCategories() {
		if c.Name == "Groceries" {
			parent = *c
		}
	}

	txns := []*model.Transaction{
		txn(date(2025, 1, 5), model.TypeExpense, "300", "groceries-staples"),
		txn(date(2025, 1, 6), model.TypeExpense, "100", "groceries-vegetables"),
		txn(date(2025, 1, 7), model.TypeExpense, "999", "cat-dine"), // other parent
	}

	shares := SubCategoryBreakdown(txns, parent, model.TypeExpense)
	require.Len(t, shares, 2)
	assert.Equal(t, "Staples", shares[0].Name)
	assert.True(t, shares[0].Percent.Equal(dec("75")))
	assert.Equal(t, "Vegetables & Fruit", shares[1].Name)
	assert.True(t, shares[1].Percent.Equal(dec("25")))
}

func TestTrends_Daily(t *testing.T) {
	txns := []*model.Transaction{
		txn(date(2025, 3, 3), model.TypeExpense, "10", ""),
		txn(date(2025, 3, 3), model.TypeExpense, "15", ""),
		txn(date(2025, 3, 4), model.TypeIncome, "100", ""),
	}
	points := Trends(txns, date(2025, 3, 1), date(2025, 3, 31), Daily)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-03-03", points[0].Bucket)
	assert.True(t, points[0].Expense.Equal(dec("25")))
	assert.Equal(t, "2025-03-04", points[1].Bucket)
	assert.True(t, points[1].Income.Equal(dec("100")))
}

func TestTrends_WeeklyAlignsToSunday(t *testing.T) {
	// 2025-03-05 is a Wednesday; its week starts Sunday 2025-03-02.
	txns := []*model.Transaction{
		txn(date(2025, 3, 5), model.TypeExpense, "10", ""),
		txn(date(2025, 3, 7), model.TypeExpense, "20", ""),
		txn(date(2025, 3, 9), model.TypeExpense, "5", ""), // next week's Sunday
	}
	points := Trends(txns, date(2025, 3, 1), date(2025, 3, 31), Weekly)
	require.Len(t, points, 2)
	assert.Equal(t, "2025-03-02", points[0].Bucket)
	assert.True(t, points[0].Expense.Equal(dec("30")))
	assert.Equal(t, "2025-03-09", points[1].Bucket)
}

func TestSavingsRate(t *testing.T) {
	assert.True(t, SavingsRate(dec("1000"), dec("750")).Equal(dec("25")))
	assert.True(t, SavingsRate(dec("0"), dec("500")).IsZero())
	assert.True(t, SavingsRate(dec("1000"), dec("1200")).Equal(dec("-20")))
}

func TestCashFlowSummary(t *testing.T) {
	txns := []*model.Transaction{
		txn(date(2025, 1, 2), model.TypeIncome, "1000", ""),
		txn(date(2025, 1, 5), model.TypeExpense, "500", ""),
		txn(date(2025, 2, 1), model.TypeExpense, "999", ""), // outside
	}
	cf := CashFlowSummary(txns, date(2025, 1, 1), date(2025, 1, 10))
	assert.Equal(t, 10, cf.Days, "day count is inclusive of both ends")
	assert.True(t, cf.Income.Equal(dec("1000")))
	assert.True(t, cf.Expense.Equal(dec("500")))
	assert.True(t, cf.Net.Equal(dec("500")))
	assert.True(t, cf.AvgIncomePerDay.Equal(dec("100")))
	assert.True(t, cf.AvgExpensePerDay.Equal(dec("50")))
}

func TestNetWorth(t *testing.T) {
	accounts := []*model.Account{
		{Name: "HDFC", Balance: dec("1000")},
		{Name: "Old", Balance: dec("500"), Archived: true},
	}
	txns := []*model.Transaction{
		txn(date(2024, 6, 1), model.TypeInvestment, "200", ""),
		txn(date(2025, 1, 1), model.TypeExpense, "50", ""),
	}
	assert.True(t, NetWorth(accounts, txns).Equal(dec("1200")))
}

func TestCreditCardInterest(t *testing.T) {
	// 36.5% APR gives a convenient 0.1% per day.
	got := CreditCardInterest(dec("10000"), dec("36.5"), 10)
	assert.True(t, got.Equal(dec("100")), "interest %s", got)
}

func TestCompoundInterest(t *testing.T) {
	got := CompoundInterest(dec("1000"), dec("10"), 1, 2)
	assert.True(t, got.Equal(dec("1210")), "amount %s", got)

	// Monthly compounding at 12% for one year.
	got = CompoundInterest(dec("100000"), dec("12"), 12, 1)
	assert.True(t, got.Equal(dec("112682.50")), "amount %s", got)

	assert.True(t, CompoundInterest(dec("1000"), dec("10"), 0, 5).Equal(dec("1000")))
}

func TestBudgetUtilization(t *testing.T) {
	assert.True(t, BudgetUtilization(dec("50"), dec("200")).Equal(dec("25")))
	assert.True(t, BudgetUtilization(dec("50"), dec("0")).IsZero())
	assert.True(t, BudgetUtilization(dec("250"), dec("200")).Equal(dec("125")))
}
