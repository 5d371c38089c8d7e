// Package analytics reduces the transaction log into time-bucketed and
// category-bucketed statistics. Everything here is a pure function over
// already-loaded documents; nothing mutates state.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gharkhata/gharkhata/internal/model"
)

var hundred = decimal.NewFromInt(100)

const monthKey = "2006-01"
const dayKey = "2006-01-02"

// MonthlyStat aggregates one calendar month of activity.
type MonthlyStat struct {
	Month      string // "YYYY-MM"
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Investment decimal.Decimal
	Debt       decimal.Decimal
	Net        decimal.Decimal // income - expense
}

// MonthlyStats buckets transactions into calendar months over [from, to].
func MonthlyStats(txns []*model.Transaction, from, to time.Time) []MonthlyStat {
	buckets := make(map[string]*MonthlyStat)
	for _, t := range txns {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		key := t.Date.Format(monthKey)
		stat, ok := buckets[key]
		if !ok {
			stat = &MonthlyStat{
				Month:      key,
				Income:     decimal.Zero,
				Expense:    decimal.Zero,
				Investment: decimal.Zero,
				Debt:       decimal.Zero,
			}
			buckets[key] = stat
		}
		switch t.Type {
		case model.TypeIncome:
			stat.Income = stat.Income.Add(t.Amount)
		case model.TypeExpense:
			stat.Expense = stat.Expense.Add(t.Amount)
		case model.TypeInvestment:
			stat.Investment = stat.Investment.Add(t.Amount)
		case model.TypeDebt:
			stat.Debt = stat.Debt.Add(t.Amount)
		}
	}

	out := make([]MonthlyStat, 0, len(buckets))
	for _, stat := range buckets {
		stat.Net = stat.Income.Sub(stat.Expense)
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// CategoryShare is one category's slice of a breakdown.
type CategoryShare struct {
	CategoryID string
	Name       string
	Amount     decimal.Decimal
	Percent    decimal.Decimal
}

// CategoryBreakdown sums transactions of the given type per category and
// returns shares sorted by amount, largest first. Split transactions
// contribute each split to its own category. When breaking down EXPENSE,
// categories classified as INVESTMENT or DEBT are excluded — those are
// tracked as their own buckets, not as spending. Sub-category references
// roll up to their parent category.
func CategoryBreakdown(txns []*model.Transaction, cats []*model.Category, txType model.TransactionType) []CategoryShare {
	index := newCategoryIndex(cats)
	totals := make(map[string]decimal.Decimal)

	add := func(categoryID string, amount decimal.Decimal) {
		parent := index.parentOf(categoryID)
		if txType == model.TypeExpense {
			if c, ok := index.byID[parent]; ok && (c.Type == model.TypeInvestment || c.Type == model.TypeDebt) {
				return
			}
		}
		totals[parent] = totals[parent].Add(amount)
	}

	for _, t := range txns {
		if t.Type != txType {
			continue
		}
		if t.IsSplit() {
			for _, sp := range t.Splits {
				add(sp.CategoryID, sp.Amount)
			}
		} else {
			add(t.CategoryID, t.Amount)
		}
	}
	return shares(totals, index.nameOf)
}

// SubCategoryBreakdown is CategoryBreakdown one level deeper, scoped to the
// sub-categories of a single parent.
func SubCategoryBreakdown(txns []*model.Transaction, parent model.Category, txType model.TransactionType) []CategoryShare {
	names := make(map[string]string, len(parent.SubCategories))
	for _, sc := range parent.SubCategories {
		names[sc.ID] = sc.Name
	}

	totals := make(map[string]decimal.Decimal)
	add := func(categoryID string, amount decimal.Decimal) {
		if _, ok := names[categoryID]; !ok {
			return
		}
		totals[categoryID] = totals[categoryID].Add(amount)
	}

	for _, t := range txns {
		if t.Type != txType {
			continue
		}
		if t.IsSplit() {
			for _, sp := range t.Splits {
				add(sp.CategoryID, sp.Amount)
			}
		} else {
			add(t.CategoryID, t.Amount)
		}
	}
	return shares(totals, func(id string) string { return names[id] })
}

// Granularity selects the trend bucket width.
type Granularity string

const (
	Daily  Granularity = "daily"
	Weekly Granularity = "weekly"
)

// TrendPoint is one time bucket of income and expense.
type TrendPoint struct {
	Bucket  string // bucket start, "YYYY-MM-DD"
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Trends buckets income and expense daily or weekly over [from, to]. Weekly
// buckets are keyed by the Sunday-aligned start of the week.
func Trends(txns []*model.Transaction, from, to time.Time, g Granularity) []TrendPoint {
	buckets := make(map[string]*TrendPoint)
	for _, t := range txns {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		day := t.Date
		if g == Weekly {
			day = day.AddDate(0, 0, -int(day.Weekday()))
		}
		key := day.Format(dayKey)
		point, ok := buckets[key]
		if !ok {
			point = &TrendPoint{Bucket: key, Income: decimal.Zero, Expense: decimal.Zero}
			buckets[key] = point
		}
		switch t.Type {
		case model.TypeIncome:
			point.Income = point.Income.Add(t.Amount)
		case model.TypeExpense:
			point.Expense = point.Expense.Add(t.Amount)
		}
	}

	out := make([]TrendPoint, 0, len(buckets))
	for _, point := range buckets {
		out = append(out, *point)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket < out[j].Bucket })
	return out
}

// SavingsRate is (income − expense) / income × 100, or 0 when income is 0.
func SavingsRate(income, expense decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return income.Sub(expense).Div(income).Mul(hundred).Round(2)
}

// CashFlow summarizes a window: totals plus per-day averages. The day count
// is inclusive of both window ends.
type CashFlow struct {
	Income           decimal.Decimal
	Expense          decimal.Decimal
	Net              decimal.Decimal
	Days             int
	AvgIncomePerDay  decimal.Decimal
	AvgExpensePerDay decimal.Decimal
}

// CashFlowSummary totals income and expense over [from, to].
func CashFlowSummary(txns []*model.Transaction, from, to time.Time) CashFlow {
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range txns {
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		switch t.Type {
		case model.TypeIncome:
			income = income.Add(t.Amount)
		case model.TypeExpense:
			expense = expense.Add(t.Amount)
		}
	}
	days := int(to.Sub(from).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	d := decimal.NewFromInt(int64(days))
	return CashFlow{
		Income:           income,
		Expense:          expense,
		Net:              income.Sub(expense),
		Days:             days,
		AvgIncomePerDay:  income.Div(d).Round(2),
		AvgExpensePerDay: expense.Div(d).Round(2),
	}
}

// NetWorth is the sum of non-archived account balances plus the cumulative
// INVESTMENT transaction total since the beginning of the log.
func NetWorth(accounts []*model.Account, txns []*model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		if a.Archived {
			continue
		}
		total = total.Add(a.Balance)
	}
	for _, t := range txns {
		if t.Type == model.TypeInvestment {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// CreditCardInterest is the simple daily interest on an outstanding balance:
// outstanding × (annualRate/365/100) × days.
func CreditCardInterest(outstanding, annualRate decimal.Decimal, days int) decimal.Decimal {
	dailyRate := annualRate.Div(decimal.NewFromInt(365)).Div(hundred)
	return outstanding.Mul(dailyRate).Mul(decimal.NewFromInt(int64(days))).Round(2)
}

// CompoundInterest projects P(1+r/n)^(nt) for an annual percentage rate r,
// n compoundings per year and t whole years.
func CompoundInterest(principal, annualRate decimal.Decimal, compoundsPerYear, years int) decimal.Decimal {
	if compoundsPerYear <= 0 || years < 0 {
		return principal
	}
	periodRate := annualRate.Div(hundred).Div(decimal.NewFromInt(int64(compoundsPerYear)))
	base := decimal.NewFromInt(1).Add(periodRate)
	result := principal
	for i := 0; i < compoundsPerYear*years; i++ {
		result = result.Mul(base).Round(10)
	}
	return result.Round(2)
}

// BudgetUtilization is spent/budgeted × 100, or 0 when nothing is budgeted.
func BudgetUtilization(spent, budgeted decimal.Decimal) decimal.Decimal {
	if budgeted.IsZero() {
		return decimal.Zero
	}
	return spent.Div(budgeted).Mul(hundred).Round(2)
}

// categoryIndex resolves ids (including sub-category ids) to categories.
type categoryIndex struct {
	byID     map[string]*model.Category
	parents  map[string]string // sub-category id -> parent category id
	subNames map[string]string
}

func newCategoryIndex(cats []*model.Category) *categoryIndex {
	idx := &categoryIndex{
		byID:     make(map[string]*model.Category),
		parents:  make(map[string]string),
		subNames: make(map[string]string),
	}
	for _, c := range cats {
		idx.byID[c.ID] = c
		for _, sc := range c.SubCategories {
			idx.parents[sc.ID] = c.ID
			idx.subNames[sc.ID] = sc.Name
		}
	}
	return idx
}

func (idx *categoryIndex) parentOf(id string) string {
	if parent, ok := idx.parents[id]; ok {
		return parent
	}
	return id
}

func (idx *categoryIndex) nameOf(id string) string {
	if c, ok := idx.byID[id]; ok {
		return c.Name
	}
	return ""
}

// shares converts a totals map into sorted percentage shares.
func shares(totals map[string]decimal.Decimal, nameOf func(string) string) []CategoryShare {
	grand := decimal.Zero
	for _, amt := range totals {
		grand = grand.Add(amt)
	}

	out := make([]CategoryShare, 0, len(totals))
	for id, amt := range totals {
		name := nameOf(id)
		if name == "" {
			name = "Uncategorized"
		}
		pct := decimal.Zero
		if !grand.IsZero() {
			pct = amt.Div(grand).Mul(hundred).Round(2)
		}
		out = append(out, CategoryShare{CategoryID: id, Name: name, Amount: amt, Percent: pct})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Name < out[j].Name
	})
	return out
}
