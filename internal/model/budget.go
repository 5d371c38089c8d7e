package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetMode distinguishes rolling monthly budgets from one-off event budgets.
type BudgetMode string

const (
	BudgetRecurring BudgetMode = "RECURRING"
	BudgetEvent     BudgetMode = "EVENT"
)

// BudgetStatus is the lifecycle state of a budget.
type BudgetStatus string

const (
	BudgetDraft    BudgetStatus = "DRAFT"
	BudgetActive   BudgetStatus = "ACTIVE"
	BudgetArchived BudgetStatus = "ARCHIVED"
)

// CategoryLimit caps spending for one category within a budget.
type CategoryLimit struct {
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
}

// PlanItem is an ad-hoc checklist entry embedded in a budget.
type PlanItem struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Done   bool            `json:"done"`
}

// Budget holds category limits and plan items. TotalBudget equals the sum of
// category limits when limits are present. TotalSpent is written by callers
// from analytics results; the engine never recomputes it on its own.
type Budget struct {
	ID             string          `json:"id"`
	Rev            string          `json:"rev"`
	HouseholdID    string          `json:"householdId"`
	Name           string          `json:"name"`
	Mode           BudgetMode      `json:"budgetMode"`
	StartDate      time.Time       `json:"startDate,omitempty"` // EVENT mode only
	EndDate        time.Time       `json:"endDate,omitempty"`   // EVENT mode only
	CategoryLimits []CategoryLimit `json:"categoryLimitConfig,omitempty"`
	TotalBudget    decimal.Decimal `json:"totalBudget"`
	TotalSpent     decimal.Decimal `json:"totalSpent"`
	PlanItems      []PlanItem      `json:"planItems,omitempty"`
	Status         BudgetStatus    `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
