package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring item falls due.
type Frequency string

const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

// RecurringStatus is the lifecycle state of a recurring item.
type RecurringStatus string

const (
	RecurringActive RecurringStatus = "ACTIVE"
	RecurringPaused RecurringStatus = "PAUSED"
)

// RecurringItem is a scheduled payment template. NextDueDate only ever
// advances forward, by exactly one period per processed payment.
type RecurringItem struct {
	ID           string          `json:"id"`
	Rev          string          `json:"rev"`
	HouseholdID  string          `json:"householdId"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	Type         TransactionType `json:"type"`
	CategoryID   string          `json:"categoryId,omitempty"`
	Frequency    Frequency       `json:"frequency"`
	NextDueDate  time.Time       `json:"nextDueDate"`
	LastPaidDate time.Time       `json:"lastPaidDate,omitempty"`
	Status       RecurringStatus `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
