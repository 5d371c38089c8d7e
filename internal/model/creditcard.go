package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementStatus is the lifecycle state of a billing statement.
type StatementStatus string

const (
	StatementGenerated StatementStatus = "GENERATED"
	StatementPaid      StatementStatus = "PAID"
)

// Statement is one closed billing cycle on a credit card.
type Statement struct {
	CycleStart     time.Time       `json:"cycleStart"`
	CycleEnd       time.Time       `json:"cycleEnd"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	MinimumDue     decimal.Decimal `json:"minimumDue"`
	DueDate        time.Time       `json:"dueDate"`
	Status         StatementStatus `json:"status"`
	GeneratedAt    time.Time       `json:"generatedAt"`
}

// CreditCard is a revolving credit facility. CurrentOutstanding is a derived
// cache maintained by the ledger engine and payment recording, clamped at
// zero. BillingCycleDay and PaymentDueDay are days of the month.
type CreditCard struct {
	ID                 string          `json:"id"`
	Rev                string          `json:"rev"`
	HouseholdID        string          `json:"householdId"`
	Name               string          `json:"name"`
	CreditLimit        decimal.Decimal `json:"creditLimit"`
	CurrentOutstanding decimal.Decimal `json:"currentOutstanding"`
	BillingCycleDay    int             `json:"billingCycleDay"`
	PaymentDueDay      int             `json:"paymentDueDay"`
	AnnualRate         decimal.Decimal `json:"annualRate"` // APR, percent
	Statements         []Statement     `json:"statements,omitempty"`
	Archived           bool            `json:"archived"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// StatementFor returns the statement whose cycle ends on the given day, if any.
func (c CreditCard) StatementFor(cycleEnd time.Time) (Statement, bool) {
	y, m, d := cycleEnd.Date()
	for _, s := range c.Statements {
		sy, sm, sd := s.CycleEnd.Date()
		if sy == y && sm == m && sd == d {
			return s, true
		}
	}
	return Statement{}, false
}
