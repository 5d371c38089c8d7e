package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan. The ACTIVE to CLOSED
// transition is one-way; a closed loan never reopens.
type LoanStatus string

const (
	LoanActive LoanStatus = "ACTIVE"
	LoanClosed LoanStatus = "CLOSED"
)

// Loan is an amortizing loan. EMIAmount and OutstandingPrincipal are derived
// at creation time (the latter via paid-EMI simulation when InitialPaidEMIs
// is set) and maintained incrementally by payment recording.
type Loan struct {
	ID                   string          `json:"id"`
	Rev                  string          `json:"rev"`
	HouseholdID          string          `json:"householdId"`
	Name                 string          `json:"name"`
	Principal            decimal.Decimal `json:"principal"`
	InterestRate         decimal.Decimal `json:"interestRate"` // annual, percent
	TenureMonths         int             `json:"tenureMonths"`
	StartDate            time.Time       `json:"startDate"`
	InitialPaidEMIs      int             `json:"initialPaidEmis"`
	EMIAmount            decimal.Decimal `json:"emiAmount"`
	OutstandingPrincipal decimal.Decimal `json:"outstandingPrincipal"`
	PaidEMIs             int             `json:"paidEmis"`
	Status               LoanStatus      `json:"status"`
	AccountID            string          `json:"accountId,omitempty"` // optional linked funding account
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}
