package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies funding sources.
type AccountType string

const (
	AccountTypeChecking    AccountType = "checking"
	AccountTypeSavings     AccountType = "savings"
	AccountTypeWallet      AccountType = "wallet"
	AccountTypeInvestment  AccountType = "investment"
	AccountTypeCashReserve AccountType = "cash-reserve"
)

// Account is a cash funding source. Balance is a derived cache maintained
// incrementally by the ledger engine; it may go negative.
type Account struct {
	ID          string          `json:"id"`
	Rev         string          `json:"rev"`
	HouseholdID string          `json:"householdId"`
	Name        string          `json:"name"`
	Type        AccountType     `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Archived    bool            `json:"archived"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
