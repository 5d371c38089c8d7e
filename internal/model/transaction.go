package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies ledger transactions.
type TransactionType string

const (
	TypeIncome     TransactionType = "INCOME"
	TypeExpense    TransactionType = "EXPENSE"
	TypeTransfer   TransactionType = "TRANSFER"
	TypeInvestment TransactionType = "INVESTMENT"
	TypeDebt       TransactionType = "DEBT"
)

// Split allocates part of a transaction's amount to a category.
type Split struct {
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Note       string          `json:"note,omitempty"`
}

// Transaction is a single ledger record. Amount is always a positive
// magnitude; the sign of its effect on a balance is derived from Type.
// AccountID may reference an Account or a CreditCard; resolution tries
// the account collection first.
type Transaction struct {
	ID                string          `json:"id"`
	Rev               string          `json:"rev"`
	HouseholdID       string          `json:"householdId"`
	Date              time.Time       `json:"date"`
	Amount            decimal.Decimal `json:"amount"`
	Type              TransactionType `json:"type"`
	AccountID         string          `json:"accountId"`
	CategoryID        string          `json:"categoryId,omitempty"`
	TransferAccountID string          `json:"transferAccountId,omitempty"` // required when Type == TypeTransfer
	Description       string          `json:"description,omitempty"`
	Splits            []Split         `json:"splits,omitempty"`
	CreatedBy         string          `json:"createdBy"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// IsSplit reports whether the transaction allocates its amount across splits.
func (t Transaction) IsSplit() bool {
	return len(t.Splits) > 0
}

// SplitTotal returns the sum of all split amounts.
func (t Transaction) SplitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range t.Splits {
		total = total.Add(s.Amount)
	}
	return total
}
