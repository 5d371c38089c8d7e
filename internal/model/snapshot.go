package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SharedTransaction is a denormalized, read-only projection of a transaction
// published for cross-user viewing. Names are embedded as plain strings; the
// row carries no references back into the live collections.
type SharedTransaction struct {
	ID           string          `json:"id"`
	Date         time.Time       `json:"date"`
	Amount       decimal.Decimal `json:"amount"`
	Type         TransactionType `json:"type"`
	CategoryName string          `json:"categoryName,omitempty"`
	Description  string          `json:"description,omitempty"`
	AccountName  string          `json:"accountName"`
	User         string          `json:"user"`
}

// SharedAccountBalance is a denormalized balance row, one per active account
// or credit card, fully replaced on each snapshot publish.
type SharedAccountBalance struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Type     string          `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}
