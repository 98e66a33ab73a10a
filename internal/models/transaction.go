package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types and statuses as the backend defines them.
const (
	TransactionDebit  = "debit"
	TransactionCredit = "credit"

	StatusPending   = "pending"
	StatusVerified  = "verified"
	StatusCancelled = "cancelled"
)

// FilterAll is the sentinel a filter field carries when it should be omitted
// from the request entirely.
const FilterAll = "all"

// Transaction is the client's copy of one ledger row. Status changes happen
// server-side only; the client reloads the list after any write instead of
// patching rows in place.
type Transaction struct {
	ID              int             `json:"id"`
	Account         int             `json:"account"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Purpose         string          `json:"purpose"`
	Status          string          `json:"status"`
	VerifiedBy      *int            `json:"verified_by"`
	Date            time.Time       `json:"date"`
	ReferenceNumber string          `json:"reference_number"`
	CreatedAt       time.Time       `json:"created_at"`
}

// SignedAmount is the amount as it moves the balance: positive for credits,
// negative for debits.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == TransactionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// TransactionWithBalance is the client-only derived view: a transaction plus
// the account balance as it stood immediately after that transaction.
type TransactionWithBalance struct {
	Transaction
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// CreateTransactionRequest is the payload for recording a new transaction.
type CreateTransactionRequest struct {
	Account         int             `json:"account" validate:"required,gt=0"`
	Type            string          `json:"type" validate:"required,oneof=debit credit"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	Purpose         string          `json:"purpose" validate:"required,max=255"`
	VerifiedBy      *int            `json:"verified_by,omitempty"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
}

// TransactionFilters is the client-side filter object. Every field may be
// empty or the sentinel "all", both meaning "do not constrain".
type TransactionFilters struct {
	Type       string
	Status     string
	DateFrom   string // YYYY-MM-DD
	DateTo     string // YYYY-MM-DD
	Search     string
	VerifiedBy string
}
