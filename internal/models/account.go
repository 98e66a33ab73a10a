package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankAccount is the client's transient copy of a server-owned bank account.
// Balance is authoritative on the backend; the client never recomputes it
// locally and always re-fetches after a mutation.
type BankAccount struct {
	ID               int             `json:"id"`
	Name             string          `json:"name"`
	Owner            string          `json:"owner"`
	Balance          decimal.Decimal `json:"balance"`
	IsActive         bool            `json:"is_active"`
	TransactionCount int             `json:"transaction_count"`
	TotalCredits     decimal.Decimal `json:"total_credits"`
	TotalDebits      decimal.Decimal `json:"total_debits"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// CreateAccountRequest is the payload for creating a bank account.
type CreateAccountRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// UpdateAccountRequest carries the mutable account fields. Nil fields are
// omitted from the request body and left untouched server-side.
type UpdateAccountRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=100"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// AccountSummary is a server-computed aggregate for one account.
type AccountSummary struct {
	AccountID        int             `json:"account_id"`
	Balance          decimal.Decimal `json:"balance"`
	TotalCredits     decimal.Decimal `json:"total_credits"`
	TotalDebits      decimal.Decimal `json:"total_debits"`
	TransactionCount int             `json:"transaction_count"`
	PendingCount     int             `json:"pending_count"`
}

// DashboardStats is the server-computed aggregate across all accounts, or a
// single account when requested with an account id.
type DashboardStats struct {
	TotalBalance     decimal.Decimal `json:"total_balance"`
	TotalCredits     decimal.Decimal `json:"total_credits"`
	TotalDebits      decimal.Decimal `json:"total_debits"`
	AccountCount     int             `json:"account_count"`
	TransactionCount int             `json:"transaction_count"`
}
