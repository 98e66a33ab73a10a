package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Due-book date filter modes, passed through to the backend unchanged.
const (
	DueFilterAll      = "all"
	DueFilterToday    = "due_today"
	DueFilterThisWeek = "due_this_week"
	DueFilterCustom   = "custom"
)

// DuePayment is one outstanding order balance for a customer.
type DuePayment struct {
	OrderID int             `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"due_date"`
}

// DueCustomer is the aggregated due-book row. The backend computes the
// aggregation; the client only filters, sorts and exports.
type DueCustomer struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	TotalDue    decimal.Decimal `json:"total_due"`
	DuePayments []DuePayment    `json:"due_payments"`
}

// DueBookFilters selects which due customers the backend returns.
type DueBookFilters struct {
	Search         string
	DateFilterType string // all | due_today | due_this_week | custom
	CustomDate     string // YYYY-MM-DD, only with DueFilterCustom
}
