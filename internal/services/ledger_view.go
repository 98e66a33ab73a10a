package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/oxmanage/console/internal/models"
)

// LedgerSummary holds the recomputed totals for a displayed transaction list.
type LedgerSummary struct {
	Credits decimal.Decimal
	Debits  decimal.Decimal
	Net     decimal.Decimal
	Count   int
}

// LedgerFilters narrows an already-loaded page in memory, without another
// request. Zero values and the sentinel "all" leave a dimension unconstrained.
type LedgerFilters struct {
	Type       string
	Status     string
	VerifiedBy int
	DateFrom   time.Time
	DateTo     time.Time
	Search     string // matched against purpose and reference number
}

// WithRunningBalance derives the per-row running balance for a newest-first
// transaction list. The account's authoritative balance anchors the newest
// row; each older row's balance is the previous one minus that row's signed
// amount. Rows with identical timestamps keep the server's relative order, so
// the column never disagrees with the backend's own arithmetic.
//
// The anchor matters: lists may be paginated or filtered, so summing the
// visible history from zero would produce wrong balances. The balance field
// is trusted as ground truth and only walked backwards from.
func WithRunningBalance(transactions []models.Transaction, balance decimal.Decimal) []models.TransactionWithBalance {
	rows := make([]models.TransactionWithBalance, len(transactions))

	running := balance
	for i, tx := range transactions {
		rows[i] = models.TransactionWithBalance{
			Transaction:    tx,
			RunningBalance: running,
		}
		// Balance before this transaction, shown on the next (older) row.
		running = running.Sub(tx.SignedAmount())
	}

	return rows
}

// ApplyLedgerFilters narrows the list. The result is never nil and preserves
// input order.
func ApplyLedgerFilters(transactions []models.Transaction, filters LedgerFilters) []models.Transaction {
	matched := []models.Transaction{}

	needle := strings.ToLower(strings.TrimSpace(filters.Search))

	for _, tx := range transactions {
		if filters.Type != "" && filters.Type != models.FilterAll && tx.Type != filters.Type {
			continue
		}
		if filters.Status != "" && filters.Status != models.FilterAll && tx.Status != filters.Status {
			continue
		}
		if filters.VerifiedBy != 0 && (tx.VerifiedBy == nil || *tx.VerifiedBy != filters.VerifiedBy) {
			continue
		}
		if !filters.DateFrom.IsZero() && tx.Date.Before(filters.DateFrom) {
			continue
		}
		if !filters.DateTo.IsZero() && tx.Date.After(filters.DateTo) {
			continue
		}
		if needle != "" {
			haystack := strings.ToLower(tx.Purpose + " " + tx.ReferenceNumber)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		matched = append(matched, tx)
	}

	return matched
}

// Summarize recomputes credits, debits and net for a displayed list.
func Summarize(transactions []models.Transaction) LedgerSummary {
	summary := LedgerSummary{
		Credits: decimal.Zero,
		Debits:  decimal.Zero,
		Net:     decimal.Zero,
		Count:   len(transactions),
	}

	for _, tx := range transactions {
		switch tx.Type {
		case models.TransactionCredit:
			summary.Credits = summary.Credits.Add(tx.Amount)
		case models.TransactionDebit:
			summary.Debits = summary.Debits.Add(tx.Amount)
		}
	}

	summary.Net = summary.Credits.Sub(summary.Debits)
	return summary
}
