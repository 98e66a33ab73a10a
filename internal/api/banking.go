package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/oxmanage/console/internal/models"
)

// ListBankAccounts fetches every bank account belonging to the session user.
func (c *Client) ListBankAccounts(ctx context.Context) ([]models.BankAccount, error) {
	return getList[models.BankAccount](ctx, c, "/banking/accounts/", nil)
}

// CreateBankAccount registers a new account and returns the server's copy.
func (c *Client) CreateBankAccount(ctx context.Context, req models.CreateAccountRequest) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := c.post(ctx, "/banking/accounts/", req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateBankAccount patches an existing account.
func (c *Client) UpdateBankAccount(ctx context.Context, id int, req models.UpdateAccountRequest) (*models.BankAccount, error) {
	var account models.BankAccount
	path := fmt.Sprintf("/banking/accounts/%d/", id)
	if err := c.patch(ctx, path, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// ListTransactions fetches the transaction history of one account. The query
// carries only the filters the caller decided to send; translation from the
// client-side filter object happens in the banking service.
func (c *Client) ListTransactions(ctx context.Context, accountID int, query url.Values) ([]models.Transaction, error) {
	path := fmt.Sprintf("/banking/accounts/%d/transactions/", accountID)
	return getList[models.Transaction](ctx, c, path, query)
}

// CreateTransaction records a new transaction against an account.
func (c *Client) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	var tx models.Transaction
	if err := c.post(ctx, "/banking/transactions/", req, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// GetAccountSummary returns the server-computed aggregate for one account.
func (c *Client) GetAccountSummary(ctx context.Context, accountID int) (*models.AccountSummary, error) {
	var summary models.AccountSummary
	path := fmt.Sprintf("/banking/accounts/%d/summary/", accountID)
	if err := c.get(ctx, path, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetDashboardStats returns aggregates across all accounts, or for a single
// account when accountID is non-nil.
func (c *Client) GetDashboardStats(ctx context.Context, accountID *int) (*models.DashboardStats, error) {
	var query url.Values
	if accountID != nil {
		query = url.Values{"account": {strconv.Itoa(*accountID)}}
	}

	var stats models.DashboardStats
	if err := c.get(ctx, "/banking/dashboard/", query, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ListBankingEmployees fetches the employees eligible as transaction
// verifiers. Search happens client-side; this always returns the full list.
func (c *Client) ListBankingEmployees(ctx context.Context) ([]models.Employee, error) {
	return getList[models.Employee](ctx, c, "/banking/employees/", nil)
}
