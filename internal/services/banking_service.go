package services

import (
	"context"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oxmanage/console/internal/api"
	"github.com/oxmanage/console/internal/auth"
	"github.com/oxmanage/console/internal/models"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "services").Logger()

// DefaultAccountName is auto-selected after loading accounts when nothing is
// selected yet. Backend convention: every tenant is seeded with an account of
// this name.
const DefaultAccountName = "Main"

// BankingService owns the client-side banking state for the lifetime of a
// mounted view: the user's accounts, the verifier employee list, and the
// transaction history of the selected account. All collections are transient
// copies; after any write the authoritative lists are re-fetched rather than
// patched locally.
type BankingService struct {
	client    *api.Client
	session   *auth.Session
	validator *ValidationHelper

	mu                sync.Mutex
	accounts          []models.BankAccount
	employees         []models.Employee
	transactions      []models.Transaction
	selectedAccountID int

	accountsLoading     bool
	employeesLoading    bool
	transactionsLoading bool

	accountsErr     string
	employeesErr    string
	transactionsErr string

	// txGeneration tags each LoadTransactions call; a response whose tag is
	// no longer current is discarded so a rapid account switch can never
	// surface another account's rows.
	txGeneration uint64
}

// NewBankingService wires the service to the API client and session. On
// logout every collection is cleared so the next login starts empty.
func NewBankingService(client *api.Client, session *auth.Session) *BankingService {
	s := &BankingService{
		client:    client,
		session:   session,
		validator: NewValidationHelper(),
	}

	session.OnChange(func(authenticated bool) {
		if !authenticated {
			s.reset()
		}
	})

	return s
}

func (s *BankingService) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = []models.BankAccount{}
	s.employees = []models.Employee{}
	s.transactions = []models.Transaction{}
	s.selectedAccountID = 0
	s.accountsErr = ""
	s.employeesErr = ""
	s.transactionsErr = ""
	s.txGeneration++
}

// LoadAccounts fetches all accounts. While unauthenticated it is a no-op that
// leaves the collection empty. On success, if no account is selected yet, the
// account named "Main" is auto-selected, else the first in the list.
func (s *BankingService) LoadAccounts(ctx context.Context) error {
	if !s.session.Authenticated() {
		s.reset()
		return nil
	}

	s.mu.Lock()
	s.accountsLoading = true
	s.mu.Unlock()

	accounts, err := s.client.ListBankAccounts(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountsLoading = false

	if err != nil {
		logger.Error().Err(err).Msg("failed to load bank accounts")
		s.accountsErr = "Failed to load bank accounts"
		s.accounts = []models.BankAccount{}
		return err
	}

	s.accountsErr = ""
	if accounts == nil {
		accounts = []models.BankAccount{}
	}
	s.accounts = accounts

	if s.selectedAccountID == 0 && len(accounts) > 0 {
		selected := accounts[0].ID
		for _, account := range accounts {
			if account.Name == DefaultAccountName {
				selected = account.ID
				break
			}
		}
		s.selectedAccountID = selected
	}

	return nil
}

// LoadEmployees fetches the verifier employee list and stores it. A non-empty
// search filters the returned slice case-insensitively across name, employee
// id, role, department and email; the list is small and bounded per tenant,
// so filtering stays client-side instead of a round-trip per keystroke.
func (s *BankingService) LoadEmployees(ctx context.Context, search string) ([]models.Employee, error) {
	if !s.session.Authenticated() {
		return []models.Employee{}, nil
	}

	s.mu.Lock()
	s.employeesLoading = true
	s.mu.Unlock()

	employees, err := s.client.ListBankingEmployees(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.employeesLoading = false

	if err != nil {
		logger.Error().Err(err).Msg("failed to load employees")
		s.employeesErr = "Failed to load employees"
		s.employees = []models.Employee{}
		return []models.Employee{}, err
	}

	s.employeesErr = ""
	if employees == nil {
		employees = []models.Employee{}
	}
	s.employees = employees

	return filterEmployees(employees, search), nil
}

func filterEmployees(employees []models.Employee, search string) []models.Employee {
	if search == "" {
		return employees
	}

	needle := strings.ToLower(search)
	matched := []models.Employee{}
	for _, e := range employees {
		haystack := strings.ToLower(strings.Join([]string{
			e.FullName, e.Username, e.EmployeeID, e.Role, e.Department, e.Email,
		}, " "))
		if strings.Contains(haystack, needle) {
			matched = append(matched, e)
		}
	}
	return matched
}

// SelectAccount switches the selected account, clears the displayed list so
// no other account's rows flash while loading, and refetches.
func (s *BankingService) SelectAccount(ctx context.Context, accountID int) error {
	s.mu.Lock()
	s.selectedAccountID = accountID
	s.transactions = []models.Transaction{}
	s.mu.Unlock()

	return s.LoadTransactions(ctx, accountID, models.TransactionFilters{})
}

// LoadTransactions fetches one account's history with the given filters.
// Responses that resolve after a newer load started, or after the selection
// moved to a different account, are discarded.
func (s *BankingService) LoadTransactions(ctx context.Context, accountID int, filters models.TransactionFilters) error {
	if !s.session.Authenticated() {
		return nil
	}

	s.mu.Lock()
	s.txGeneration++
	generation := s.txGeneration
	s.transactionsLoading = true
	s.mu.Unlock()

	transactions, err := s.client.ListTransactions(ctx, accountID, buildTransactionQuery(filters))

	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.txGeneration || (s.selectedAccountID != 0 && s.selectedAccountID != accountID) {
		logger.Debug().Int("account_id", accountID).Msg("discarding stale transaction response")
		return nil
	}
	s.transactionsLoading = false

	if err != nil {
		logger.Error().Err(err).Int("account_id", accountID).Msg("failed to load transactions")
		s.transactionsErr = "Failed to load transactions"
		s.transactions = []models.Transaction{}
		return err
	}

	s.transactionsErr = ""
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	s.transactions = transactions
	return nil
}

// buildTransactionQuery translates the filter object into backend query
// parameters, omitting any field that is empty or the sentinel "all".
func buildTransactionQuery(filters models.TransactionFilters) url.Values {
	query := url.Values{}

	set := func(key, value string) {
		if value != "" && value != models.FilterAll {
			query.Set(key, value)
		}
	}

	set("type", filters.Type)
	set("status", filters.Status)
	set("date_from", filters.DateFrom)
	set("date_to", filters.DateTo)
	set("search", filters.Search)
	set("verified_by", filters.VerifiedBy)

	if len(query) == 0 {
		return nil
	}
	return query
}

// CreateAccount performs the write, then reloads the accounts list so the
// authoritative balance and counters come from the backend.
func (s *BankingService) CreateAccount(ctx context.Context, req models.CreateAccountRequest) (*models.BankAccount, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		s.setAccountsError(FormatValidationError(err))
		return nil, err
	}

	account, err := s.client.CreateBankAccount(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create account")
		s.setAccountsError("Failed to create account")
		return nil, err
	}

	if err := s.LoadAccounts(ctx); err != nil {
		return account, err
	}
	return account, nil
}

// UpdateAccount performs the write, then reloads the accounts list.
func (s *BankingService) UpdateAccount(ctx context.Context, id int, req models.UpdateAccountRequest) (*models.BankAccount, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		s.setAccountsError(FormatValidationError(err))
		return nil, err
	}

	account, err := s.client.UpdateBankAccount(ctx, id, req)
	if err != nil {
		logger.Error().Err(err).Int("account_id", id).Msg("failed to update account")
		s.setAccountsError("Failed to update account")
		return nil, err
	}

	if err := s.LoadAccounts(ctx); err != nil {
		return account, err
	}
	return account, nil
}

// CreateTransaction validates and performs the write, then reloads both the
// accounts list (new authoritative balance) and the selected account's
// history. A missing reference number is filled with a uuid so an accidental
// double submit is detectable server-side.
func (s *BankingService) CreateTransaction(ctx context.Context, req models.CreateTransactionRequest) (*models.Transaction, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		s.setTransactionsError(FormatValidationError(err))
		return nil, err
	}

	if req.ReferenceNumber == "" {
		req.ReferenceNumber = uuid.NewString()
	}

	tx, err := s.client.CreateTransaction(ctx, req)
	if err != nil {
		logger.Error().Err(err).Int("account_id", req.Account).Msg("failed to create transaction")
		s.setTransactionsError("Failed to create transaction")
		return nil, err
	}

	if err := s.LoadAccounts(ctx); err != nil {
		return tx, err
	}

	s.mu.Lock()
	selected := s.selectedAccountID
	s.mu.Unlock()
	if selected != 0 {
		if err := s.LoadTransactions(ctx, selected, models.TransactionFilters{}); err != nil {
			return tx, err
		}
	}

	return tx, nil
}

// AccountSummary is a pass-through read of server-computed aggregates.
func (s *BankingService) AccountSummary(ctx context.Context, accountID int) (*models.AccountSummary, error) {
	return s.client.GetAccountSummary(ctx, accountID)
}

// DashboardStats is a pass-through read; accountID may be nil for all
// accounts.
func (s *BankingService) DashboardStats(ctx context.Context, accountID *int) (*models.DashboardStats, error) {
	return s.client.GetDashboardStats(ctx, accountID)
}

func (s *BankingService) setAccountsError(msg string) {
	s.mu.Lock()
	s.accountsErr = msg
	s.mu.Unlock()
}

func (s *BankingService) setTransactionsError(msg string) {
	s.mu.Lock()
	s.transactionsErr = msg
	s.mu.Unlock()
}

// Accounts returns the loaded accounts. Never nil, so callers can range or
// index without a guard even after a failed load.
func (s *BankingService) Accounts() []models.BankAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accounts == nil {
		return []models.BankAccount{}
	}
	return s.accounts
}

// Employees returns the full loaded employee list. Never nil.
func (s *BankingService) Employees() []models.Employee {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.employees == nil {
		return []models.Employee{}
	}
	return s.employees
}

// Transactions returns the selected account's loaded history. Never nil.
func (s *BankingService) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transactions == nil {
		return []models.Transaction{}
	}
	return s.transactions
}

// SelectedAccount returns the selected account's record, or nil when the
// selection does not match a loaded account.
func (s *BankingService) SelectedAccount() *models.BankAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == s.selectedAccountID {
			account := s.accounts[i]
			return &account
		}
	}
	return nil
}

// SelectedAccountID returns the current selection, 0 when none.
func (s *BankingService) SelectedAccountID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedAccountID
}

// AccountsError returns the last accounts error message, "" after a
// successful load.
func (s *BankingService) AccountsError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountsErr
}

// TransactionsError returns the last transactions error message.
func (s *BankingService) TransactionsError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactionsErr
}

// EmployeesError returns the last employees error message.
func (s *BankingService) EmployeesError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.employeesErr
}

// Loading reports whether any banking resource is currently loading.
func (s *BankingService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accountsLoading || s.employeesLoading || s.transactionsLoading
}
