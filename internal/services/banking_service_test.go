package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxmanage/console/internal/api"
	"github.com/oxmanage/console/internal/auth"
	"github.com/oxmanage/console/internal/models"
)

// bankingFixture is the mock backend shared by the banking service tests.
type bankingFixture struct {
	mu           sync.Mutex
	accounts     []models.BankAccount
	txByAccount  map[int][]models.Transaction
	txDelays     map[int]time.Duration
	accountLoads int
	txRequests   []txRequest
	createdTx    []models.CreateTransactionRequest
	failAccounts bool
}

type txRequest struct {
	accountID int
	query     map[string][]string
}

func (f *bankingFixture) router() http.Handler {
	r := chi.NewRouter()

	r.Get("/api/banking/accounts/", func(w http.ResponseWriter, req *http.Request) {
		f.mu.Lock()
		f.accountLoads++
		fail := f.failAccounts
		accounts := f.accounts
		f.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "boom"})
			return
		}
		json.NewEncoder(w).Encode(accounts)
	})

	r.Get("/api/banking/accounts/{id}/transactions/", func(w http.ResponseWriter, req *http.Request) {
		accountID, _ := strconv.Atoi(chi.URLParam(req, "id"))

		f.mu.Lock()
		f.txRequests = append(f.txRequests, txRequest{accountID: accountID, query: req.URL.Query()})
		delay := f.txDelays[accountID]
		rows := f.txByAccount[accountID]
		f.mu.Unlock()

		if delay > 0 {
			time.Sleep(delay)
		}

		// Emulate backend-side filtering for the type parameter.
		if wanted := req.URL.Query().Get("type"); wanted != "" {
			filtered := []models.Transaction{}
			for _, tx := range rows {
				if tx.Type == wanted {
					filtered = append(filtered, tx)
				}
			}
			rows = filtered
		}

		json.NewEncoder(w).Encode(rows)
	})

	r.Post("/api/banking/transactions/", func(w http.ResponseWriter, req *http.Request) {
		var body models.CreateTransactionRequest
		json.NewDecoder(req.Body).Decode(&body)

		f.mu.Lock()
		f.createdTx = append(f.createdTx, body)
		f.mu.Unlock()

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.Transaction{
			ID:              100,
			Account:         body.Account,
			Type:            body.Type,
			Amount:          body.Amount,
			Purpose:         body.Purpose,
			Status:          models.StatusPending,
			ReferenceNumber: body.ReferenceNumber,
		})
	})

	r.Get("/api/banking/employees/", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode([]models.Employee{
			{ID: 1, Username: "rahim", FullName: "Rahim Uddin", EmployeeID: "EMP-001", Role: "Accountant", Department: "Finance", Email: "rahim@example.com"},
			{ID: 2, Username: "karim", FullName: "Karim Mia", EmployeeID: "EMP-002", Role: "Manager", Department: "Sales", Email: "karim@example.com"},
		})
	})

	return r
}

func authedSession(t *testing.T) *auth.Session {
	t.Helper()
	claims := jwt.MapClaims{"user_id": "42", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)

	session := auth.NewSession("BDT")
	require.NoError(t, session.Start(token))
	return session
}

func newBankingService(t *testing.T, fixture *bankingFixture) (*BankingService, *auth.Session) {
	t.Helper()
	server := httptest.NewServer(fixture.router())
	t.Cleanup(server.Close)

	session := authedSession(t)
	client, err := api.New(server.Client(), server.URL, session.Token)
	require.NoError(t, err)

	return NewBankingService(client, session), session
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestBankingService_LoadAccounts(t *testing.T) {
	fixture := &bankingFixture{
		accounts: []models.BankAccount{
			{ID: 1, Name: "Savings", Balance: dec("100.00")},
			{ID: 2, Name: "Main", Balance: dec("5000.00")},
		},
		txByAccount: map[int][]models.Transaction{},
	}
	service, _ := newBankingService(t, fixture)

	t.Run("auto-selects the Main account", func(t *testing.T) {
		require.NoError(t, service.LoadAccounts(context.Background()))
		assert.Equal(t, 2, service.SelectedAccountID())
		assert.Len(t, service.Accounts(), 2)
	})

	t.Run("keeps an existing selection", func(t *testing.T) {
		require.NoError(t, service.SelectAccount(context.Background(), 1))
		require.NoError(t, service.LoadAccounts(context.Background()))
		assert.Equal(t, 1, service.SelectedAccountID())
	})
}

func TestBankingService_LoadAccountsFallsBackToFirst(t *testing.T) {
	fixture := &bankingFixture{
		accounts: []models.BankAccount{
			{ID: 7, Name: "Petty Cash"},
			{ID: 8, Name: "Payroll"},
		},
		txByAccount: map[int][]models.Transaction{},
	}
	service, _ := newBankingService(t, fixture)

	require.NoError(t, service.LoadAccounts(context.Background()))
	assert.Equal(t, 7, service.SelectedAccountID())
}

func TestBankingService_LoadAccountsErrorLeavesEmptySlice(t *testing.T) {
	fixture := &bankingFixture{failAccounts: true, txByAccount: map[int][]models.Transaction{}}
	service, _ := newBankingService(t, fixture)

	err := service.LoadAccounts(context.Background())
	require.Error(t, err)

	assert.NotNil(t, service.Accounts())
	assert.Empty(t, service.Accounts())
	assert.Equal(t, "Failed to load bank accounts", service.AccountsError())

	// The next successful load clears the error.
	fixture.mu.Lock()
	fixture.failAccounts = false
	fixture.accounts = []models.BankAccount{{ID: 1, Name: "Main"}}
	fixture.mu.Unlock()

	require.NoError(t, service.LoadAccounts(context.Background()))
	assert.Empty(t, service.AccountsError())
}

func TestBankingService_LoadEmployeesClientSideSearch(t *testing.T) {
	fixture := &bankingFixture{txByAccount: map[int][]models.Transaction{}}
	service, _ := newBankingService(t, fixture)
	ctx := context.Background()

	t.Run("empty search returns everyone", func(t *testing.T) {
		employees, err := service.LoadEmployees(ctx, "")
		require.NoError(t, err)
		assert.Len(t, employees, 2)
	})

	t.Run("matches across name, id, role, department, email", func(t *testing.T) {
		for _, search := range []string{"rahim", "EMP-001", "accountant", "finance", "rahim@example.com"} {
			employees, err := service.LoadEmployees(ctx, search)
			require.NoError(t, err)
			require.Len(t, employees, 1, "search %q", search)
			assert.Equal(t, "Rahim Uddin", employees[0].FullName)
		}
	})

	t.Run("no match yields empty non-nil slice", func(t *testing.T) {
		employees, err := service.LoadEmployees(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, employees)
		assert.Empty(t, employees)
	})
}

func TestBankingService_FilterTranslation(t *testing.T) {
	fixture := &bankingFixture{
		txByAccount: map[int][]models.Transaction{
			1: {
				{ID: 1, Account: 1, Type: models.TransactionCredit, Amount: dec("10.00"), Status: models.StatusVerified},
				{ID: 2, Account: 1, Type: models.TransactionDebit, Amount: dec("4.00"), Status: models.StatusVerified},
			},
		},
	}
	service, _ := newBankingService(t, fixture)

	filters := models.TransactionFilters{
		Type:       models.TransactionCredit,
		Status:     models.FilterAll,
		VerifiedBy: "",
		DateFrom:   "2026-01-01",
	}
	require.NoError(t, service.LoadTransactions(context.Background(), 1, filters))

	fixture.mu.Lock()
	require.Len(t, fixture.txRequests, 1)
	query := fixture.txRequests[0].query
	fixture.mu.Unlock()

	assert.Equal(t, []string{"credit"}, query["type"])
	assert.Equal(t, []string{"2026-01-01"}, query["date_from"])
	assert.NotContains(t, query, "status", "sentinel all must be omitted")
	assert.NotContains(t, query, "verified_by", "empty filter must be omitted")
	assert.NotContains(t, query, "search")

	for _, tx := range service.Transactions() {
		assert.Equal(t, models.TransactionCredit, tx.Type)
	}
}

func TestBankingService_SelectAccountClearsAndRefetchesOnce(t *testing.T) {
	fixture := &bankingFixture{
		accounts: []models.BankAccount{{ID: 1, Name: "Main"}, {ID: 2, Name: "Savings"}},
		txByAccount: map[int][]models.Transaction{
			1: {{ID: 10, Account: 1, Type: models.TransactionCredit, Amount: dec("1.00")}},
			2: {{ID: 20, Account: 2, Type: models.TransactionDebit, Amount: dec("2.00")}},
		},
	}
	service, _ := newBankingService(t, fixture)
	ctx := context.Background()

	require.NoError(t, service.LoadAccounts(ctx))
	require.NoError(t, service.LoadTransactions(ctx, 1, models.TransactionFilters{}))

	fixture.mu.Lock()
	before := len(fixture.txRequests)
	fixture.mu.Unlock()

	require.NoError(t, service.SelectAccount(ctx, 2))

	fixture.mu.Lock()
	requests := fixture.txRequests[before:]
	fixture.mu.Unlock()

	require.Len(t, requests, 1)
	assert.Equal(t, 2, requests[0].accountID)

	rows := service.Transactions()
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Account)
}

func TestBankingService_StaleResponseDiscarded(t *testing.T) {
	fixture := &bankingFixture{
		accounts: []models.BankAccount{{ID: 1, Name: "Main"}, {ID: 2, Name: "Savings"}},
		txByAccount: map[int][]models.Transaction{
			1: {{ID: 10, Account: 1, Type: models.TransactionCredit, Amount: dec("1.00")}},
			2: {{ID: 20, Account: 2, Type: models.TransactionDebit, Amount: dec("2.00")}},
		},
		txDelays: map[int]time.Duration{1: 250 * time.Millisecond},
	}
	service, _ := newBankingService(t, fixture)
	ctx := context.Background()

	require.NoError(t, service.LoadAccounts(ctx))

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Slow request for account 1 resolves after the selection moved on.
		service.LoadTransactions(ctx, 1, models.TransactionFilters{})
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, service.SelectAccount(ctx, 2))
	<-done

	rows := service.Transactions()
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Account, "late response for the old account must be discarded")
}

func TestBankingService_CreateTransaction(t *testing.T) {
	fixture := &bankingFixture{
		accounts: []models.BankAccount{{ID: 1, Name: "Main", Balance: dec("100.00")}},
		txByAccount: map[int][]models.Transaction{
			1: {{ID: 10, Account: 1, Type: models.TransactionCredit, Amount: dec("1.00")}},
		},
	}
	service, _ := newBankingService(t, fixture)
	ctx := context.Background()

	require.NoError(t, service.LoadAccounts(ctx))

	fixture.mu.Lock()
	accountLoadsBefore := fixture.accountLoads
	txRequestsBefore := len(fixture.txRequests)
	fixture.mu.Unlock()

	tx, err := service.CreateTransaction(ctx, models.CreateTransactionRequest{
		Account: 1,
		Type:    models.TransactionCredit,
		Amount:  dec("25.50"),
		Purpose: "cash deposit",
	})
	require.NoError(t, err)
	require.NotNil(t, tx)

	fixture.mu.Lock()
	defer fixture.mu.Unlock()

	require.Len(t, fixture.createdTx, 1)
	assert.NotEmpty(t, fixture.createdTx[0].ReferenceNumber, "missing reference number must be filled with a uuid")
	assert.Equal(t, accountLoadsBefore+1, fixture.accountLoads, "accounts must be reloaded for the authoritative balance")
	assert.Equal(t, txRequestsBefore+1, len(fixture.txRequests), "the selected account's history must be reloaded")
}

func TestBankingService_CreateTransactionValidation(t *testing.T) {
	fixture := &bankingFixture{txByAccount: map[int][]models.Transaction{}}
	service, _ := newBankingService(t, fixture)

	_, err := service.CreateTransaction(context.Background(), models.CreateTransactionRequest{
		Account: 1,
		Type:    "transfer", // not debit/credit
		Amount:  dec("5.00"),
		Purpose: "x",
	})
	require.Error(t, err)

	fixture.mu.Lock()
	defer fixture.mu.Unlock()
	assert.Empty(t, fixture.createdTx, "invalid payload must never reach the network")
}

func TestBankingService_UnauthenticatedIsNoop(t *testing.T) {
	fixture := &bankingFixture{
		accounts:    []models.BankAccount{{ID: 1, Name: "Main"}},
		txByAccount: map[int][]models.Transaction{},
	}
	service, session := newBankingService(t, fixture)
	ctx := context.Background()

	require.NoError(t, service.LoadAccounts(ctx))
	require.NotEmpty(t, service.Accounts())

	session.Logout()

	assert.Empty(t, service.Accounts(), "logout must clear loaded collections")
	assert.Zero(t, service.SelectedAccountID())

	require.NoError(t, service.LoadAccounts(ctx))
	assert.Empty(t, service.Accounts(), "loaders are no-ops while unauthenticated")

	fixture.mu.Lock()
	defer fixture.mu.Unlock()
	assert.Equal(t, 1, fixture.accountLoads, "no request may be issued after logout")
}
