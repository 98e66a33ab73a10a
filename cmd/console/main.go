package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/oxmanage/console/internal/api"
	"github.com/oxmanage/console/internal/auth"
	"github.com/oxmanage/console/internal/config"
	"github.com/oxmanage/console/internal/services"
	"github.com/oxmanage/console/internal/state"
)

const usage = `usage: console <command> [args]

commands:
  accounts              list bank accounts (auto-selects "Main")
  ledger [account-id]   show the transaction ledger with running balances
  stats                 show dashboard stats across all accounts
  duebook-csv <file>    export the due-book as CSV
  duebook-print <file>  write the printable due-book HTML document
  sms-calc <message>    show segment count / encoding for a message body
  store-qr <file>       write the storefront share QR code as PNG
  draft                 show the locally saved company-settings draft
  pending <order-id> [set|clear]
                        inspect or toggle a pending-payment flag
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.Load()

	session := auth.NewSession(cfg.Currency)
	if cfg.Token != "" {
		if err := session.Start(cfg.Token); err != nil {
			fmt.Fprintf(os.Stderr, "invalid API token: %v\n", err)
			os.Exit(1)
		}
	}

	client, err := api.New(&http.Client{Timeout: cfg.HTTPTimeout}, cfg.BaseURL, session.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad API base url: %v\n", err)
		os.Exit(1)
	}

	banking := services.NewBankingService(client, session)
	_ = services.NewSMSService(client, session)
	duebook := services.NewDueBookService(client, session)
	store := services.NewStoreService(client, session)

	localState, err := state.Open(filepath.Join(cfg.StateDir, "state.json"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open state file: %v\n", err)
		os.Exit(1)
	}

	// Cancel in-flight requests on Ctrl-C instead of hanging on the timeout.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()

	switch os.Args[1] {
	case "accounts":
		err = runAccounts(ctx, banking)
	case "ledger":
		err = runLedger(ctx, banking, os.Args[2:])
	case "stats":
		err = runStats(ctx, banking)
	case "duebook-csv":
		err = runDueBookExport(ctx, duebook, os.Args[2:], duebook.ExportCSV)
	case "duebook-print":
		err = runDueBookExport(ctx, duebook, os.Args[2:], duebook.RenderPrintHTML)
	case "sms-calc":
		err = runSMSCalc(os.Args[2:])
	case "store-qr":
		err = runStoreQR(ctx, store, os.Args[2:])
	case "draft":
		err = runDraft(localState)
	case "pending":
		err = runPending(localState, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func runAccounts(ctx context.Context, banking *services.BankingService) error {
	if err := banking.LoadAccounts(ctx); err != nil {
		return fmt.Errorf("%s: %w", banking.AccountsError(), err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBALANCE\tTXNS\tACTIVE")
	for _, account := range banking.Accounts() {
		selected := ""
		if account.ID == banking.SelectedAccountID() {
			selected = " *"
		}
		fmt.Fprintf(w, "%d\t%s%s\t%s\t%d\t%v\n",
			account.ID, account.Name, selected, account.Balance.StringFixed(2),
			account.TransactionCount, account.IsActive)
	}
	return w.Flush()
}

func runLedger(ctx context.Context, banking *services.BankingService, args []string) error {
	if err := banking.LoadAccounts(ctx); err != nil {
		return fmt.Errorf("%s: %w", banking.AccountsError(), err)
	}

	accountID := banking.SelectedAccountID()
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad account id %q", args[0])
		}
		accountID = parsed
	}
	if accountID == 0 {
		return fmt.Errorf("no bank accounts")
	}

	if err := banking.SelectAccount(ctx, accountID); err != nil {
		return fmt.Errorf("%s: %w", banking.TransactionsError(), err)
	}

	account := banking.SelectedAccount()
	if account == nil {
		return fmt.Errorf("account %d not found", accountID)
	}

	rows := services.WithRunningBalance(banking.Transactions(), account.Balance)
	summary := services.Summarize(banking.Transactions())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tAMOUNT\tSTATUS\tPURPOSE\tBALANCE")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Date.Format("2006-01-02"), row.Type, row.Amount.StringFixed(2),
			row.Status, row.Purpose, row.RunningBalance.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d transactions, credits %s, debits %s, net %s\n",
		summary.Count, summary.Credits.StringFixed(2),
		summary.Debits.StringFixed(2), summary.Net.StringFixed(2))
	return nil
}

func runStats(ctx context.Context, banking *services.BankingService) error {
	stats, err := banking.DashboardStats(ctx, nil)
	if err != nil {
		return err
	}

	fmt.Printf("accounts: %d\ntransactions: %d\ntotal balance: %s\ncredits: %s\ndebits: %s\n",
		stats.AccountCount, stats.TransactionCount, stats.TotalBalance.StringFixed(2),
		stats.TotalCredits.StringFixed(2), stats.TotalDebits.StringFixed(2))
	return nil
}

func runDueBookExport(ctx context.Context, duebook *services.DueBookService, args []string, render func(w io.Writer) error) error {
	if len(args) < 1 {
		return fmt.Errorf("output file required")
	}

	if err := duebook.Load(ctx); err != nil {
		return fmt.Errorf("%s: %w", duebook.LastError(), err)
	}

	file, err := os.Create(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	if err := render(file); err != nil {
		return err
	}

	fmt.Printf("wrote %d customers to %s\n", len(duebook.Customers()), args[0])
	return nil
}

func runSMSCalc(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("message body required")
	}

	info := services.CalculateSegments(args[0])
	fmt.Printf("characters: %d\nencoding: %s\nsegments: %d\nper segment: %d\n",
		info.Characters, info.Encoding, info.Segments, info.CharactersPerSegment)
	return nil
}

func runStoreQR(ctx context.Context, store *services.StoreService, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("output file required")
	}

	if err := store.LoadSettings(ctx); err != nil {
		return fmt.Errorf("%s: %w", store.LastError(), err)
	}

	image, err := store.ShareQR(512)
	if err != nil {
		return err
	}

	if err := os.WriteFile(args[0], image, 0o644); err != nil {
		return err
	}

	settings := store.Settings()
	fmt.Printf("wrote QR for %s to %s\n", settings.PublicURL(), args[0])
	return nil
}

func runDraft(localState *state.Store) error {
	draft := localState.CompanyDraft()
	if draft == nil {
		fmt.Println("no company-settings draft")
		return nil
	}
	fmt.Printf("name: %s\naddress: %s\nphone: %s\nemail: %s\n",
		draft.Name, draft.Address, draft.Phone, draft.Email)
	return nil
}

func runPending(localState *state.Store, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("order id required")
	}
	orderID := args[0]

	if len(args) > 1 {
		switch args[1] {
		case "set":
			return localState.SetPendingPayment(orderID)
		case "clear":
			return localState.ClearPendingPayment(orderID)
		default:
			return fmt.Errorf("unknown action %q", args[1])
		}
	}

	fmt.Printf("order %s pending: %v\n", orderID, localState.PendingPayment(orderID))
	return nil
}
