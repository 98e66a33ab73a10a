package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"github.com/oxmanage/console/internal/api"
	"github.com/oxmanage/console/internal/auth"
	"github.com/oxmanage/console/internal/models"
)

// debounceDelay is how long filter changes are coalesced before a refetch, so
// typing in the search box does not fire a request per keystroke.
const debounceDelay = 300 * time.Millisecond

// DueBookService fetches customers with outstanding order balances and
// exports the already-fetched slice without another round-trip.
type DueBookService struct {
	client   *api.Client
	session  *auth.Session
	currency string

	mu        sync.Mutex
	customers []models.DueCustomer
	filters   models.DueBookFilters
	lastErr   string

	timer *time.Timer
}

// NewDueBookService wires the service to the API client and session.
func NewDueBookService(client *api.Client, session *auth.Session) *DueBookService {
	s := &DueBookService{
		client:   client,
		session:  session,
		currency: session.Currency(),
		filters:  models.DueBookFilters{DateFilterType: models.DueFilterAll},
	}

	session.OnChange(func(authenticated bool) {
		if !authenticated {
			s.mu.Lock()
			s.customers = []models.DueCustomer{}
			s.lastErr = ""
			s.mu.Unlock()
		}
	})

	return s
}

// Load fetches the due-book with the current filters immediately.
func (s *DueBookService) Load(ctx context.Context) error {
	if !s.session.Authenticated() {
		return nil
	}

	s.mu.Lock()
	filters := s.filters
	s.mu.Unlock()

	customers, err := s.client.ListDueCustomers(ctx, filters)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		logger.Error().Err(err).Msg("failed to load due customers")
		s.lastErr = "Failed to load due customers"
		s.customers = []models.DueCustomer{}
		return err
	}

	s.lastErr = ""
	if customers == nil {
		customers = []models.DueCustomer{}
	}
	s.customers = customers
	return nil
}

// SetFilters records new filters and schedules a debounced refetch. Rapid
// changes within the window collapse into one request; only the last filter
// state is fetched.
func (s *DueBookService) SetFilters(ctx context.Context, filters models.DueBookFilters) {
	s.mu.Lock()
	s.filters = filters
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(debounceDelay, func() {
		if err := s.Load(ctx); err != nil {
			logger.Error().Err(err).Msg("debounced due-book reload failed")
		}
	})
	s.mu.Unlock()
}

// Flush cancels any pending debounce and fetches immediately. Exports call it
// so they never export against filters that have not been applied yet.
func (s *DueBookService) Flush(ctx context.Context) error {
	s.mu.Lock()
	pending := s.timer != nil
	if pending {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if pending {
		return s.Load(ctx)
	}
	return nil
}

// Customers returns the loaded due-book rows. Never nil.
func (s *DueBookService) Customers() []models.DueCustomer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customers == nil {
		return []models.DueCustomer{}
	}
	return s.customers
}

// LastError returns the last error message, "" after a success.
func (s *DueBookService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ExportCSV writes the already-fetched due-book as CSV, one row per customer
// with the payment breakdown flattened. Purely local; no network.
func (s *DueBookService) ExportCSV(w io.Writer) error {
	customers := s.Customers()

	writer := csv.NewWriter(w)
	header := []string{"Name", "Email", "Phone", "Total Due (" + s.currency + ")", "Due Orders"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("error writing csv header: %w", err)
	}

	for _, customer := range customers {
		orders := ""
		for i, payment := range customer.DuePayments {
			if i > 0 {
				orders += "; "
			}
			orders += fmt.Sprintf("#%d %s due %s",
				payment.OrderID, payment.Amount.StringFixed(2), payment.DueDate.Format("2006-01-02"))
		}

		row := []string{
			customer.Name,
			customer.Email,
			customer.Phone,
			customer.TotalDue.StringFixed(2),
			orders,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

var printTemplate = template.Must(template.New("duebook").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Due Book</title>
<style>
body { font-family: sans-serif; margin: 24px; }
h1 { font-size: 18px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #999; padding: 6px 10px; text-align: left; font-size: 12px; }
th { background: #eee; }
td.amount { text-align: right; }
</style>
</head>
<body>
<h1>Due Book &mdash; {{ .GeneratedAt }}</h1>
<table>
<tr><th>Name</th><th>Phone</th><th>Email</th><th>Total Due ({{ .Currency }})</th></tr>
{{ range .Rows }}<tr><td>{{ .Name }}</td><td>{{ .Phone }}</td><td>{{ .Email }}</td><td class="amount">{{ .TotalDue }}</td></tr>
{{ end }}</table>
</body>
</html>
`))

// RenderPrintHTML writes the printable due-book document: a standalone HTML
// page meant to be opened and handed to the system print dialog.
func (s *DueBookService) RenderPrintHTML(w io.Writer) error {
	type printRow struct {
		Name, Phone, Email, TotalDue string
	}

	customers := s.Customers()
	rows := make([]printRow, 0, len(customers))
	for _, customer := range customers {
		rows = append(rows, printRow{
			Name:     customer.Name,
			Phone:    customer.Phone,
			Email:    customer.Email,
			TotalDue: customer.TotalDue.StringFixed(2),
		})
	}

	data := struct {
		GeneratedAt string
		Currency    string
		Rows        []printRow
	}{
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		Currency:    s.currency,
		Rows:        rows,
	}

	return printTemplate.Execute(w, data)
}
