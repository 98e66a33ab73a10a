// Package state is the client's tiny file-backed scratch store, the desktop
// analog of the browser's localStorage: short-lived pending-payment flags and
// an unsaved company-settings draft. It is not a system of record; a missing
// or corrupt file simply means an empty state.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// pendingTTL bounds how long a pending-payment flag survives; gateway
// redirects that never come back should not pin flags forever.
const pendingTTL = 24 * time.Hour

// CompanyDraft is the unsaved company-settings form.
type CompanyDraft struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

type fileData struct {
	PendingPayments map[string]time.Time `json:"pending_payments"`
	CompanyDraft    *CompanyDraft        `json:"company_draft,omitempty"`
}

// Store is a small JSON file under the configured state dir. Safe for
// concurrent use within one process; there is no cross-process locking.
type Store struct {
	mu   sync.Mutex
	path string
	data fileData
}

// Open loads the store at path, creating parent directories as needed. A
// corrupt file resets to empty rather than failing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &Store{
		path: path,
		data: fileData{PendingPayments: map[string]time.Time{}},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(raw, &s.data); err != nil {
		s.data = fileData{PendingPayments: map[string]time.Time{}}
	}
	if s.data.PendingPayments == nil {
		s.data.PendingPayments = map[string]time.Time{}
	}

	s.prune()
	return s, nil
}

func (s *Store) prune() {
	cutoff := time.Now().Add(-pendingTTL)
	for id, at := range s.data.PendingPayments {
		if at.Before(cutoff) {
			delete(s.data.PendingPayments, id)
		}
	}
}

// SetPendingPayment flags an order as awaiting gateway confirmation.
func (s *Store) SetPendingPayment(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.PendingPayments[orderID] = time.Now()
	return s.save()
}

// ClearPendingPayment removes the flag once the payment resolves.
func (s *Store) ClearPendingPayment(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data.PendingPayments, orderID)
	return s.save()
}

// PendingPayment reports whether the order still has an unexpired flag.
func (s *Store) PendingPayment(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.data.PendingPayments[orderID]
	if !ok {
		return false
	}
	return time.Since(at) < pendingTTL
}

// SaveCompanyDraft stores the unsaved settings form.
func (s *Store) SaveCompanyDraft(draft CompanyDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.CompanyDraft = &draft
	return s.save()
}

// CompanyDraft returns the stored draft, nil when none.
func (s *Store) CompanyDraft() *CompanyDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.CompanyDraft
}

// ClearCompanyDraft discards the draft after the form is actually saved.
func (s *Store) ClearCompanyDraft() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.CompanyDraft = nil
	return s.save()
}

// save writes via a temp file and rename so a crash never leaves a truncated
// state file behind.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
