// Package auth holds the client-side session: the bearer token, the identity
// claims parsed out of it, and the tenant settings many views need. Lifecycle
// is explicit: Start on login, Logout on teardown. There is no ambient
// singleton; the session is built in main and passed to every service.
package auth

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "auth").Logger()

// Session is the process-wide auth/currency context. Safe for concurrent use.
type Session struct {
	mu          sync.RWMutex
	token       string
	userID      string
	expiresAt   time.Time
	currency    string
	subscribers []func(authenticated bool)
}

// NewSession builds an empty, unauthenticated session. currency is the tenant
// display currency code (e.g. "BDT") used by exports.
func NewSession(currency string) *Session {
	if currency == "" {
		currency = "USD"
	}
	return &Session{currency: currency}
}

// Start installs a bearer token. The client never holds the backend's signing
// secret, so claims are read without signature verification; the backend
// still rejects tampered tokens on every request.
func (s *Session) Start(token string) error {
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return fmt.Errorf("empty token")
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return fmt.Errorf("error parsing token: %w", err)
	}

	var userID string
	if v, ok := claims["user_id"]; ok {
		userID = fmt.Sprintf("%v", v)
	}

	var expiresAt time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expiresAt = exp.Time
	}

	s.mu.Lock()
	s.token = token
	s.userID = userID
	s.expiresAt = expiresAt
	s.mu.Unlock()

	logger.Info().Str("user_id", userID).Time("expires_at", expiresAt).Msg("session started")
	s.notify()
	return nil
}

// Logout clears the token and notifies subscribers so they drop any loaded
// collections. Prevents cross-session data leakage when another user logs in
// within the same process lifetime.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.userID = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()

	logger.Info().Msg("session cleared")
	s.notify()
}

// Authenticated reports whether a non-expired token is installed.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return false
	}
	if !s.expiresAt.IsZero() && time.Now().After(s.expiresAt) {
		return false
	}
	return true
}

// Token returns the current bearer token, or "" when logged out. Suitable as
// an api.TokenSource.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// UserID returns the user id claim of the current token.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Currency returns the tenant display currency code.
func (s *Session) Currency() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currency
}

// OnChange registers a callback invoked after every Start and Logout with the
// new authentication state.
func (s *Session) OnChange(fn func(authenticated bool)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Session) notify() {
	authenticated := s.Authenticated()

	s.mu.RLock()
	subscribers := make([]func(bool), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subscribers {
		fn(authenticated)
	}
}
