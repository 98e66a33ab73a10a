package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/oxmanage/console/internal/api"
	"github.com/oxmanage/console/internal/auth"
	"github.com/oxmanage/console/internal/models"
)

// SMSService wraps the campaign endpoints and gates sending on the locally
// computed segment cost against the available credit balance.
type SMSService struct {
	client    *api.Client
	session   *auth.Session
	validator *ValidationHelper

	mu      sync.Mutex
	credits *models.SMSCredits
	lastErr string
}

// NewSMSService wires the service to the API client and session.
func NewSMSService(client *api.Client, session *auth.Session) *SMSService {
	s := &SMSService{
		client:    client,
		session:   session,
		validator: NewValidationHelper(),
	}

	session.OnChange(func(authenticated bool) {
		if !authenticated {
			s.mu.Lock()
			s.credits = nil
			s.lastErr = ""
			s.mu.Unlock()
		}
	})

	return s
}

// LoadCredits fetches the tenant's sending balance.
func (s *SMSService) LoadCredits(ctx context.Context) error {
	if !s.session.Authenticated() {
		return nil
	}

	credits, err := s.client.GetSMSCredits(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		logger.Error().Err(err).Msg("failed to load sms credits")
		s.lastErr = "Failed to load SMS credits"
		s.credits = nil
		return err
	}

	s.lastErr = ""
	s.credits = credits
	return nil
}

// Credits returns the last loaded balance, nil when unknown.
func (s *SMSService) Credits() *models.SMSCredits {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credits
}

// CanSend reports whether the message fits the loaded credit balance per
// recipient count, and the exact shortfall when it does not. The check is
// advisory; the backend recomputes the cost on send.
func (s *SMSService) CanSend(message string, recipients int) (bool, int, SegmentInfo) {
	info := CalculateSegments(message)

	s.mu.Lock()
	credits := s.credits
	s.mu.Unlock()

	if credits == nil {
		return false, 0, info
	}

	required := info.Segments * recipients
	if credits.Available < required {
		return false, required - credits.Available, info
	}
	return true, 0, info
}

// Send validates and dispatches the message, then reloads the credit balance
// from the backend rather than deducting locally.
func (s *SMSService) Send(ctx context.Context, req models.SendSMSRequest) (*models.SMSHistoryEntry, error) {
	if err := s.validator.ValidateStruct(&req); err != nil {
		s.mu.Lock()
		s.lastErr = FormatValidationError(err)
		s.mu.Unlock()
		return nil, err
	}

	ok, shortfall, info := s.CanSend(req.Message, len(req.Recipients))
	if !ok && shortfall > 0 {
		err := fmt.Errorf("insufficient SMS credits: need %d more for %d segment(s)", shortfall, info.Segments)
		s.mu.Lock()
		s.lastErr = err.Error()
		s.mu.Unlock()
		return nil, err
	}

	entry, err := s.client.SendSMS(ctx, req)
	if err != nil {
		logger.Error().Err(err).Msg("failed to send sms")
		s.mu.Lock()
		s.lastErr = "Failed to send SMS"
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()

	if err := s.LoadCredits(ctx); err != nil {
		return entry, err
	}
	return entry, nil
}

// History fetches previously sent messages.
func (s *SMSService) History(ctx context.Context) ([]models.SMSHistoryEntry, error) {
	entries, err := s.client.ListSMSHistory(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load sms history")
		return []models.SMSHistoryEntry{}, err
	}
	return entries, nil
}

// LastError returns the last error message, "" after a success.
func (s *SMSService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
