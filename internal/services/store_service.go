package services

import (
	"bytes"
	"context"
	"image/png"
	"sync"

	"github.com/skip2/go-qrcode"

	"github.com/oxmanage/console/internal/api"
	"github.com/oxmanage/console/internal/auth"
	"github.com/oxmanage/console/internal/models"
)

// StoreService wraps the online-storefront endpoints: catalogue, orders,
// policy text and the custom-domain records, plus a shareable QR image of the
// public shop link.
type StoreService struct {
	client  *api.Client
	session *auth.Session

	mu       sync.Mutex
	settings *models.StoreSettings
	lastErr  string
}

// NewStoreService wires the service to the API client and session.
func NewStoreService(client *api.Client, session *auth.Session) *StoreService {
	s := &StoreService{client: client, session: session}

	session.OnChange(func(authenticated bool) {
		if !authenticated {
			s.mu.Lock()
			s.settings = nil
			s.lastErr = ""
			s.mu.Unlock()
		}
	})

	return s
}

// LoadSettings fetches the storefront identity.
func (s *StoreService) LoadSettings(ctx context.Context) error {
	if !s.session.Authenticated() {
		return nil
	}

	settings, err := s.client.GetStoreSettings(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		logger.Error().Err(err).Msg("failed to load store settings")
		s.lastErr = "Failed to load store settings"
		s.settings = nil
		return err
	}

	s.lastErr = ""
	s.settings = settings
	return nil
}

// Settings returns the last loaded storefront identity, nil when unknown.
func (s *StoreService) Settings() *models.StoreSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Products fetches the storefront catalogue.
func (s *StoreService) Products(ctx context.Context) ([]models.StoreProduct, error) {
	products, err := s.client.ListStoreProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load store products")
		return []models.StoreProduct{}, err
	}
	return products, nil
}

// Orders fetches orders placed through the storefront.
func (s *StoreService) Orders(ctx context.Context) ([]models.StoreOrder, error) {
	orders, err := s.client.ListStoreOrders(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load store orders")
		return []models.StoreOrder{}, err
	}
	return orders, nil
}

// Policy fetches the terms or privacy text.
func (s *StoreService) Policy(ctx context.Context, kind string) (*models.StorePolicy, error) {
	return s.client.GetStorePolicy(ctx, kind)
}

// UpdatePolicy replaces the terms or privacy text and returns the server's
// saved copy.
func (s *StoreService) UpdatePolicy(ctx context.Context, kind, content string) (*models.StorePolicy, error) {
	policy, err := s.client.UpdateStorePolicy(ctx, kind, content)
	if err != nil {
		logger.Error().Err(err).Str("kind", kind).Msg("failed to update store policy")
		return nil, err
	}
	return policy, nil
}

// DNSRecords fetches the custom-domain records.
func (s *StoreService) DNSRecords(ctx context.Context) ([]models.DNSRecord, error) {
	records, err := s.client.ListDNSRecords(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load dns records")
		return []models.DNSRecord{}, err
	}
	return records, nil
}

// ShareQR renders the public storefront URL as a PNG for counter-top
// sharing. Settings must be loaded first.
func (s *StoreService) ShareQR(size int) ([]byte, error) {
	s.mu.Lock()
	settings := s.settings
	s.mu.Unlock()

	if settings == nil {
		return nil, api.ErrNotFound
	}
	if size <= 0 {
		size = 256
	}

	qr, err := qrcode.New(settings.PublicURL(), qrcode.Medium)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(size)); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// LastError returns the last settings error message, "" after a success.
func (s *StoreService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
