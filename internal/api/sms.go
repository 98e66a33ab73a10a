package api

import (
	"context"

	"github.com/oxmanage/console/internal/models"
)

// GetSMSCredits returns the tenant's current sending balance.
func (c *Client) GetSMSCredits(ctx context.Context) (*models.SMSCredits, error) {
	var credits models.SMSCredits
	if err := c.get(ctx, "/sms/credits/", nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

// SendSMS dispatches a campaign message. Credit deduction is authoritative on
// the backend, which recomputes the segment cost itself.
func (c *Client) SendSMS(ctx context.Context, req models.SendSMSRequest) (*models.SMSHistoryEntry, error) {
	var entry models.SMSHistoryEntry
	if err := c.post(ctx, "/sms/send/", req, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListSMSHistory fetches previously sent messages, newest first.
func (c *Client) ListSMSHistory(ctx context.Context) ([]models.SMSHistoryEntry, error) {
	return getList[models.SMSHistoryEntry](ctx, c, "/sms/history/", nil)
}
