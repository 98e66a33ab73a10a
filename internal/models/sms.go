package models

import "time"

// SMSCredits is the tenant's current sending balance.
type SMSCredits struct {
	Available int `json:"available"`
	Used      int `json:"used"`
}

// SendSMSRequest is the payload for dispatching a campaign message. The
// backend recomputes segment cost; the client calculation is advisory.
type SendSMSRequest struct {
	Recipients []string `json:"recipients" validate:"required,min=1,dive,required"`
	Message    string   `json:"message" validate:"required"`
}

// SMSHistoryEntry is one sent message as the backend records it.
type SMSHistoryEntry struct {
	ID         int       `json:"id"`
	Recipients int       `json:"recipients"`
	Message    string    `json:"message"`
	Segments   int       `json:"segments"`
	CreditUsed int       `json:"credit_used"`
	Status     string    `json:"status"`
	SentAt     time.Time `json:"sent_at"`
}
