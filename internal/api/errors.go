package api

import (
	"errors"
	"fmt"
)

// Sentinel errors callers can match with errors.Is.
var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNotFound         = errors.New("not found")
	ErrAPI              = errors.New("api error")
	ErrDecode           = errors.New("error decoding response body")
	ErrUnexpectedStatus = errors.New("unexpected http status code")
	ErrBaseURL          = errors.New("error parsing base url")
)

// APIError wraps the server's own error message for a non-2xx response.
func APIError(statusCode int, message string) error {
	if message == "" {
		return fmt.Errorf("%w: status %d", ErrAPI, statusCode)
	}
	return fmt.Errorf("%w: %s", ErrAPI, message)
}

// DecodeError wraps a JSON decoding failure.
func DecodeError(err error) error {
	return fmt.Errorf("%w: %w", ErrDecode, err)
}

// UnexpectedStatusError wraps a status code outside the handled set.
func UnexpectedStatusError(statusCode int) error {
	return fmt.Errorf("%w: %d", ErrUnexpectedStatus, statusCode)
}
