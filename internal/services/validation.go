package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationHelper provides shared validation functionality. Write payloads
// are validated before a request is issued so form errors surface inline
// without a network round-trip.
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// FormatValidationError flattens validator errors into the single message
// shown next to the offending form.
func FormatValidationError(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fieldErr.Field(), fieldErr.Tag()))
	}
	return strings.Join(parts, "; ")
}
