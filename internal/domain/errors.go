package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is wrapped by ValidationError, which carries the field-specific message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidMoney is returned when an amount cannot be parsed or represented.
	ErrInvalidMoney = errors.New("invalid money amount")
)

// ValidationError describes the first rule an entity violated.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error returns the human-readable message, which already names the field.
func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets callers match any ValidationError with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
