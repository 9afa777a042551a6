package models

import "fmt"

// ValidationError reports a well-formed request whose content violates an
// invariant: an empty rejection reason, an incomplete schedule, a start date
// after the end date. Field names the offending input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
