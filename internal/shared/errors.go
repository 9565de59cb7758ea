package shared

import (
	"fmt"
	"strings"
)

// ValidationError reports a single failing field. Requests that break several
// rules at once are reported as FieldErrors so the caller can fix everything in
// one round trip.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FieldErrors aggregates validation failures for a whole request.
type FieldErrors []ValidationError

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

// ConflictError indicates the document is not in a state that permits the
// requested operation, or the operation already happened.
type ConflictError struct {
	State   string
	Message string
}

func (e *ConflictError) Error() string {
	if e.State == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (current state: %s)", e.Message, e.State)
}

// NewInvalidTransition builds the conflict error raised for a disallowed
// document status transition.
func NewInvalidTransition(doc, current, requested string) *ConflictError {
	return &ConflictError{
		State:   current,
		Message: fmt.Sprintf("%s: cannot transition from %s to %s", doc, current, requested),
	}
}

// NotFoundError indicates a missing document.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ExternalServiceError wraps failures from the e-invoice portal. Transport
// failures are retryable; portal rejections carry the provider code verbatim
// and must not be retried blindly.
type ExternalServiceError struct {
	Code      string
	Message   string
	Retryable bool
	Err       error
}

func (e *ExternalServiceError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("e-invoice portal: %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("e-invoice portal: %s", e.Message)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
