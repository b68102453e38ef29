// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrRateLimited    = errors.New("rate limited")
	ErrServerError    = errors.New("server error")
	ErrTimeout        = errors.New("request timed out")
	ErrSyncInProgress = errors.New("sync already in progress")
	ErrNotFound       = errors.New("not found")
	ErrConfigInvalid  = errors.New("invalid configuration")
	ErrDatabaseError  = errors.New("database error")
)

// TransportError represents a failure talking to the venue API. Retryable
// failures (rate limits, server errors, timeouts) are retried with backoff
// before being surfaced; everything else fails immediately.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Attempts   int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport error [%s] status %d after %d attempt(s): %v", e.Endpoint, e.StatusCode, e.Attempts, e.Err)
	}
	return fmt.Sprintf("transport error [%s] after %d attempt(s): %v", e.Endpoint, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the failure is transient per the retry policy:
// HTTP 429, any 5xx, or a timeout.
func (e *TransportError) Retryable() bool {
	if errors.Is(e.Err, ErrTimeout) {
		return true
	}
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// NewTransportError creates a new TransportError.
func NewTransportError(endpoint string, statusCode, attempts int, err error) *TransportError {
	return &TransportError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Attempts:   attempts,
		Err:        err,
	}
}

// ValidationError represents a malformed venue record. Such records are
// dropped and logged; they are never fatal to the batch they arrived in.
type ValidationError struct {
	Record  string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s record missing %s: %s", e.Record, e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(record, field, message string) *ValidationError {
	return &ValidationError{
		Record:  record,
		Field:   field,
		Message: message,
	}
}

// ReconciliationGap records a fill that could not be matched during
// round-trip reconstruction, such as a close with no prior open in the
// synced history. Gaps are reported as warnings; no round trip is
// fabricated for them.
type ReconciliationGap struct {
	FillID    string
	Asset     string
	Direction string
	Reason    string
}

func (g ReconciliationGap) String() string {
	return fmt.Sprintf("reconciliation gap [%s %s/%s]: %s", g.FillID, g.Asset, g.Direction, g.Reason)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
