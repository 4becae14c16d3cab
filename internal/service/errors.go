// Package service provides application-level services for journal entries,
// quotas, and subscriptions.
package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check these with errors.Is(); the API layer maps them to HTTP
// status codes.
var (
	// ErrInvalidCredentials indicates a login attempt with an unknown email
	// or a wrong password. API layer maps this to HTTP 401.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// QuotaExceededError indicates the user's monthly entry quota is exhausted.
// It carries the plan limit and the current usage so the API layer can put
// both numbers in the 429 body.
type QuotaExceededError struct {
	Limit   int
	Current int
}

// Error implements the error interface for QuotaExceededError.
func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("monthly entry limit exceeded: %d of %d used", e.Current, e.Limit)
}

// JournalServiceError is a custom error type for journal service errors.
type JournalServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for JournalServiceError.
func (e *JournalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("journal service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("journal service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *JournalServiceError) Unwrap() error {
	return e.Err
}

// NewJournalServiceError creates a new JournalServiceError.
func NewJournalServiceError(operation, message string, err error) *JournalServiceError {
	return &JournalServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
