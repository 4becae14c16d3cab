package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyContent is returned when an entry's content is empty after trimming.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidTier is returned when a subscription tier name is not part of
	// the plan catalog.
	ErrInvalidTier = errors.New("invalid subscription tier")
)
