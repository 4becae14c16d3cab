package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/moodlog-api/internal/classification"
	"github.com/phrazzld/moodlog-api/internal/domain"
	"github.com/phrazzld/moodlog-api/internal/service"
	"github.com/phrazzld/moodlog-api/internal/service/auth"
	"github.com/phrazzld/moodlog-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var quotaErr *service.QuotaExceededError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Quota errors
	case errors.As(err, &quotaErr):
		return http.StatusTooManyRequests

	// Dependency errors
	case errors.Is(err, classification.ErrUnavailable):
		return http.StatusServiceUnavailable

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrEmptyContent),
		errors.Is(err, domain.ErrInvalidTier),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var quotaErr *service.QuotaExceededError

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.As(err, &quotaErr):
		return "Monthly entry limit exceeded"

	case errors.Is(err, classification.ErrUnavailable):
		return "Emotion analysis is temporarily unavailable"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEntryNotFound):
		return "Entry not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, domain.ErrEmptyContent):
		return "Content cannot be empty"

	case errors.Is(err, domain.ErrInvalidTier):
		return "Invalid plan specified"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}
