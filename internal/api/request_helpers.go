package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/moodlog-api/internal/api/shared"
	"github.com/phrazzld/moodlog-api/internal/service"
)

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context. The user ID is placed there by the authentication
// middleware; a missing or zero ID means the route was wired without it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// DecodeJSON decodes the request body into the given struct.
func DecodeJSON(r *http.Request, v interface{}) error {
	return shared.DecodeJSON(r, v)
}

// ValidateRequest validates a decoded request payload against its
// validation tags.
func ValidateRequest(v interface{}) error {
	return shared.ValidateRequest(v)
}

// RespondWithJSON writes a JSON response with the given status code and data.
func RespondWithJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	shared.RespondWithJSON(w, r, status, data)
}

// RespondWithError writes a JSON error response with the given status code
// and message.
func RespondWithError(w http.ResponseWriter, r *http.Request, status int, message string) {
	shared.RespondWithError(w, r, status, message)
}

// respondWithMappedError maps a service error to its status code and safe
// message and writes the response, logging the underlying error.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// quotaExceeded unwraps a *service.QuotaExceededError if the error carries
// one.
func quotaExceeded(err error) (*service.QuotaExceededError, bool) {
	var quotaErr *service.QuotaExceededError
	if errors.As(err, &quotaErr) {
		return quotaErr, true
	}
	return nil, false
}

// respondQuotaExceeded writes the 429 body including the plan limit and the
// usage that hit it.
func respondQuotaExceeded(w http.ResponseWriter, r *http.Request, quotaErr *service.QuotaExceededError) {
	shared.RespondWithJSON(w, r, http.StatusTooManyRequests, QuotaExceededResponse{
		Error:   "Monthly entry limit exceeded",
		Limit:   quotaErr.Limit,
		Current: quotaErr.Current,
		TraceID: shared.GetTraceID(r.Context()),
	})
}
