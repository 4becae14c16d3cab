package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/moodlog-api/internal/service"
)

// Listing defaults and bounds.
const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// JournalHandler handles entry and stats API requests.
type JournalHandler struct {
	journalService service.JournalService
}

// NewJournalHandler creates a new JournalHandler with the given dependencies.
func NewJournalHandler(journalService service.JournalService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
	}
}

// CreateEntry handles POST /api/entries.
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateEntryRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	entry, err := h.journalService.CreateEntry(r.Context(), userID, req.Content)
	if err != nil {
		if quotaErr, ok := quotaExceeded(err); ok {
			respondQuotaExceeded(w, r, quotaErr)
			return
		}
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, newEntryResponse(entry))
}

// ListEntries handles GET /api/entries.
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	req, err := parseListRequest(r)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.journalService.ListEntries(r.Context(), userID, req)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, newListEntriesResponse(page))
}

// Stats handles GET /api/stats.
func (h *JournalHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	report, err := h.journalService.Stats(r.Context(), userID)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, report)
}

// parseListRequest reads the pagination and date-filter query parameters.
// Dates use the YYYY-MM-DD form; end_date is inclusive of the whole day.
func parseListRequest(r *http.Request) (service.ListRequest, error) {
	req := service.ListRequest{Limit: defaultListLimit}

	q := r.URL.Query()

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return req, errInvalidPagination
		}
		if limit > maxListLimit {
			limit = maxListLimit
		}
		req.Limit = limit
	}

	if raw := q.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return req, errInvalidPagination
		}
		req.Offset = offset
	}

	if raw := q.Get("start_date"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return req, errInvalidDateFilter
		}
		req.StartDate = &start
	}

	if raw := q.Get("end_date"); raw != "" {
		end, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return req, errInvalidDateFilter
		}
		// Move to the end of the day so the filter is inclusive.
		end = end.Add(24*time.Hour - time.Nanosecond)
		req.EndDate = &end
	}

	return req, nil
}

var (
	errInvalidPagination = &paramError{"Invalid pagination params"}
	errInvalidDateFilter = &paramError{"Invalid date filter, expected YYYY-MM-DD"}
)

type paramError struct{ msg string }

func (e *paramError) Error() string { return e.msg }
