package api

import (
	"net/http"

	"github.com/phrazzld/moodlog-api/internal/domain"
	"github.com/phrazzld/moodlog-api/internal/service"
)

// SubscriptionHandler handles plan catalog, profile, and upgrade requests.
type SubscriptionHandler struct {
	journalService service.JournalService
}

// NewSubscriptionHandler creates a new SubscriptionHandler with the given
// dependencies.
func NewSubscriptionHandler(journalService service.JournalService) *SubscriptionHandler {
	return &SubscriptionHandler{
		journalService: journalService,
	}
}

// Plans handles GET /api/plans. The catalog is public; it drives the
// pricing page.
func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, r, http.StatusOK, PlansResponse{Plans: domain.Plans()})
}

// Profile handles GET /api/profile.
func (h *SubscriptionHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	info, err := h.journalService.Profile(r.Context(), userID)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ProfileResponse{
		User: newUserResponse(info.User),
		Usage: UsageResponse{
			EntriesThisMonth: info.Usage.EntriesThisMonth,
			EntriesRemaining: info.Usage.Remaining,
			MaxEntries:       info.Usage.MaxEntries,
		},
		Plan: info.Plan,
	})
}

// Upgrade handles POST /api/subscription/upgrade.
func (h *SubscriptionHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpgradeRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := ValidateRequest(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	plan, err := h.journalService.UpgradeSubscription(r.Context(), userID, req.Plan)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, UpgradeResponse{
		Message: "Subscription updated to " + plan.Name,
		Plan:    plan,
	})
}
