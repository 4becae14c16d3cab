package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/moodlog-api/internal/domain"
	"github.com/phrazzld/moodlog-api/internal/service"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name"     validate:"max=100"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	SubscriptionTier string    `json:"subscription_tier"`
	CreatedAt        time.Time `json:"created_at"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateEntryRequest defines the payload for creating a journal entry.
type CreateEntryRequest struct {
	Content string `json:"content" validate:"required"`
}

// EntryResponse is the public view of a journal entry.
type EntryResponse struct {
	ID           uuid.UUID             `json:"id"`
	Content      string                `json:"content"`
	EmotionLabel string                `json:"emotion_label"`
	EmotionScore float64               `json:"emotion_score"`
	EmotionEmoji string                `json:"emotion_emoji"`
	Emotions     []domain.EmotionScore `json:"emotions"`
	CreatedAt    time.Time             `json:"created_at"`
}

// TrendProjection is one point of the original_trend projection: the top
// score of an entry at its creation time.
type TrendProjection struct {
	CreatedAt time.Time `json:"created_at"`
	Score     float64   `json:"score"`
}

// MultiTrendProjection is one point of the multi_trend projection: an
// entry's full distribution at its creation time.
type MultiTrendProjection struct {
	CreatedAt time.Time             `json:"created_at"`
	Emotions  []domain.EmotionScore `json:"emotions"`
}

// ListEntriesResponse defines the response for the entry listing endpoint.
// The trend projections cover the returned page, not the full history.
type ListEntriesResponse struct {
	Total         int                    `json:"total"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
	Entries       []EntryResponse        `json:"entries"`
	OriginalTrend []TrendProjection      `json:"original_trend"`
	MultiTrend    []MultiTrendProjection `json:"multi_trend"`
}

// UsageResponse describes the user's standing against their monthly quota.
type UsageResponse struct {
	EntriesThisMonth int          `json:"entries_this_month"`
	EntriesRemaining domain.Limit `json:"entries_remaining"`
	MaxEntries       domain.Limit `json:"max_entries"`
}

// ProfileResponse defines the response for the profile endpoint.
type ProfileResponse struct {
	User  UserResponse  `json:"user"`
	Usage UsageResponse `json:"usage"`
	Plan  domain.Plan   `json:"plan"`
}

// UpgradeRequest defines the payload for the subscription upgrade endpoint.
type UpgradeRequest struct {
	Plan string `json:"plan" validate:"required"`
}

// UpgradeResponse defines the response for the subscription upgrade endpoint.
type UpgradeResponse struct {
	Message string      `json:"message"`
	Plan    domain.Plan `json:"plan"`
}

// PlansResponse defines the response for the plan catalog endpoint.
type PlansResponse struct {
	Plans []domain.Plan `json:"plans"`
}

// QuotaExceededResponse is the 429 body; it carries the plan limit and the
// usage that hit it.
type QuotaExceededResponse struct {
	Error   string `json:"error"`
	Limit   int    `json:"limit"`
	Current int    `json:"current"`
	TraceID string `json:"trace_id,omitempty"`
}

// newUserResponse builds the public view of a user.
func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:               user.ID,
		Email:            user.Email,
		Name:             user.Name,
		SubscriptionTier: string(user.Tier),
		CreatedAt:        user.CreatedAt,
	}
}

// newEntryResponse builds the public view of an entry, annotating the top
// label with its emoji.
func newEntryResponse(entry *domain.Entry) EntryResponse {
	return EntryResponse{
		ID:           entry.ID,
		Content:      entry.Content,
		EmotionLabel: entry.EmotionLabel,
		EmotionScore: entry.EmotionScore,
		EmotionEmoji: domain.EmotionEmoji(entry.EmotionLabel),
		Emotions:     entry.Emotions,
		CreatedAt:    entry.CreatedAt,
	}
}

// newListEntriesResponse builds the listing response including both trend
// projections over the page.
func newListEntriesResponse(page *service.EntryPage) ListEntriesResponse {
	resp := ListEntriesResponse{
		Total:         page.Total,
		Limit:         page.Limit,
		Offset:        page.Offset,
		Entries:       make([]EntryResponse, 0, len(page.Entries)),
		OriginalTrend: make([]TrendProjection, 0, len(page.Entries)),
		MultiTrend:    make([]MultiTrendProjection, 0, len(page.Entries)),
	}
	for _, entry := range page.Entries {
		resp.Entries = append(resp.Entries, newEntryResponse(entry))
		resp.OriginalTrend = append(resp.OriginalTrend, TrendProjection{
			CreatedAt: entry.CreatedAt,
			Score:     entry.EmotionScore,
		})
		resp.MultiTrend = append(resp.MultiTrend, MultiTrendProjection{
			CreatedAt: entry.CreatedAt,
			Emotions:  entry.Emotions,
		})
	}
	return resp
}
