package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Entry
var (
	ErrEmptyEntryID        = errors.New("entry ID cannot be empty")
	ErrEmptyEntryUserID    = errors.New("entry user ID cannot be empty")
	ErrUnsortedDistribution = errors.New("emotion distribution must be sorted descending by score")
	ErrTopEmotionMismatch   = errors.New("top emotion must equal the first distribution element")
)

// Entry represents one journaled submission together with the emotion data
// derived from it. Entries are immutable once created: the ledger is
// append-only and no core operation edits or deletes them.
type Entry struct {
	ID           uuid.UUID      `json:"id"`
	UserID       uuid.UUID      `json:"user_id"`
	Content      string         `json:"content"`
	EmotionLabel string         `json:"emotion_label"`
	EmotionScore float64        `json:"emotion_score"`
	Emotions     []EmotionScore `json:"emotions"`
	CreatedAt    time.Time      `json:"created_at"`
}

// NewEntry creates a new Entry owned by userID with the classified emotion
// data. It generates the entry ID and creation timestamp and validates the
// distribution invariants. Returns an error if validation fails.
func NewEntry(
	userID uuid.UUID,
	content string,
	label string,
	score float64,
	emotions []EmotionScore,
) (*Entry, error) {
	entry := &Entry{
		ID:           uuid.New(),
		UserID:       userID,
		Content:      strings.TrimSpace(content),
		EmotionLabel: label,
		EmotionScore: score,
		Emotions:     emotions,
		CreatedAt:    time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks the Entry's invariants: non-empty content, a distribution
// sorted descending by score, and a top label/score that equals the first
// distribution element.
func (e *Entry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyEntryID
	}

	if e.UserID == uuid.Nil {
		return ErrEmptyEntryUserID
	}

	if strings.TrimSpace(e.Content) == "" {
		return ErrEmptyContent
	}

	for i := 1; i < len(e.Emotions); i++ {
		if e.Emotions[i].Score > e.Emotions[i-1].Score {
			return ErrUnsortedDistribution
		}
	}

	if len(e.Emotions) > 0 {
		top := e.Emotions[0]
		if e.EmotionLabel != top.Label || e.EmotionScore != top.Score {
			return ErrTopEmotionMismatch
		}
	}

	return nil
}
