package classification

import (
	"context"

	"github.com/phrazzld/moodlog-api/internal/domain"
)

// Result is the canonical outcome of classifying one piece of text:
// the top emotion and the full ranked distribution it heads.
type Result struct {
	// Label is the highest-scoring emotion label.
	Label string

	// Score is the top label's percentage score in [0,100].
	Score float64

	// Distribution is the full set of scores, sorted descending.
	// Its first element always equals (Label, Score).
	Distribution []domain.EmotionScore
}

// Classifier scores free text against a fixed set of emotion labels.
type Classifier interface {
	// Classify sends the text to the external classifier and returns the
	// normalized result. The call blocks for the external round trip and
	// honors the context deadline; adapters bound it with a configured
	// timeout. Any failure is reported as ErrUnavailable (possibly
	// wrapped), so callers can treat all failure modes uniformly.
	Classify(ctx context.Context, text string) (*Result, error)
}
