package classification

import (
	"math"
	"sort"

	"github.com/phrazzld/moodlog-api/internal/domain"
)

// RawScore is one label/probability pair as produced by a classifier
// backend, with the score still in [0,1].
type RawScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Normalize converts a raw classifier distribution into the canonical form:
// probabilities scaled to percentages, rounded to two decimals, and sorted
// descending by score. An empty distribution yields the neutral/50 default
// so callers always receive a usable top emotion.
func Normalize(raw []RawScore) *Result {
	distribution := make([]domain.EmotionScore, 0, len(raw))
	for _, r := range raw {
		distribution = append(distribution, domain.EmotionScore{
			Label: r.Label,
			Score: math.Round(r.Score*100*100) / 100,
		})
	}

	sort.SliceStable(distribution, func(i, j int) bool {
		return distribution[i].Score > distribution[j].Score
	})

	if len(distribution) == 0 {
		return &Result{
			Label:        domain.NeutralLabel,
			Score:        50.0,
			Distribution: []domain.EmotionScore{},
		}
	}

	top := distribution[0]
	return &Result{
		Label:        top.Label,
		Score:        top.Score,
		Distribution: distribution,
	}
}
