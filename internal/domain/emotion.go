package domain

// EmotionScore is one element of an entry's emotion distribution:
// a label and its percentage score in [0,100].
type EmotionScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NeutralLabel is the fallback label used when the classifier returns an
// empty distribution.
const NeutralLabel = "neutral"

// emotionEmojis maps classifier labels to their display emoji.
var emotionEmojis = map[string]string{
	"joy":      "😊",
	"sadness":  "😢",
	"anger":    "😠",
	"fear":     "😨",
	"disgust":  "🤢",
	"surprise": "😮",
	"neutral":  "😐",
}

// EmotionEmoji returns the display emoji for an emotion label,
// or "❓" for labels outside the known set.
func EmotionEmoji(label string) string {
	if emoji, ok := emotionEmojis[label]; ok {
		return emoji
	}
	return "❓"
}
