package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	distribution := []EmotionScore{
		{Label: "joy", Score: 90.0},
		{Label: "anger", Score: 10.0},
	}

	t.Run("valid entry", func(t *testing.T) {
		t.Parallel()

		entry, err := NewEntry(userID, "I feel great today", "joy", 90.0, distribution)
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, userID, entry.UserID)
		assert.Equal(t, "joy", entry.EmotionLabel)
		assert.Equal(t, 90.0, entry.EmotionScore)
		assert.False(t, entry.CreatedAt.IsZero())
	})

	t.Run("content is trimmed", func(t *testing.T) {
		t.Parallel()

		entry, err := NewEntry(userID, "  some thoughts  ", "joy", 90.0, distribution)
		require.NoError(t, err)
		assert.Equal(t, "some thoughts", entry.Content)
	})

	t.Run("whitespace-only content rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewEntry(userID, "   \t\n ", "joy", 90.0, distribution)
		assert.ErrorIs(t, err, ErrEmptyContent)
	})

	t.Run("missing user rejected", func(t *testing.T) {
		t.Parallel()

		_, err := NewEntry(uuid.Nil, "content", "joy", 90.0, distribution)
		assert.ErrorIs(t, err, ErrEmptyEntryUserID)
	})

	t.Run("unsorted distribution rejected", func(t *testing.T) {
		t.Parallel()

		unsorted := []EmotionScore{
			{Label: "anger", Score: 10.0},
			{Label: "joy", Score: 90.0},
		}
		_, err := NewEntry(userID, "content", "anger", 10.0, unsorted)
		assert.ErrorIs(t, err, ErrUnsortedDistribution)
	})

	t.Run("top emotion must match first distribution element", func(t *testing.T) {
		t.Parallel()

		_, err := NewEntry(userID, "content", "anger", 10.0, distribution)
		assert.ErrorIs(t, err, ErrTopEmotionMismatch)
	})

	t.Run("empty distribution is allowed", func(t *testing.T) {
		t.Parallel()

		entry, err := NewEntry(userID, "content", NeutralLabel, 50.0, nil)
		require.NoError(t, err)
		assert.Empty(t, entry.Emotions)
	})
}

func TestEmotionEmoji(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "😊", EmotionEmoji("joy"))
	assert.Equal(t, "😐", EmotionEmoji("neutral"))
	assert.Equal(t, "❓", EmotionEmoji("confusion"))
}
