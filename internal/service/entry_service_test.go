package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/moodlog-api/internal/classification"
	"github.com/phrazzld/moodlog-api/internal/domain"
	"github.com/phrazzld/moodlog-api/internal/store"
)

// newTestJournalService wires a journal service around fakes, with a frozen
// clock and a serialized in-memory transaction runner.
func newTestJournalService(
	users *fakeUserStore,
	entries *fakeEntryStore,
	classifier *fakeClassifier,
	now time.Time,
) *journalServiceImpl {
	svc, err := NewJournalService(nil, users, entries, classifier, nil)
	if err != nil {
		panic(err)
	}

	impl := svc.(*journalServiceImpl)
	impl.now = func() time.Time { return now }
	impl.quota.now = impl.now
	impl.runTx = serialTxRunner()
	return impl
}

func TestNewJournalService(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	entries := &fakeEntryStore{}
	classifier := &fakeClassifier{result: joyResult()}

	tests := []struct {
		name        string
		users       store.UserStore
		entries     store.EntryStore
		classifier  classification.Classifier
		expectError bool
	}{
		{name: "all dependencies", users: users, entries: entries, classifier: classifier},
		{name: "nil user store", entries: entries, classifier: classifier, expectError: true},
		{name: "nil entry store", users: users, classifier: classifier, expectError: true},
		{name: "nil classifier", users: users, entries: entries, expectError: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewJournalService(nil, tc.users, tc.entries, tc.classifier, nil)
			if tc.expectError {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateEntry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	reset := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	t.Run("happy path stores entry and charges quota", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 0, &reset)
		users := newFakeUserStore(user)
		entries := &fakeEntryStore{}
		classifier := &fakeClassifier{result: joyResult()}
		svc := newTestJournalService(users, entries, classifier, now)

		entry, err := svc.CreateEntry(context.Background(), user.ID, "I feel great today")
		require.NoError(t, err)

		assert.Equal(t, "joy", entry.EmotionLabel)
		assert.Equal(t, 90.0, entry.EmotionScore)
		assert.Equal(t, "I feel great today", entry.Content)
		assert.Equal(t, 1, entries.count())
		assert.Equal(t, 1, users.counter(user.ID))
	})

	t.Run("content is trimmed before classification", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 0, &reset)
		users := newFakeUserStore(user)
		svc := newTestJournalService(users, &fakeEntryStore{}, &fakeClassifier{result: joyResult()}, now)

		entry, err := svc.CreateEntry(context.Background(), user.ID, "  late night thoughts  ")
		require.NoError(t, err)
		assert.Equal(t, "late night thoughts", entry.Content)
	})

	t.Run("blank content rejected before the classifier", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 0, &reset)
		classifier := &fakeClassifier{result: joyResult()}
		svc := newTestJournalService(newFakeUserStore(user), &fakeEntryStore{}, classifier, now)

		_, err := svc.CreateEntry(context.Background(), user.ID, "   \n\t ")
		assert.ErrorIs(t, err, domain.ErrEmptyContent)
		assert.Equal(t, 0, classifier.callCount())
	})

	t.Run("exhausted quota rejected before the classifier", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 5, &reset)
		users := newFakeUserStore(user)
		entries := &fakeEntryStore{}
		classifier := &fakeClassifier{result: joyResult()}
		svc := newTestJournalService(users, entries, classifier, now)

		_, err := svc.CreateEntry(context.Background(), user.ID, "one more")

		var quotaErr *QuotaExceededError
		require.ErrorAs(t, err, &quotaErr)
		assert.Equal(t, 5, quotaErr.Limit)
		assert.Equal(t, 5, quotaErr.Current)
		assert.Equal(t, 0, classifier.callCount())
		assert.Equal(t, 0, entries.count())
	})

	t.Run("stale window resets before the quota check", func(t *testing.T) {
		t.Parallel()

		// Counter exhausted last month; the new month grants a fresh window.
		lastMonth := time.Date(2026, time.July, 3, 0, 0, 0, 0, time.UTC)
		user := testUser(domain.TierFree, 5, &lastMonth)
		users := newFakeUserStore(user)
		svc := newTestJournalService(users, &fakeEntryStore{}, &fakeClassifier{result: joyResult()}, now)

		_, err := svc.CreateEntry(context.Background(), user.ID, "new month, new me")
		require.NoError(t, err)
		assert.Equal(t, 1, users.counter(user.ID))
	})

	t.Run("quota exhausted last month does not block a user without an anchor", func(t *testing.T) {
		t.Parallel()

		// A stored row with no reset anchor must behave like any other
		// stale window: the counter reads as spent capacity from a window
		// that no longer exists.
		user := testUser(domain.TierFree, 5, nil)
		users := newFakeUserStore(user)
		entries := &fakeEntryStore{}
		svc := newTestJournalService(users, entries, &fakeClassifier{result: joyResult()}, now)

		_, err := svc.CreateEntry(context.Background(), user.ID, "finally writing again")
		require.NoError(t, err)

		assert.Equal(t, 1, entries.count())
		assert.Equal(t, 1, users.counter(user.ID))

		stored, err := users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.LastResetAt)
		assert.Equal(t, now, *stored.LastResetAt)
	})

	t.Run("pre-check on a stale window never writes", func(t *testing.T) {
		t.Parallel()

		// The reset must only be persisted under the row lock. If the
		// create aborts before the transaction, the stored counter and
		// anchor stay untouched.
		lastMonth := time.Date(2026, time.July, 3, 0, 0, 0, 0, time.UTC)
		user := testUser(domain.TierFree, 5, &lastMonth)
		users := newFakeUserStore(user)
		classifier := &fakeClassifier{err: classification.ErrUnavailable}
		svc := newTestJournalService(users, &fakeEntryStore{}, classifier, now)

		_, err := svc.CreateEntry(context.Background(), user.ID, "doomed entry")
		assert.ErrorIs(t, err, classification.ErrUnavailable)

		assert.Equal(t, 0, users.saveQuotaCalls)
		assert.Equal(t, 5, users.counter(user.ID))

		stored, err := users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.LastResetAt)
		assert.Equal(t, lastMonth, *stored.LastResetAt)
	})

	t.Run("classifier failure rejects the write entirely", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 2, &reset)
		users := newFakeUserStore(user)
		entries := &fakeEntryStore{}
		classifier := &fakeClassifier{err: classification.ErrUnavailable}
		svc := newTestJournalService(users, entries, classifier, now)

		_, err := svc.CreateEntry(context.Background(), user.ID, "some feelings")

		assert.ErrorIs(t, err, classification.ErrUnavailable)
		assert.Equal(t, 0, entries.count())
		assert.Equal(t, 2, users.counter(user.ID))
	})

	t.Run("failed insert does not charge quota", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 0, &reset)
		users := newFakeUserStore(user)
		entries := &fakeEntryStore{failWith: errors.New("disk full")}
		svc := newTestJournalService(users, entries, &fakeClassifier{result: joyResult()}, now)

		_, err := svc.CreateEntry(context.Background(), user.ID, "content")
		require.Error(t, err)
		assert.Equal(t, 0, users.counter(user.ID))
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		svc := newTestJournalService(newFakeUserStore(), &fakeEntryStore{}, &fakeClassifier{result: joyResult()}, now)
		_, err := svc.CreateEntry(context.Background(), uuid.New(), "content")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("concurrent creates never overshoot the limit", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 0, &reset)
		users := newFakeUserStore(user)
		entries := &fakeEntryStore{}
		svc := newTestJournalService(users, entries, &fakeClassifier{result: joyResult()}, now)

		const writers = 20
		var wg sync.WaitGroup
		errs := make(chan error, writers)

		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := svc.CreateEntry(context.Background(), user.ID, "racing entry")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		var created, rejected int
		for err := range errs {
			if err == nil {
				created++
				continue
			}
			var quotaErr *QuotaExceededError
			require.ErrorAs(t, err, &quotaErr)
			rejected++
		}

		assert.Equal(t, 5, created)
		assert.Equal(t, writers-5, rejected)
		assert.Equal(t, 5, entries.count())
		assert.Equal(t, 5, users.counter(user.ID))
	})
}

func TestListEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	reset := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	t.Run("free tier gets a seven-day window", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 0, &reset)
		entries := &fakeEntryStore{}
		svc := newTestJournalService(newFakeUserStore(user), entries, &fakeClassifier{result: joyResult()}, now)

		_, err := svc.ListEntries(context.Background(), user.ID, ListRequest{Limit: 10})
		require.NoError(t, err)

		require.NotNil(t, entries.lastOpts.Since)
		assert.Equal(t, now.AddDate(0, 0, -7), *entries.lastOpts.Since)
	})

	t.Run("enterprise tier has no window", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierEnterprise, 0, &reset)
		entries := &fakeEntryStore{}
		svc := newTestJournalService(newFakeUserStore(user), entries, &fakeClassifier{result: joyResult()}, now)

		_, err := svc.ListEntries(context.Background(), user.ID, ListRequest{Limit: 10})
		require.NoError(t, err)
		assert.Nil(t, entries.lastOpts.Since)
	})

	t.Run("window filters old entries but total counts the rest", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 0, &reset)
		entries := &fakeEntryStore{}
		old := &domain.Entry{
			ID: uuid.New(), UserID: user.ID, Content: "old",
			EmotionLabel: "joy", EmotionScore: 80, CreatedAt: now.AddDate(0, 0, -10),
		}
		recent := &domain.Entry{
			ID: uuid.New(), UserID: user.ID, Content: "recent",
			EmotionLabel: "joy", EmotionScore: 90, CreatedAt: now.AddDate(0, 0, -1),
		}
		entries.entries = []*domain.Entry{old, recent}

		svc := newTestJournalService(newFakeUserStore(user), entries, &fakeClassifier{result: joyResult()}, now)

		page, err := svc.ListEntries(context.Background(), user.ID, ListRequest{Limit: 10})
		require.NoError(t, err)

		assert.Equal(t, 1, page.Total)
		require.Len(t, page.Entries, 1)
		assert.Equal(t, "recent", page.Entries[0].Content)
	})

	t.Run("explicit date filters pass through", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierEnterprise, 0, &reset)
		entries := &fakeEntryStore{}
		svc := newTestJournalService(newFakeUserStore(user), entries, &fakeClassifier{result: joyResult()}, now)

		start := now.AddDate(0, 0, -14)
		end := now.AddDate(0, 0, -7)
		_, err := svc.ListEntries(context.Background(), user.ID, ListRequest{
			Limit:     10,
			StartDate: &start,
			EndDate:   &end,
		})
		require.NoError(t, err)

		require.NotNil(t, entries.lastOpts.StartDate)
		require.NotNil(t, entries.lastOpts.EndDate)
		assert.Equal(t, start, *entries.lastOpts.StartDate)
		assert.Equal(t, end, *entries.lastOpts.EndDate)
	})
}

func TestStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	reset := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	user := testUser(domain.TierFree, 0, &reset)

	entries := &fakeEntryStore{}
	entries.entries = []*domain.Entry{
		{
			ID: uuid.New(), UserID: user.ID, Content: "a",
			EmotionLabel: "joy", EmotionScore: 90,
			Emotions: []domain.EmotionScore{
				{Label: "joy", Score: 90},
				{Label: "surprise", Score: 10},
			},
			CreatedAt: now.AddDate(0, 0, -1),
		},
		{
			ID: uuid.New(), UserID: user.ID, Content: "b",
			EmotionLabel: "sadness", EmotionScore: 40,
			CreatedAt: now.AddDate(0, 0, -40),
		},
	}

	svc := newTestJournalService(newFakeUserStore(user), entries, &fakeClassifier{result: joyResult()}, now)

	report, err := svc.Stats(context.Background(), user.ID)
	require.NoError(t, err)

	// Stats cover the full ledger, not the listing window.
	assert.Equal(t, 2, report.TotalEntries)
	assert.Equal(t, 1, report.MonthlyEntries)
	assert.Len(t, report.MoodTrend, 31)
	assert.Len(t, report.WeeklyMoodPattern, 7)
}

func TestProfile(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	reset := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	t.Run("finite plan reports remaining quota", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 3, &reset)
		svc := newTestJournalService(newFakeUserStore(user), &fakeEntryStore{}, &fakeClassifier{result: joyResult()}, now)

		info, err := svc.Profile(context.Background(), user.ID)
		require.NoError(t, err)

		assert.Equal(t, 3, info.Usage.EntriesThisMonth)
		assert.Equal(t, domain.LimitOf(5), info.Usage.MaxEntries)
		assert.Equal(t, domain.LimitOf(2), info.Usage.Remaining)
		assert.Equal(t, domain.TierFree, info.Plan.Tier)
	})

	t.Run("unbounded plan stays unbounded", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierEnterprise, 1000, &reset)
		svc := newTestJournalService(newFakeUserStore(user), &fakeEntryStore{}, &fakeClassifier{result: joyResult()}, now)

		info, err := svc.Profile(context.Background(), user.ID)
		require.NoError(t, err)

		assert.True(t, info.Usage.MaxEntries.IsUnbounded())
		assert.True(t, info.Usage.Remaining.IsUnbounded())
	})
}

func TestUpgradeSubscription(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	reset := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid tier updates the user", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 0, &reset)
		users := newFakeUserStore(user)
		svc := newTestJournalService(users, &fakeEntryStore{}, &fakeClassifier{result: joyResult()}, now)

		plan, err := svc.UpgradeSubscription(context.Background(), user.ID, "premium")
		require.NoError(t, err)
		assert.Equal(t, domain.TierPremium, plan.Tier)

		stored, err := users.GetByID(context.Background(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.TierPremium, stored.Tier)
	})

	t.Run("unknown tier rejected", func(t *testing.T) {
		t.Parallel()

		user := testUser(domain.TierFree, 0, &reset)
		svc := newTestJournalService(newFakeUserStore(user), &fakeEntryStore{}, &fakeClassifier{result: joyResult()}, now)

		_, err := svc.UpgradeSubscription(context.Background(), user.ID, "platinum")
		assert.ErrorIs(t, err, domain.ErrInvalidTier)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		svc := newTestJournalService(newFakeUserStore(), &fakeEntryStore{}, &fakeClassifier{result: joyResult()}, now)
		_, err := svc.UpgradeSubscription(context.Background(), uuid.New(), "premium")
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
