package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/moodlog-api/internal/domain"
	"github.com/phrazzld/moodlog-api/internal/platform/logger"
	"github.com/phrazzld/moodlog-api/internal/store"
)

// QuotaTracker owns the lazy monthly-reset logic for entry quotas. There is
// no scheduled job: staleness is detected whenever usage is read, and the
// counter/anchor pair is persisted in a single write. Callers that need the
// result to hold across a check->insert->increment sequence must run the
// tracker against a transaction-bound store holding the user's row lock.
type QuotaTracker struct {
	users  store.UserStore
	logger *slog.Logger
	now    func() time.Time // Injectable for testing
}

// NewQuotaTracker creates a QuotaTracker over the given user store.
func NewQuotaTracker(users store.UserStore, log *slog.Logger) *QuotaTracker {
	if log == nil {
		log = slog.Default()
	}
	return &QuotaTracker{
		users:  users,
		logger: log.With(slog.String("component", "quota_tracker")),
		now:    time.Now,
	}
}

// WithTx returns a tracker bound to the given store, typically a
// transaction-bound UserStore. The clock carries over.
func (t *QuotaTracker) WithTx(users store.UserStore) *QuotaTracker {
	return &QuotaTracker{
		users:  users,
		logger: t.logger,
		now:    t.now,
	}
}

// Peek returns the usage count the user effectively has right now: the
// stored counter, or zero when the stored window is stale. It never writes,
// so it is safe to call without holding the user's row lock. Persisting the
// reset is the job of Usage under the lock.
func (t *QuotaTracker) Peek(user *domain.User) int {
	if user.QuotaStale(t.now()) {
		return 0
	}
	return user.EntriesThisMonth
}

// Usage returns the user's current monthly usage count, resetting it first
// if the stored window belongs to an earlier calendar month or was never
// anchored. The reset mutates the passed user and persists counter and
// anchor atomically; within one month the operation is idempotent and the
// counter never decreases. Callers must hold the user's row lock: an
// unlocked reset write can race a concurrent increment and lose it.
func (t *QuotaTracker) Usage(ctx context.Context, user *domain.User) (int, error) {
	log := logger.FromContextOrDefault(ctx, t.logger)
	now := t.now()

	if !user.QuotaStale(now) {
		return user.EntriesThisMonth, nil
	}

	log.Debug("monthly quota window rolled over, resetting counter",
		slog.String("user_id", user.ID.String()),
		slog.Time("last_reset_at", derefTime(user.LastResetAt)))

	user.ResetQuota(now)
	if err := t.users.SaveQuota(ctx, user.ID, user.EntriesThisMonth, *user.LastResetAt); err != nil {
		return 0, NewJournalServiceError("quota_reset", "failed to persist quota reset", err)
	}

	return user.EntriesThisMonth, nil
}

// Check compares usage against the plan's monthly ceiling and returns a
// *QuotaExceededError when the ceiling is reached. Unbounded plans never
// exceed.
func (t *QuotaTracker) Check(usage int, plan domain.Plan) error {
	if plan.MaxEntries.Reached(usage) {
		return &QuotaExceededError{
			Limit:   plan.MaxEntries.Value(),
			Current: usage,
		}
	}
	return nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
