package service

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/moodlog-api/internal/analytics"
	"github.com/phrazzld/moodlog-api/internal/classification"
	"github.com/phrazzld/moodlog-api/internal/domain"
	"github.com/phrazzld/moodlog-api/internal/platform/logger"
	"github.com/phrazzld/moodlog-api/internal/store"
)

// ListRequest carries the caller's listing parameters. StartDate and
// EndDate are optional explicit filters; the plan's history window is
// applied on top of them, never instead of them.
type ListRequest struct {
	Limit     int
	Offset    int
	StartDate *time.Time
	EndDate   *time.Time
}

// EntryPage is one page of a user's entries plus the total count matching
// the filters independent of pagination.
type EntryPage struct {
	Entries []*domain.Entry
	Total   int
	Limit   int
	Offset  int
}

// UsageSummary describes where the user stands against their monthly quota.
type UsageSummary struct {
	EntriesThisMonth int
	MaxEntries       domain.Limit
	Remaining        domain.Limit
}

// ProfileInfo bundles everything the profile endpoint serves.
type ProfileInfo struct {
	User  *domain.User
	Plan  domain.Plan
	Usage UsageSummary
}

// JournalService provides the journal's core operations: writing entries
// under quota, reading them through the plan's history window, and
// aggregate statistics.
type JournalService interface {
	// CreateEntry classifies the content and appends a new entry, charging
	// one unit of the user's monthly quota. The quota check, entry insert
	// and usage increment run in a single transaction under a row lock on
	// the user, so concurrent creates can never overshoot the limit.
	// Returns domain.ErrEmptyContent for blank content, a
	// *QuotaExceededError when the quota is exhausted, and
	// classification.ErrUnavailable (wrapped) when the classifier fails;
	// no entry is written in any failure case.
	CreateEntry(ctx context.Context, userID uuid.UUID, content string) (*domain.Entry, error)

	// ListEntries returns one page of the user's entries, newest first,
	// restricted to the plan's history window intersected with the
	// request's date filters.
	ListEntries(ctx context.Context, userID uuid.UUID, req ListRequest) (*EntryPage, error)

	// Stats computes the analytics report over the user's full history.
	Stats(ctx context.Context, userID uuid.UUID) (*analytics.Report, error)

	// Profile returns the user together with their plan and quota usage.
	Profile(ctx context.Context, userID uuid.UUID) (*ProfileInfo, error)

	// UpgradeSubscription switches the user to the named tier and returns
	// the new plan. Returns domain.ErrInvalidTier for names outside the
	// catalog.
	UpgradeSubscription(ctx context.Context, userID uuid.UUID, tierName string) (domain.Plan, error)
}

// txRunner abstracts store.RunInTransaction so service tests can substitute
// a serialized fake that has no database behind it.
type txRunner func(ctx context.Context, db *sql.DB, fn store.TxFn) error

// journalServiceImpl implements the JournalService interface.
type journalServiceImpl struct {
	db         *sql.DB
	users      store.UserStore
	entries    store.EntryStore
	classifier classification.Classifier
	quota      *QuotaTracker
	logger     *slog.Logger
	now        func() time.Time // Injectable for testing
	runTx      txRunner
}

var _ JournalService = (*journalServiceImpl)(nil)

// NewJournalService creates a new JournalService.
// It returns an error if any of the required dependencies are nil.
func NewJournalService(
	db *sql.DB,
	users store.UserStore,
	entries store.EntryStore,
	classifier classification.Classifier,
	log *slog.Logger,
) (JournalService, error) {
	if users == nil {
		return nil, NewJournalServiceError("init", "user store cannot be nil", domain.ErrValidation)
	}
	if entries == nil {
		return nil, NewJournalServiceError("init", "entry store cannot be nil", domain.ErrValidation)
	}
	if classifier == nil {
		return nil, NewJournalServiceError("init", "classifier cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &journalServiceImpl{
		db:         db,
		users:      users,
		entries:    entries,
		classifier: classifier,
		quota:      NewQuotaTracker(users, log),
		logger:     log.With(slog.String("component", "journal_service")),
		now:        time.Now,
		runTx:      store.RunInTransaction,
	}, nil
}

// CreateEntry implements JournalService.CreateEntry.
func (s *journalServiceImpl) CreateEntry(
	ctx context.Context,
	userID uuid.UUID,
	content string,
) (*domain.Entry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyContent
	}

	// Advisory pre-check outside the transaction. It cannot be trusted as
	// the final word, but it avoids paying for a classifier round trip when
	// the user is already over quota. The check is strictly read-only: a
	// reset write here would run outside the row lock and could clobber a
	// concurrent create's increment.
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	plan := domain.LookupPlan(user.Tier)
	if err := s.quota.Check(s.quota.Peek(user), plan); err != nil {
		return nil, err
	}

	// The classifier call happens before the transaction opens: it can take
	// seconds, and a row lock must never wait on an external service. A
	// failed classification rejects the whole write.
	result, err := s.classifier.Classify(ctx, content)
	if err != nil {
		log.Warn("classification failed, rejecting entry",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	var entry *domain.Entry
	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txUsers := s.users.WithTx(tx)
		txEntries := s.entries.WithTx(tx)

		// Lock the user row. Every concurrent create for this user queues
		// here, which makes the re-check below authoritative.
		lockedUser, err := txUsers.GetForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		txQuota := s.quota.WithTx(txUsers)
		usage, err := txQuota.Usage(ctx, lockedUser)
		if err != nil {
			return err
		}
		if err := txQuota.Check(usage, domain.LookupPlan(lockedUser.Tier)); err != nil {
			return err
		}

		entry, err = domain.NewEntry(userID, content, result.Label, result.Score, result.Distribution)
		if err != nil {
			return err
		}

		if err := txEntries.Create(ctx, entry); err != nil {
			return err
		}
		return txUsers.IncrementUsage(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	log.Debug("entry created",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", entry.ID.String()),
		slog.String("emotion_label", entry.EmotionLabel))

	return entry, nil
}

// ListEntries implements JournalService.ListEntries.
func (s *journalServiceImpl) ListEntries(
	ctx context.Context,
	userID uuid.UUID,
	req ListRequest,
) (*EntryPage, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	opts := store.EntryListOptions{
		Limit:     req.Limit,
		Offset:    req.Offset,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	// The history window is a query-time view, not a retention policy:
	// entries older than the window stay in the ledger and still feed
	// analytics.
	plan := domain.LookupPlan(user.Tier)
	if !plan.HistoryDays.IsUnbounded() {
		cutoff := s.now().UTC().AddDate(0, 0, -plan.HistoryDays.Value())
		opts.Since = &cutoff
	}

	entries, total, err := s.entries.List(ctx, userID, opts)
	if err != nil {
		return nil, err
	}

	return &EntryPage{
		Entries: entries,
		Total:   total,
		Limit:   req.Limit,
		Offset:  req.Offset,
	}, nil
}

// Stats implements JournalService.Stats.
func (s *journalServiceImpl) Stats(ctx context.Context, userID uuid.UUID) (*analytics.Report, error) {
	entries, err := s.entries.AllForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	report := analytics.BuildReport(entries, s.now())
	return &report, nil
}

// Profile implements JournalService.Profile.
func (s *journalServiceImpl) Profile(ctx context.Context, userID uuid.UUID) (*ProfileInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Read-only view; the persisted reset happens on the next locked create.
	usage := s.quota.Peek(user)

	plan := domain.LookupPlan(user.Tier)
	return &ProfileInfo{
		User: user,
		Plan: plan,
		Usage: UsageSummary{
			EntriesThisMonth: usage,
			MaxEntries:       plan.MaxEntries,
			Remaining:        remaining(plan.MaxEntries, usage),
		},
	}, nil
}

// UpgradeSubscription implements JournalService.UpgradeSubscription.
func (s *journalServiceImpl) UpgradeSubscription(
	ctx context.Context,
	userID uuid.UUID,
	tierName string,
) (domain.Plan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tier, err := domain.ParseTier(tierName)
	if err != nil {
		return domain.Plan{}, err
	}

	if err := s.users.UpdateTier(ctx, userID, tier); err != nil {
		return domain.Plan{}, err
	}

	log.Info("subscription changed",
		slog.String("user_id", userID.String()),
		slog.String("tier", string(tier)))

	return domain.LookupPlan(tier), nil
}

// remaining computes how much quota is left; never negative for finite
// limits, unlimited stays unlimited.
func remaining(max domain.Limit, usage int) domain.Limit {
	if max.IsUnbounded() {
		return domain.Unlimited()
	}
	left := max.Value() - usage
	if left < 0 {
		left = 0
	}
	return domain.LimitOf(left)
}
