package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/moodlog-api/internal/classification"
	"github.com/phrazzld/moodlog-api/internal/domain"
	"github.com/phrazzld/moodlog-api/internal/store"
)

// fakeUserStore is an in-memory store.UserStore. All methods copy on read so
// callers mutate their own view, like rows scanned from a database.
type fakeUserStore struct {
	mu             sync.Mutex
	users          map[uuid.UUID]*domain.User
	saveQuotaCalls int
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
	for _, u := range users {
		copied := *u
		s.users[u.ID] = &copied
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	copied := *user
	s.users[user.ID] = &copied
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *fakeUserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	// Row locking is provided by the serialized transaction runner in tests.
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(id)
}

func (s *fakeUserStore) getLocked(id uuid.UUID) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *u
	if u.LastResetAt != nil {
		t := *u.LastResetAt
		copied.LastResetAt = &t
	}
	return &copied, nil
}

func (s *fakeUserStore) SaveQuota(
	ctx context.Context,
	id uuid.UUID,
	entriesThisMonth int,
	lastResetAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.EntriesThisMonth = entriesThisMonth
	u.LastResetAt = &lastResetAt
	s.saveQuotaCalls++
	return nil
}

func (s *fakeUserStore) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.EntriesThisMonth++
	return nil
}

func (s *fakeUserStore) UpdateTier(ctx context.Context, id uuid.UUID, tier domain.Tier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Tier = tier
	return nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// counter returns the stored usage counter for assertions.
func (s *fakeUserStore) counter(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[id].EntriesThisMonth
}

// fakeEntryStore is an in-memory store.EntryStore.
type fakeEntryStore struct {
	mu       sync.Mutex
	entries  []*domain.Entry
	failWith error
	lastOpts store.EntryListOptions
}

func (s *fakeEntryStore) Create(ctx context.Context, entry *domain.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return s.failWith
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *fakeEntryStore) List(
	ctx context.Context,
	userID uuid.UUID,
	opts store.EntryListOptions,
) ([]*domain.Entry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastOpts = opts

	matched := []*domain.Entry{}
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		if opts.Since != nil && e.CreatedAt.Before(*opts.Since) {
			continue
		}
		if opts.StartDate != nil && e.CreatedAt.Before(*opts.StartDate) {
			continue
		}
		if opts.EndDate != nil && e.CreatedAt.After(*opts.EndDate) {
			continue
		}
		matched = append(matched, e)
	}

	total := len(matched)
	if opts.Offset < len(matched) {
		matched = matched[opts.Offset:]
	} else {
		matched = nil
	}
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, total, nil
}

func (s *fakeEntryStore) AllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []*domain.Entry{}
	for _, e := range s.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeEntryStore) WithTx(tx *sql.Tx) store.EntryStore { return s }

func (s *fakeEntryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// fakeClassifier returns a fixed result or error and counts invocations.
type fakeClassifier struct {
	mu     sync.Mutex
	result *classification.Result
	err    error
	calls  int
}

func (c *fakeClassifier) Classify(ctx context.Context, text string) (*classification.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func (c *fakeClassifier) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func joyResult() *classification.Result {
	return &classification.Result{
		Label: "joy",
		Score: 90.0,
		Distribution: []domain.EmotionScore{
			{Label: "joy", Score: 90.0},
			{Label: "anger", Score: 10.0},
		},
	}
}

// serialTxRunner stands in for store.RunInTransaction: it serializes
// transaction functions with a mutex and passes a nil *sql.Tx, which the
// fake stores ignore.
func serialTxRunner() txRunner {
	var mu sync.Mutex
	return func(ctx context.Context, db *sql.DB, fn store.TxFn) error {
		mu.Lock()
		defer mu.Unlock()
		return fn(ctx, nil)
	}
}
