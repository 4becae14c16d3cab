package api

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/moodlog-api/internal/analytics"
	"github.com/phrazzld/moodlog-api/internal/domain"
	"github.com/phrazzld/moodlog-api/internal/service"
	"github.com/phrazzld/moodlog-api/internal/service/auth"
	"github.com/phrazzld/moodlog-api/internal/store"
)

// fakeJournalService scripts the journal service for handler tests.
type fakeJournalService struct {
	createEntryFn func(ctx context.Context, userID uuid.UUID, content string) (*domain.Entry, error)
	listEntriesFn func(ctx context.Context, userID uuid.UUID, req service.ListRequest) (*service.EntryPage, error)
	statsFn       func(ctx context.Context, userID uuid.UUID) (*analytics.Report, error)
	profileFn     func(ctx context.Context, userID uuid.UUID) (*service.ProfileInfo, error)
	upgradeFn     func(ctx context.Context, userID uuid.UUID, tierName string) (domain.Plan, error)
}

var _ service.JournalService = (*fakeJournalService)(nil)

func (f *fakeJournalService) CreateEntry(
	ctx context.Context,
	userID uuid.UUID,
	content string,
) (*domain.Entry, error) {
	return f.createEntryFn(ctx, userID, content)
}

func (f *fakeJournalService) ListEntries(
	ctx context.Context,
	userID uuid.UUID,
	req service.ListRequest,
) (*service.EntryPage, error) {
	return f.listEntriesFn(ctx, userID, req)
}

func (f *fakeJournalService) Stats(ctx context.Context, userID uuid.UUID) (*analytics.Report, error) {
	return f.statsFn(ctx, userID)
}

func (f *fakeJournalService) Profile(ctx context.Context, userID uuid.UUID) (*service.ProfileInfo, error) {
	return f.profileFn(ctx, userID)
}

func (f *fakeJournalService) UpgradeSubscription(
	ctx context.Context,
	userID uuid.UUID,
	tierName string,
) (domain.Plan, error) {
	return f.upgradeFn(ctx, userID, tierName)
}

// fakeUserStore holds a single scripted user for auth handler tests.
type fakeUserStore struct {
	user      *domain.User
	createErr error
}

var _ store.UserStore = (*fakeUserStore)(nil)

func (s *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	s.user = user
	return nil
}

func (s *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, store.ErrUserNotFound
	}
	return s.user, nil
}

func (s *fakeUserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.GetByID(ctx, id)
}

func (s *fakeUserStore) SaveQuota(ctx context.Context, id uuid.UUID, entriesThisMonth int, lastResetAt time.Time) error {
	return nil
}

func (s *fakeUserStore) IncrementUsage(ctx context.Context, id uuid.UUID) error { return nil }

func (s *fakeUserStore) UpdateTier(ctx context.Context, id uuid.UUID, tier domain.Tier) error {
	return nil
}

func (s *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore { return s }

// fakeJWTService issues predictable tokens.
type fakeJWTService struct {
	token       string
	generateErr error
}

var _ auth.JWTService = (*fakeJWTService)(nil)

func (s *fakeJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if s.generateErr != nil {
		return "", s.generateErr
	}
	return s.token, nil
}

func (s *fakeJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	return nil, errors.New("not used in handler tests")
}

// fakePasswordVerifier accepts passwords matching the fake store's hashing.
type fakePasswordVerifier struct{}

var _ auth.PasswordVerifier = (*fakePasswordVerifier)(nil)

func (fakePasswordVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errors.New("password mismatch")
	}
	return nil
}
