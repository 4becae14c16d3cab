package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/moodlog-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// It handles domain validation and password hashing internally.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetForUpdate retrieves a user by ID while taking a row-level write
	// lock (SELECT ... FOR UPDATE). It is only meaningful on a store bound
	// to a transaction via WithTx; the lock serializes the quota
	// check->insert->increment sequence per user.
	// Returns ErrUserNotFound if the user does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// SaveQuota writes the monthly usage counter and its reset anchor in a
	// single statement. It is the only way the pair is persisted, so the
	// calendar-month reset is atomic.
	// Returns ErrUserNotFound if the user does not exist.
	SaveQuota(ctx context.Context, id uuid.UUID, entriesThisMonth int, lastResetAt time.Time) error

	// IncrementUsage adds one to the user's monthly usage counter. Callers
	// must invoke it only after the corresponding entry insert has been
	// issued on the same transaction.
	// Returns ErrUserNotFound if the user does not exist.
	IncrementUsage(ctx context.Context, id uuid.UUID) error

	// UpdateTier switches the user's subscription tier.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateTier(ctx context.Context, id uuid.UUID, tier domain.Tier) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
