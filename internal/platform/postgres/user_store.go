package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/moodlog-api/internal/domain"
	"github.com/phrazzld/moodlog-api/internal/platform/logger"
	"github.com/phrazzld/moodlog-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller, and the bcrypt cost used
// when hashing passwords on Create.
func NewPostgresUserStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

const userColumns = `id, email, hashed_password, name, subscription_tier,
		entries_this_month, last_reset_at, created_at, updated_at`

// Create implements store.UserStore.Create.
// It hashes the plaintext password with bcrypt before inserting the row.
// Returns store.ErrEmailExists on a duplicate email.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	if user.HashedPassword == "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
			return err
		}
		user.HashedPassword = string(hashed)
		user.Password = ""
	}

	query := `
		INSERT INTO users (id, email, hashed_password, name, subscription_tier,
			entries_this_month, last_reset_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Email,
		user.HashedPassword,
		user.Name,
		user.Tier,
		user.EntriesThisMonth,
		user.LastResetAt,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Warn("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("tier", string(user.Tier)))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, email))
}

// GetForUpdate implements store.UserStore.GetForUpdate.
// The FOR UPDATE lock holds until the enclosing transaction ends, which is
// what serializes concurrent quota checks for the same user.
func (s *PostgresUserStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return s.scanUser(ctx, s.db.QueryRowContext(ctx, query, id))
}

// scanUser maps a single row onto a domain.User.
func (s *PostgresUserStore) scanUser(ctx context.Context, row *sql.Row) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	var tier string
	var lastReset sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.Name,
		&tier,
		&user.EntriesThisMonth,
		&lastReset,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to scan user row", slog.String("error", err.Error()))
		return nil, err
	}

	user.Tier = domain.Tier(tier)
	if lastReset.Valid {
		t := lastReset.Time.UTC()
		user.LastResetAt = &t
	}

	return &user, nil
}

// SaveQuota implements store.UserStore.SaveQuota.
// Counter and reset anchor land in one UPDATE so the month transition can
// never be observed half-applied.
func (s *PostgresUserStore) SaveQuota(
	ctx context.Context,
	id uuid.UUID,
	entriesThisMonth int,
	lastResetAt time.Time,
) error {
	query := `
		UPDATE users
		SET entries_this_month = $1, last_reset_at = $2, updated_at = $3
		WHERE id = $4
	`
	return s.execOnUser(ctx, "save quota", query,
		entriesThisMonth, lastResetAt, time.Now().UTC(), id)
}

// IncrementUsage implements store.UserStore.IncrementUsage.
func (s *PostgresUserStore) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET entries_this_month = entries_this_month + 1, updated_at = $1
		WHERE id = $2
	`
	return s.execOnUser(ctx, "increment usage", query, time.Now().UTC(), id)
}

// UpdateTier implements store.UserStore.UpdateTier.
func (s *PostgresUserStore) UpdateTier(ctx context.Context, id uuid.UUID, tier domain.Tier) error {
	query := `
		UPDATE users
		SET subscription_tier = $1, updated_at = $2
		WHERE id = $3
	`
	return s.execOnUser(ctx, "update tier", query, tier, time.Now().UTC(), id)
}

// execOnUser runs an UPDATE targeting a single user and converts a zero
// rows-affected result into store.ErrUserNotFound.
func (s *PostgresUserStore) execOnUser(
	ctx context.Context,
	operation, query string,
	args ...any,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to "+operation,
			slog.String("error", err.Error()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()))
		return err
	}

	if rowsAffected == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

// WithTx implements store.UserStore.WithTx.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:         tx,
		bcryptCost: s.bcryptCost,
		logger:     s.logger,
	}
}
