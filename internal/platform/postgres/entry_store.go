package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/moodlog-api/internal/domain"
	"github.com/phrazzld/moodlog-api/internal/platform/logger"
	"github.com/phrazzld/moodlog-api/internal/store"
)

// PostgresEntryStore implements the store.EntryStore interface
// using a PostgreSQL database as the storage backend.
type PostgresEntryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEntryStore creates a new PostgreSQL implementation of the
// EntryStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresEntryStore(db store.DBTX, logger *slog.Logger) *PostgresEntryStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresEntryStore{
		db:     db,
		logger: logger.With(slog.String("component", "entry_store")),
	}
}

// Ensure PostgresEntryStore implements store.EntryStore interface
var _ store.EntryStore = (*PostgresEntryStore)(nil)

// Create implements store.EntryStore.Create.
// It appends a new entry row, serializing the emotion distribution to JSONB.
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresEntryStore) Create(ctx context.Context, entry *domain.Entry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("entry validation failed during create",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return err
	}

	emotions, err := json.Marshal(entry.Emotions)
	if err != nil {
		log.Error("failed to marshal emotion distribution",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO entries (id, user_id, content, emotion_label, emotion_score, emotions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.Content,
		entry.EmotionLabel,
		entry.EmotionScore,
		emotions,
		entry.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during entry creation",
				slog.String("entry_id", entry.ID.String()),
				slog.String("user_id", entry.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, entry.UserID)
		}

		log.Error("failed to create entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()),
			slog.String("user_id", entry.UserID.String()))
		return err
	}

	log.Info("entry created successfully",
		slog.String("entry_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()),
		slog.String("emotion_label", entry.EmotionLabel))
	return nil
}

// List implements store.EntryStore.List.
// It builds the WHERE clause from the history-window cutoff and the explicit
// date filters, then runs the page query and the matching count query
// against the same filter.
func (s *PostgresEntryStore) List(
	ctx context.Context,
	userID uuid.UUID,
	opts store.EntryListOptions,
) ([]*domain.Entry, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}

	filters := []string{"user_id = $1"}
	args := []any{userID}

	appendFilter := func(clause string, value any) {
		args = append(args, value)
		filters = append(filters, fmt.Sprintf(clause, len(args)))
	}

	if opts.Since != nil {
		appendFilter("created_at >= $%d", *opts.Since)
	}
	if opts.StartDate != nil {
		appendFilter("created_at >= $%d", *opts.StartDate)
	}
	if opts.EndDate != nil {
		appendFilter("created_at <= $%d", *opts.EndDate)
	}

	where := "WHERE " + strings.Join(filters, " AND ")

	countQuery := `SELECT COUNT(*) FROM entries ` + where
	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count entries",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, 0, err
	}

	pageQuery := fmt.Sprintf(`
		SELECT id, user_id, content, emotion_label, emotion_score, emotions, created_at
		FROM entries
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset)

	entries, err := s.queryEntries(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	log.Debug("listed entries",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(entries)),
		slog.Int("total", total))
	return entries, total, nil
}

// AllForUser implements store.EntryStore.AllForUser.
func (s *PostgresEntryStore) AllForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Entry, error) {
	query := `
		SELECT id, user_id, content, emotion_label, emotion_score, emotions, created_at
		FROM entries
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	return s.queryEntries(ctx, query, userID)
}

// queryEntries runs an entry SELECT and scans the result set.
func (s *PostgresEntryStore) queryEntries(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Entry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query entries", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	entries := []*domain.Entry{}
	for rows.Next() {
		var entry domain.Entry
		var emotions []byte

		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Content,
			&entry.EmotionLabel,
			&entry.EmotionScore,
			&emotions,
			&entry.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan entry row", slog.String("error", err.Error()))
			return nil, err
		}

		if len(emotions) > 0 {
			if err := json.Unmarshal(emotions, &entry.Emotions); err != nil {
				log.Error("failed to unmarshal emotion distribution",
					slog.String("error", err.Error()),
					slog.String("entry_id", entry.ID.String()))
				return nil, err
			}
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return entries, nil
}

// WithTx implements store.EntryStore.WithTx.
func (s *PostgresEntryStore) WithTx(tx *sql.Tx) store.EntryStore {
	return &PostgresEntryStore{
		db:     tx,
		logger: s.logger,
	}
}
