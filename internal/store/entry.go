package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/moodlog-api/internal/domain"
)

// EntryListOptions narrows and pages an entry listing. Since is the
// history-window cutoff derived from the owner's plan (nil when the plan's
// history is unbounded); StartDate/EndDate are the caller's explicit
// filters. All filters are applied at query time; nothing is ever deleted.
type EntryListOptions struct {
	Limit     int
	Offset    int
	Since     *time.Time
	StartDate *time.Time
	EndDate   *time.Time
}

// EntryStore defines the interface for journal entry persistence.
// The entry ledger is append-only: there is no update or delete.
type EntryStore interface {
	// Create appends a new entry to the ledger.
	// Returns validation errors from the domain Entry if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, entry *domain.Entry) error

	// List returns one page of the user's entries, newest first, restricted
	// by the given options, together with the total number of entries
	// matching the filter independent of pagination.
	List(ctx context.Context, userID uuid.UUID, opts EntryListOptions) ([]*domain.Entry, int, error)

	// AllForUser returns every entry the user has ever written, oldest
	// first. It feeds the analytics aggregator, which operates over full
	// history regardless of the plan's listing window.
	AllForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Entry, error)

	// WithTx returns a new EntryStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) EntryStore
}
