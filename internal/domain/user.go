package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrEmptyUserID         = errors.New("user ID cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyPassword       = errors.New("password cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// User represents a registered user of the mood journal.
// EntriesThisMonth and LastResetAt belong to the quota tracker: they are
// mutated only through the quota path, never directly by handlers.
// Tier is changed only by the subscription upgrade operation.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Password       string    `json:"-"` // Plaintext, present only during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Tier           Tier      `json:"subscription_tier"`

	// Monthly usage counter and the date it was last reset to zero.
	// NewUser anchors LastResetAt at registration; a nil value can only
	// come from rows written outside that path and counts as stale so the
	// tracker re-anchors it on the next authoritative read.
	EntriesThisMonth int        `json:"-"`
	LastResetAt      *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUser creates a new User on the free tier with the given credentials.
// The caller is responsible for hashing the password before storing the user.
func NewUser(email, password, name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:       uuid.New(),
		Email:    strings.TrimSpace(email),
		Name:     strings.TrimSpace(name),
		Password: password,
		Tier:     TierFree,
		// The quota window opens at registration. Without this anchor the
		// monthly reset would have nothing to compare against.
		LastResetAt: &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}

	if u.Password == "" && u.HashedPassword == "" {
		return ErrEmptyPassword
	}

	return nil
}

// QuotaStale reports whether the stored last-reset date belongs to a
// different calendar month than now, meaning the monthly counter must be
// reset before it is read. A missing anchor also counts as stale: the
// window was never established and must be opened at now.
func (u *User) QuotaStale(now time.Time) bool {
	if u.LastResetAt == nil {
		return true
	}
	last := u.LastResetAt.UTC()
	now = now.UTC()
	return last.Month() != now.Month() || last.Year() != now.Year()
}

// ResetQuota is the month-transition function of the quota state machine:
// it zeroes the counter and anchors the window at now. The caller must
// persist both fields in a single write.
func (u *User) ResetQuota(now time.Time) {
	now = now.UTC()
	u.EntriesThisMonth = 0
	u.LastResetAt = &now
}
