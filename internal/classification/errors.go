package classification

import "errors"

// Common errors returned by classifier adapters
var (
	// ErrUnavailable is returned for every classifier failure mode: network
	// errors, timeouts, non-success statuses, and malformed payloads. The
	// create-entry flow rejects the write when it sees this error; it never
	// degrades to a default label.
	ErrUnavailable = errors.New("emotion classifier unavailable")

	// ErrEmptyText is returned when there is no text to classify.
	ErrEmptyText = errors.New("text to classify cannot be empty")

	// ErrInvalidConfig is returned when a classifier adapter's configuration
	// is invalid at construction time.
	ErrInvalidConfig = errors.New("invalid classifier configuration")
)
