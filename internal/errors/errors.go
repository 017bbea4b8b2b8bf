package errors

import (
	"errors"
	"fmt"
)

// Domain sentinels. Services return these (possibly wrapped); the HTTP layer
// maps them to status codes in mapper.go and never invents codes inline.
var (
	// ErrUnauthorized means no authenticated identity could be resolved.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput covers malformed or nonsensical caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSelfSwipe is returned when a user tries to swipe on themselves.
	ErrSelfSwipe = fmt.Errorf("%w: cannot swipe on yourself", ErrInvalidInput)

	// ErrBlocked is returned when a block exists in either direction
	// between the two users involved.
	ErrBlocked = errors.New("blocked relationship")

	// ErrAlreadySwiped is returned on a duplicate swipe for the same pair.
	// Swipes are append-only; a prior decision is permanent.
	ErrAlreadySwiped = errors.New("already swiped")

	// ErrPreferencesNotFound means the requesting user has no profile row,
	// so discovery preferences cannot be resolved.
	ErrPreferencesNotFound = errors.New("preferences not found")

	// ErrNotFound is a generic missing-record condition.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when registering with an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrBadCredentials is returned on a failed login.
	ErrBadCredentials = errors.New("invalid email or password")

	// ErrServiceUnavailable is returned after a transient store failure
	// survived the retry.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Invalid wraps ErrInvalidInput with a specific message.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
