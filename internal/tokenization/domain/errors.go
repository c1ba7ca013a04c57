package domain

import (
	"fmt"
	"time"

	"github.com/allisson/tokenvault/internal/errors"
)

var (
	// ErrTokenNotFound indicates no token matches the handle.
	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrTokenAlreadyExists indicates a handle collision on insert.
	ErrTokenAlreadyExists = errors.Wrap(errors.ErrConflict, "token already exists")

	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = errors.Wrap(errors.ErrGone, "token expired")

	// ErrCannotExtendExpired indicates an extend call on an expired token.
	ErrCannotExtendExpired = errors.Wrap(errors.ErrGone, "cannot extend expired token")

	// ErrInvalidFields indicates an empty or malformed field map.
	ErrInvalidFields = errors.Wrap(errors.ErrInvalidInput, "invalid fields")

	// ErrPlaintextTooLarge indicates the serialized field map exceeds MaxPlaintextSize.
	ErrPlaintextTooLarge = errors.Wrap(errors.ErrInvalidInput, "plaintext exceeds maximum size")

	// ErrInvalidExpiry indicates hours outside the accepted range.
	ErrInvalidExpiry = errors.Wrap(errors.ErrInvalidInput, "invalid expiry hours")

	// ErrInvalidHandle indicates a malformed token handle.
	ErrInvalidHandle = errors.Wrap(errors.ErrInvalidInput, "invalid token handle")

	// ErrTooManyItems indicates a bulk request above the configured limit.
	ErrTooManyItems = errors.Wrap(errors.ErrInvalidInput, "too many bulk items")
)

// ExpiredError carries the expiry instant of a dead token so operators see when it
// expired. It matches ErrTokenExpired, or ErrCannotExtendExpired for extend calls.
type ExpiredError struct {
	ExpiresAt time.Time
	Extend    bool
}

// NewExpiredError returns the retrieve-side expiry error.
func NewExpiredError(expiresAt time.Time) error {
	return &ExpiredError{ExpiresAt: expiresAt}
}

// NewCannotExtendError returns the extend-side expiry error.
func NewCannotExtendError(expiresAt time.Time) error {
	return &ExpiredError{ExpiresAt: expiresAt, Extend: true}
}

func (e *ExpiredError) Error() string {
	at := e.ExpiresAt.UTC().Format(time.RFC3339)
	if e.Extend {
		return fmt.Sprintf("cannot extend token that expired at %s", at)
	}
	return fmt.Sprintf("token expired at %s", at)
}

func (e *ExpiredError) Unwrap() error {
	if e.Extend {
		return ErrCannotExtendExpired
	}
	return ErrTokenExpired
}
