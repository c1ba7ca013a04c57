// Package errors provides the sentinel taxonomy shared by every tokenvault domain.
// Domain packages wrap exactly one sentinel so transport layers can map failures
// by intent instead of by message.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation on persisted data.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates caller input failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the authenticated caller may not perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrGone indicates the resource exists but is past its lifetime.
	ErrGone = errors.New("gone")

	// ErrUnprocessable indicates stored data could not be processed (corrupt or
	// encrypted under a key that is no longer retained).
	ErrUnprocessable = errors.New("unprocessable")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap adds context to err while preserving the chain. Returns nil for a nil err.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join wraps errors.Join.
func Join(errs ...error) error {
	return errors.Join(errs...)
}
