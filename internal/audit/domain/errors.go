package domain

import (
	"github.com/allisson/tokenvault/internal/errors"
)

var (
	// ErrInvalidAction indicates an action outside the closed set.
	ErrInvalidAction = errors.Wrap(errors.ErrInvalidInput, "invalid audit action")

	// ErrForbiddenDetail indicates details carrying a key reserved for protected data.
	ErrForbiddenDetail = errors.Wrap(errors.ErrInvalidInput, "audit details must not carry protected data")

	// ErrSignatureInvalid indicates a tampered or foreign event.
	ErrSignatureInvalid = errors.New("audit event signature is invalid")

	// ErrEventNotFound indicates no event matches the id.
	ErrEventNotFound = errors.Wrap(errors.ErrNotFound, "audit event not found")
)

// ValidateDetails rejects details carrying protected data keys.
func ValidateDetails(details map[string]any) error {
	for _, key := range forbiddenDetailKeys {
		if _, ok := details[key]; ok {
			return errors.Wrapf(ErrForbiddenDetail, "key %q", key)
		}
	}
	return nil
}
