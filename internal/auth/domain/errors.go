package domain

import (
	"github.com/allisson/tokenvault/internal/errors"
)

var (
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")

	ErrTokenNotFound = errors.Wrap(errors.ErrNotFound, "token not found")

	// ErrInvalidCredentials covers unknown clients, wrong secrets and unusable
	// tokens alike so callers cannot enumerate clients.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	ErrClientInactive = errors.Wrap(errors.ErrForbidden, "client is inactive")

	ErrNegativeGrace = errors.Wrap(errors.ErrInvalidInput, "grace period must not be negative")

	ErrInvalidClientName = errors.Wrap(errors.ErrInvalidInput, "client name must be 1 to 255 characters")
)
