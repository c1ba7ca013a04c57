// Package usecase implements API client management and bearer token
// authentication.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
)

// ClientRepository persists API clients.
type ClientRepository interface {
	Create(ctx context.Context, client *authDomain.Client) error
	// Get returns ErrClientNotFound when the client does not exist.
	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)
	SetActive(ctx context.Context, clientID uuid.UUID, active bool) error
}

// TokenRepository persists bearer tokens by hash.
type TokenRepository interface {
	Create(ctx context.Context, token *authDomain.Token) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error)
	// DeleteExpired removes tokens that expired before the given instant and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// ClientUseCase manages API clients.
type ClientUseCase interface {
	// Create generates a client with a random secret. The plain secret is
	// returned once and never stored.
	Create(ctx context.Context, input *authDomain.CreateClientInput) (*authDomain.CreateClientOutput, error)

	Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error)

	// SetActive enables or disables a client. Bearer tokens of a disabled
	// client stop authenticating immediately.
	SetActive(ctx context.Context, clientID uuid.UUID, active bool) error
}

// TokenUseCase issues and authenticates bearer tokens.
type TokenUseCase interface {
	// Issue exchanges client credentials for a bearer token.
	Issue(ctx context.Context, input *authDomain.IssueTokenInput) (*authDomain.IssueTokenOutput, error)

	// Authenticate resolves the active client owning tokenHash.
	Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error)

	// PurgeExpired deletes bearer tokens that have been expired for longer
	// than grace.
	PurgeExpired(ctx context.Context, grace time.Duration) (int64, error)
}
