package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
	authService "github.com/allisson/tokenvault/internal/auth/service"
	apperrors "github.com/allisson/tokenvault/internal/errors"
)

type tokenUseCase struct {
	lifetime      time.Duration
	clientRepo    ClientRepository
	tokenRepo     TokenRepository
	secretService authService.SecretService
	tokenService  authService.TokenService
	now           func() time.Time
}

// NewTokenUseCase creates a TokenUseCase issuing tokens valid for lifetime.
func NewTokenUseCase(
	lifetime time.Duration,
	clientRepo ClientRepository,
	tokenRepo TokenRepository,
	secretService authService.SecretService,
	tokenService authService.TokenService,
) TokenUseCase {
	return &tokenUseCase{
		lifetime:      lifetime,
		clientRepo:    clientRepo,
		tokenRepo:     tokenRepo,
		secretService: secretService,
		tokenService:  tokenService,
		now:           time.Now,
	}
}

// lookupClient hides unknown clients behind ErrInvalidCredentials.
func (t *tokenUseCase) lookupClient(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	client, err := t.clientRepo.Get(ctx, clientID)
	if apperrors.Is(err, authDomain.ErrClientNotFound) {
		return nil, authDomain.ErrInvalidCredentials
	}
	return client, err
}

func (t *tokenUseCase) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	client, err := t.lookupClient(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}

	// inactive is only reported to callers holding the right secret
	if !t.secretService.CompareSecret(input.ClientSecret, client.Secret) {
		return nil, authDomain.ErrInvalidCredentials
	}
	if !client.IsActive {
		return nil, authDomain.ErrClientInactive
	}

	plainToken, tokenHash, err := t.tokenService.GenerateToken()
	if err != nil {
		return nil, err
	}

	issuedAt := t.now().UTC()
	expiresAt := issuedAt.Add(t.lifetime)
	err = t.tokenRepo.Create(ctx, &authDomain.Token{
		ID:        uuid.Must(uuid.NewV7()),
		TokenHash: tokenHash,
		ClientID:  client.ID,
		ExpiresAt: expiresAt,
		CreatedAt: issuedAt,
	})
	if err != nil {
		return nil, err
	}

	return &authDomain.IssueTokenOutput{PlainToken: plainToken, ExpiresAt: expiresAt}, nil
}

func (t *tokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error) {
	token, err := t.tokenRepo.GetByTokenHash(ctx, tokenHash)
	switch {
	case apperrors.Is(err, authDomain.ErrTokenNotFound):
		return nil, authDomain.ErrInvalidCredentials
	case err != nil:
		return nil, err
	case !token.IsValid(t.now().UTC()):
		return nil, authDomain.ErrInvalidCredentials
	}

	client, err := t.lookupClient(ctx, token.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive {
		return nil, authDomain.ErrClientInactive
	}
	return client, nil
}

func (t *tokenUseCase) PurgeExpired(ctx context.Context, grace time.Duration) (int64, error) {
	if grace < 0 {
		return 0, authDomain.ErrNegativeGrace
	}
	removed, err := t.tokenRepo.DeleteExpired(ctx, t.now().UTC().Add(-grace))
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to purge expired bearer tokens")
	}
	return removed, nil
}
