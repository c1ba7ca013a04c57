package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
	authService "github.com/allisson/tokenvault/internal/auth/service"
	apperrors "github.com/allisson/tokenvault/internal/errors"
)

const maxClientNameLength = 255

type clientUseCase struct {
	clientRepo    ClientRepository
	secretService authService.SecretService
	now           func() time.Time
}

func NewClientUseCase(clientRepo ClientRepository, secretService authService.SecretService) ClientUseCase {
	return &clientUseCase{
		clientRepo:    clientRepo,
		secretService: secretService,
		now:           time.Now,
	}
}

func (c *clientUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || utf8.RuneCountInString(name) > maxClientNameLength {
		return nil, authDomain.ErrInvalidClientName
	}

	plainSecret, secretHash, err := c.secretService.GenerateSecret()
	if err != nil {
		return nil, err
	}

	id := uuid.Must(uuid.NewV7())
	err = c.clientRepo.Create(ctx, &authDomain.Client{
		ID:        id,
		Name:      name,
		Secret:    secretHash,
		IsActive:  input.IsActive,
		CreatedAt: c.now().UTC(),
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to persist client")
	}

	return &authDomain.CreateClientOutput{ID: id, PlainSecret: plainSecret}, nil
}

func (c *clientUseCase) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	return c.clientRepo.Get(ctx, clientID)
}

func (c *clientUseCase) SetActive(ctx context.Context, clientID uuid.UUID, active bool) error {
	if err := c.clientRepo.SetActive(ctx, clientID, active); err != nil {
		return apperrors.Wrap(err, "failed to update client status")
	}
	return nil
}
