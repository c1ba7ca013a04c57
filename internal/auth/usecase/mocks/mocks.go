// Package mocks provides mock implementations of the auth use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
)

// MockClientRepository is a mock implementation of usecase.ClientRepository.
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *authDomain.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Client), args.Error(1)
}

func (m *MockClientRepository) SetActive(ctx context.Context, clientID uuid.UUID, active bool) error {
	return m.Called(ctx, clientID, active).Error(0)
}

// MockTokenRepository is a mock implementation of usecase.TokenRepository.
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *authDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*authDomain.Token, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Token), args.Error(1)
}

func (m *MockTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockSecretService is a mock implementation of service.SecretService.
type MockSecretService struct {
	mock.Mock
}

func (m *MockSecretService) GenerateSecret() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockSecretService) HashSecret(plainSecret string) (string, error) {
	args := m.Called(plainSecret)
	return args.String(0), args.Error(1)
}

func (m *MockSecretService) CompareSecret(plainSecret, hashedSecret string) bool {
	args := m.Called(plainSecret, hashedSecret)
	return args.Bool(0)
}

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken() (string, string, error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}

// MockClientUseCase is a mock implementation of usecase.ClientUseCase.
type MockClientUseCase struct {
	mock.Mock
}

func (m *MockClientUseCase) Create(
	ctx context.Context,
	input *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.CreateClientOutput), args.Error(1)
}

func (m *MockClientUseCase) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Client), args.Error(1)
}

func (m *MockClientUseCase) SetActive(ctx context.Context, clientID uuid.UUID, active bool) error {
	return m.Called(ctx, clientID, active).Error(0)
}

// MockTokenUseCase is a mock implementation of usecase.TokenUseCase.
type MockTokenUseCase struct {
	mock.Mock
}

func (m *MockTokenUseCase) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssueTokenOutput), args.Error(1)
}

func (m *MockTokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Client), args.Error(1)
}

func (m *MockTokenUseCase) PurgeExpired(ctx context.Context, grace time.Duration) (int64, error) {
	args := m.Called(ctx, grace)
	return args.Get(0).(int64), args.Error(1)
}
