// Package mocks provides testify mocks for the tokenization use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
)

// MockTokenRepository is a mock of usecase.TokenRepository.
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *tokenizationDomain.Token) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) GetByToken(ctx context.Context, handle string) (*tokenizationDomain.Token, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenizationDomain.Token), args.Error(1)
}

func (m *MockTokenRepository) GetByTokenForUpdate(
	ctx context.Context,
	handle string,
) (*tokenizationDomain.Token, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenizationDomain.Token), args.Error(1)
}

func (m *MockTokenRepository) UpdateExpiry(ctx context.Context, tokenID uuid.UUID, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func (m *MockTokenRepository) FindActiveByFingerprints(
	ctx context.Context,
	fingerprints []string,
	now time.Time,
) (map[string]string, error) {
	args := m.Called(ctx, fingerprints, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockAuditRecorder is a mock of usecase.AuditRecorder.
type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(
	ctx context.Context,
	ownerID uuid.UUID,
	action auditDomain.Action,
	details map[string]any,
) error {
	args := m.Called(ctx, ownerID, action, details)
	return args.Error(0)
}

// MockTokenizationUseCase is a mock of usecase.TokenizationUseCase.
type MockTokenizationUseCase struct {
	mock.Mock
}

func (m *MockTokenizationUseCase) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	fields tokenizationDomain.Fields,
	expiryHours int,
) (*tokenizationDomain.Token, error) {
	args := m.Called(ctx, ownerID, fields, expiryHours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenizationDomain.Token), args.Error(1)
}

func (m *MockTokenizationUseCase) Retrieve(
	ctx context.Context,
	ownerID uuid.UUID,
	handle string,
) (tokenizationDomain.Fields, error) {
	args := m.Called(ctx, ownerID, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(tokenizationDomain.Fields), args.Error(1)
}

func (m *MockTokenizationUseCase) GetInfo(ctx context.Context, handle string) (*tokenizationDomain.Info, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenizationDomain.Info), args.Error(1)
}

func (m *MockTokenizationUseCase) Extend(
	ctx context.Context,
	ownerID uuid.UUID,
	handle string,
	hours int,
) (*tokenizationDomain.Token, error) {
	args := m.Called(ctx, ownerID, handle, hours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenizationDomain.Token), args.Error(1)
}

func (m *MockTokenizationUseCase) Revoke(
	ctx context.Context,
	ownerID uuid.UUID,
	handle string,
) (*tokenizationDomain.Token, error) {
	args := m.Called(ctx, ownerID, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenizationDomain.Token), args.Error(1)
}

func (m *MockTokenizationUseCase) CreateBulk(
	ctx context.Context,
	ownerID uuid.UUID,
	items []tokenizationDomain.BulkItem,
) (*tokenizationDomain.BulkOutput, error) {
	args := m.Called(ctx, ownerID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tokenizationDomain.BulkOutput), args.Error(1)
}
