// Package mocks provides mock implementations of the audit use case interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
)

// MockEventRepository is a mock implementation of usecase.EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *auditDomain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) List(ctx context.Context, filter auditDomain.Filter) ([]*auditDomain.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Event), args.Error(1)
}

func (m *MockEventRepository) ListRange(
	ctx context.Context,
	from, to time.Time,
	offset, limit int,
) ([]*auditDomain.Event, error) {
	args := m.Called(ctx, from, to, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Event), args.Error(1)
}

func (m *MockEventRepository) CountByAction(
	ctx context.Context,
	ownerID *uuid.UUID,
	from, to *time.Time,
) (map[auditDomain.Action]int64, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[auditDomain.Action]int64), args.Error(1)
}

// MockOutboxRepository is a mock implementation of usecase.OutboxRepository.
type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, entry *auditDomain.OutboxEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*auditDomain.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) Update(ctx context.Context, entry *auditDomain.OutboxEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockPublisher is a mock implementation of usecase.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, entry *auditDomain.OutboxEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// MockAuditUseCase is a mock implementation of usecase.AuditUseCase.
type MockAuditUseCase struct {
	mock.Mock
}

func (m *MockAuditUseCase) Record(
	ctx context.Context,
	ownerID uuid.UUID,
	action auditDomain.Action,
	details map[string]any,
) error {
	args := m.Called(ctx, ownerID, action, details)
	return args.Error(0)
}

func (m *MockAuditUseCase) List(ctx context.Context, filter auditDomain.Filter) ([]*auditDomain.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*auditDomain.Event), args.Error(1)
}

func (m *MockAuditUseCase) CountByAction(
	ctx context.Context,
	ownerID *uuid.UUID,
	from, to *time.Time,
) (map[auditDomain.Action]int64, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[auditDomain.Action]int64), args.Error(1)
}

func (m *MockAuditUseCase) VerifyBatch(
	ctx context.Context,
	from, to time.Time,
) (*auditDomain.VerificationReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.VerificationReport), args.Error(1)
}
