// Package mocks provides mock implementations of the reporting interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	reportingDomain "github.com/allisson/tokenvault/internal/reporting/domain"
)

// MockReportRepository is a mock implementation of usecase.ReportRepository.
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) TokenStats(
	ctx context.Context,
	ownerID uuid.UUID,
	now time.Time,
	maxLifespanHours int,
	retentionCutoff time.Time,
) (*reportingDomain.TokenStats, error) {
	args := m.Called(ctx, ownerID, now, maxLifespanHours, retentionCutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportingDomain.TokenStats), args.Error(1)
}

func (m *MockReportRepository) CountUnusedTokens(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReportRepository) ScanStats(
	ctx context.Context,
	ownerID uuid.UUID,
	from, to *time.Time,
) (*reportingDomain.ScanStats, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportingDomain.ScanStats), args.Error(1)
}

// MockReportingUseCase is a mock implementation of usecase.ReportingUseCase.
type MockReportingUseCase struct {
	mock.Mock
}

func (m *MockReportingUseCase) TokenizationMetrics(
	ctx context.Context,
	ownerID uuid.UUID,
	from, to *time.Time,
) (*reportingDomain.TokenizationMetrics, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportingDomain.TokenizationMetrics), args.Error(1)
}

func (m *MockReportingUseCase) ComplianceMetrics(
	ctx context.Context,
	ownerID uuid.UUID,
) (*reportingDomain.ComplianceMetrics, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportingDomain.ComplianceMetrics), args.Error(1)
}

func (m *MockReportingUseCase) ScannerMetrics(
	ctx context.Context,
	from, to *time.Time,
) (*reportingDomain.ScannerMetrics, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reportingDomain.ScannerMetrics), args.Error(1)
}
