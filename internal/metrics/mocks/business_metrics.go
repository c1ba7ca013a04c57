// Package mocks provides mock implementations of the metrics interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockBusinessMetrics is a mock implementation of metrics.BusinessMetrics.
type MockBusinessMetrics struct {
	mock.Mock
}

func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *MockBusinessMetrics) RecordItems(ctx context.Context, domain, outcome string, count int64) {
	m.Called(ctx, domain, outcome, count)
}

func (m *MockBusinessMetrics) RecordKeyGeneration(ctx context.Context, generation uint64) {
	m.Called(ctx, generation)
}

// ExpectOperation registers the RecordOperation and RecordDuration pair every
// decorated call makes.
func (m *MockBusinessMetrics) ExpectOperation(domain, operation, status string) {
	m.On("RecordOperation", mock.Anything, domain, operation, status).Once()
	m.On("RecordDuration", mock.Anything, domain, operation, mock.AnythingOfType("time.Duration"), status).Once()
}
