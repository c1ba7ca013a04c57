// Package mocks provides mock implementations of the scanner use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
)

// MockScannerUseCase is a mock implementation of usecase.ScannerUseCase.
type MockScannerUseCase struct {
	mock.Mock
}

func (m *MockScannerUseCase) Scan(ctx context.Context) (*scannerDomain.Report, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scannerDomain.Report), args.Error(1)
}

func (m *MockScannerUseCase) Status() scannerDomain.Status {
	return m.Called().Get(0).(scannerDomain.Status)
}
