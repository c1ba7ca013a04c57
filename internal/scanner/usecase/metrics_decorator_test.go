package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	metricsMocks "github.com/allisson/tokenvault/internal/metrics/mocks"
	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
	scannerMocks "github.com/allisson/tokenvault/internal/scanner/usecase/mocks"
)

func TestScannerUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()

	t.Run("ScanSuccess", func(t *testing.T) {
		next := &scannerMocks.MockScannerUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}
		report := &scannerDomain.Report{Findings: 4, Tokenized: 3}

		next.On("Scan", ctx).Return(report, nil).Once()
		m.ExpectOperation("scanner", "scan", "success")
		m.On("RecordItems", mock.Anything, "scanner", "findings", int64(4)).Once()
		m.On("RecordItems", mock.Anything, "scanner", "tokenized", int64(3)).Once()

		got, err := NewScannerUseCaseWithMetrics(next, m).Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, report, got)
		next.AssertExpectations(t)
		m.AssertExpectations(t)
	})

	t.Run("ScanError", func(t *testing.T) {
		next := &scannerMocks.MockScannerUseCase{}
		m := &metricsMocks.MockBusinessMetrics{}

		next.On("Scan", ctx).Return(nil, errors.New("boom")).Once()
		m.ExpectOperation("scanner", "scan", "error")

		_, err := NewScannerUseCaseWithMetrics(next, m).Scan(ctx)
		require.Error(t, err)
		m.AssertExpectations(t)
		m.AssertNotCalled(t, "RecordItems", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Status", func(t *testing.T) {
		next := &scannerMocks.MockScannerUseCase{}
		next.On("Status").Return(scannerDomain.Status{TotalScans: 2}).Once()

		status := NewScannerUseCaseWithMetrics(next, &metricsMocks.MockBusinessMetrics{}).Status()
		assert.Equal(t, int64(2), status.TotalScans)
	})
}
