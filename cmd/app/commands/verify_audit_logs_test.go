package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	auditMocks "github.com/allisson/tokenvault/internal/audit/usecase/mocks"
)

func TestRunVerifyAuditLogs(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	startDate := "2025-01-01"
	endDate := "2025-01-02 12:30:00"

	report := &auditDomain.VerificationReport{
		TotalChecked: 10,
		SignedCount:  10,
		ValidCount:   10,
	}

	t.Run("success-text", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("VerifyBatch", ctx,
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 2, 12, 30, 0, 0, time.UTC),
		).Return(report, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "text")
		require.NoError(t, err)
		require.Contains(t, out.String(), "Audit Log Integrity Verification")
		require.Contains(t, out.String(), "Status: PASSED")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("success-json", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(report, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "json")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Equal(t, float64(10), result["total_checked"])
		require.Equal(t, true, result["passed"])
		require.Equal(t, []any{}, result["invalid_events"])
		require.Equal(t, "2025-01-02T12:30:00Z", result["to"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("empty-range", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(&auditDomain.VerificationReport{}, nil)

		var out bytes.Buffer
		require.NoError(t, RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "text"))
		require.Contains(t, out.String(), "No events found")
	})

	t.Run("invalid-dates", func(t *testing.T) {
		err := RunVerifyAuditLogs(ctx, nil, logger, nil, "invalid", endDate, "text")
		require.ErrorContains(t, err, "invalid start date")

		err = RunVerifyAuditLogs(ctx, nil, logger, nil, startDate, "2025/01/02", "text")
		require.ErrorContains(t, err, "invalid end date")

		err = RunVerifyAuditLogs(ctx, nil, logger, nil, "2025-01-02", "2025-01-01", "text")
		require.ErrorContains(t, err, "end date must be after start date")
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		mockUseCase.On("VerifyBatch", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, io.Discard, startDate, endDate, "text")
		require.ErrorContains(t, err, "failed to verify audit logs")
	})

	t.Run("integrity-failure", func(t *testing.T) {
		mockUseCase := &auditMocks.MockAuditUseCase{}
		invalidID := uuid.New()
		mockUseCase.On("VerifyBatch", ctx, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
			Return(&auditDomain.VerificationReport{
				TotalChecked:  10,
				SignedCount:   10,
				ValidCount:    8,
				InvalidCount:  2,
				InvalidEvents: []uuid.UUID{invalidID, uuid.New()},
			}, nil)

		var out bytes.Buffer
		err := RunVerifyAuditLogs(ctx, mockUseCase, logger, &out, startDate, endDate, "text")
		require.ErrorContains(t, err, "integrity check failed")
		require.Contains(t, out.String(), "WARNING: 2 event(s) failed integrity check!")
		require.Contains(t, out.String(), invalidID.String())
	})
}
