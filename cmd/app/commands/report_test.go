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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	reportingDomain "github.com/allisson/tokenvault/internal/reporting/domain"
	reportingMocks "github.com/allisson/tokenvault/internal/reporting/usecase/mocks"
)

func TestRunReport(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clientID := uuid.New()

	t.Run("tokenization-json", func(t *testing.T) {
		mockUseCase := &reportingMocks.MockReportingUseCase{}
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 31, 23, 59, 59, 999999999, time.UTC)
		mockUseCase.On("TokenizationMetrics", ctx, clientID, &from, &to).
			Return(&reportingDomain.TokenizationMetrics{TotalTokens: 5, ActiveTokens: 3, RevokedTokens: 1}, nil)

		var out bytes.Buffer
		err := RunReport(ctx, mockUseCase, logger, &out, ReportOptions{
			Kind:     ReportTokenization,
			ClientID: clientID.String(),
			From:     "2025-01-01",
			To:       "2025-01-31",
			Format:   "json",
		})
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, float64(5), result["total_tokens"])
		assert.Equal(t, float64(1), result["revoked_tokens"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("compliance-text", func(t *testing.T) {
		mockUseCase := &reportingMocks.MockReportingUseCase{}
		mockUseCase.On("ComplianceMetrics", ctx, clientID).Return(&reportingDomain.ComplianceMetrics{
			TokenExpiryCompliance:   100,
			DataRetentionCompliance: 75,
			UnusedTokenPercentage:   50,
		}, nil)

		var out bytes.Buffer
		err := RunReport(ctx, mockUseCase, logger, &out, ReportOptions{
			Kind:     ReportCompliance,
			ClientID: clientID.String(),
			Format:   "text",
		})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Data retention compliance: 75.00%")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("scanner-text", func(t *testing.T) {
		mockUseCase := &reportingMocks.MockReportingUseCase{}
		mockUseCase.On("ScannerMetrics", ctx, (*time.Time)(nil), (*time.Time)(nil)).Return(&reportingDomain.ScannerMetrics{
			TotalScans:       2,
			TotalFindings:    3,
			DetectionsByType: map[string]int64{"PHONE_NUMBER": 1, "EMAIL_ADDRESS": 2},
		}, nil)

		var out bytes.Buffer
		err := RunReport(ctx, mockUseCase, logger, &out, ReportOptions{Kind: ReportScanner, Format: "text"})
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Total findings:        3")
		assert.Contains(t, out.String(), "PHONE_NUMBER")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("missing-client-id", func(t *testing.T) {
		mockUseCase := &reportingMocks.MockReportingUseCase{}
		err := RunReport(ctx, mockUseCase, logger, io.Discard, ReportOptions{Kind: ReportCompliance, Format: "text"})
		assert.ErrorContains(t, err, "--client-id is required")

		err = RunReport(ctx, mockUseCase, logger, io.Discard, ReportOptions{
			Kind:     ReportTokenization,
			ClientID: "not-a-uuid",
			Format:   "text",
		})
		assert.ErrorContains(t, err, "invalid client id")
		mockUseCase.AssertNotCalled(t, "TokenizationMetrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid-range", func(t *testing.T) {
		err := RunReport(ctx, &reportingMocks.MockReportingUseCase{}, logger, io.Discard, ReportOptions{
			Kind:   ReportScanner,
			From:   "2025-02-01",
			To:     "2025-01-01",
			Format: "text",
		})
		assert.ErrorContains(t, err, "must not be before")

		err = RunReport(ctx, &reportingMocks.MockReportingUseCase{}, logger, io.Discard, ReportOptions{
			Kind:   ReportScanner,
			From:   "yesterday",
			Format: "text",
		})
		assert.ErrorContains(t, err, "invalid from date")
	})

	t.Run("invalid-kind", func(t *testing.T) {
		err := RunReport(ctx, &reportingMocks.MockReportingUseCase{}, logger, io.Discard, ReportOptions{
			Kind:   "usage",
			Format: "text",
		})
		assert.ErrorContains(t, err, "invalid report kind")
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := &reportingMocks.MockReportingUseCase{}
		mockUseCase.On("ScannerMetrics", ctx, mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

		err := RunReport(ctx, mockUseCase, logger, io.Discard, ReportOptions{Kind: ReportScanner, Format: "json"})
		assert.ErrorContains(t, err, "failed to build scanner report")
	})
}
