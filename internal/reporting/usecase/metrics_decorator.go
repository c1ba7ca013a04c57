package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tokenvault/internal/metrics"
	reportingDomain "github.com/allisson/tokenvault/internal/reporting/domain"
)

const metricsDomain = "reporting"

type reportingUseCaseWithMetrics struct {
	next    ReportingUseCase
	metrics metrics.BusinessMetrics
}

// NewReportingUseCaseWithMetrics wraps a ReportingUseCase with metrics recording.
func NewReportingUseCaseWithMetrics(useCase ReportingUseCase, m metrics.BusinessMetrics) ReportingUseCase {
	return &reportingUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *reportingUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	r.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	r.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func (r *reportingUseCaseWithMetrics) TokenizationMetrics(
	ctx context.Context,
	ownerID uuid.UUID,
	from, to *time.Time,
) (*reportingDomain.TokenizationMetrics, error) {
	start := time.Now()
	result, err := r.next.TokenizationMetrics(ctx, ownerID, from, to)
	r.record(ctx, "tokenization_report", start, err)
	return result, err
}

func (r *reportingUseCaseWithMetrics) ComplianceMetrics(
	ctx context.Context,
	ownerID uuid.UUID,
) (*reportingDomain.ComplianceMetrics, error) {
	start := time.Now()
	result, err := r.next.ComplianceMetrics(ctx, ownerID)
	r.record(ctx, "compliance_report", start, err)
	return result, err
}

func (r *reportingUseCaseWithMetrics) ScannerMetrics(
	ctx context.Context,
	from, to *time.Time,
) (*reportingDomain.ScannerMetrics, error) {
	start := time.Now()
	result, err := r.next.ScannerMetrics(ctx, from, to)
	r.record(ctx, "scanner_report", start, err)
	return result, err
}
