package usecase

import (
	"context"
	"time"

	"github.com/allisson/tokenvault/internal/metrics"
	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
)

const metricsDomain = "scanner"

type scannerUseCaseWithMetrics struct {
	next    ScannerUseCase
	metrics metrics.BusinessMetrics
}

// NewScannerUseCaseWithMetrics wraps a ScannerUseCase with metrics recording.
func NewScannerUseCaseWithMetrics(useCase ScannerUseCase, m metrics.BusinessMetrics) ScannerUseCase {
	return &scannerUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *scannerUseCaseWithMetrics) Scan(ctx context.Context) (*scannerDomain.Report, error) {
	start := time.Now()
	report, err := s.next.Scan(ctx)

	status := metrics.Status(err)
	s.metrics.RecordOperation(ctx, metricsDomain, "scan", status)
	s.metrics.RecordDuration(ctx, metricsDomain, "scan", time.Since(start), status)
	if report != nil {
		s.metrics.RecordItems(ctx, metricsDomain, "findings", int64(report.Findings))
		s.metrics.RecordItems(ctx, metricsDomain, "tokenized", int64(report.Tokenized))
	}
	return report, err
}

func (s *scannerUseCaseWithMetrics) Status() scannerDomain.Status {
	return s.next.Status()
}
