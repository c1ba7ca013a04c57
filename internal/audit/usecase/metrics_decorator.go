package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	"github.com/allisson/tokenvault/internal/metrics"
)

type auditUseCaseWithMetrics struct {
	next    AuditUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditUseCaseWithMetrics wraps an AuditUseCase with metrics recording.
func NewAuditUseCaseWithMetrics(useCase AuditUseCase, m metrics.BusinessMetrics) AuditUseCase {
	return &auditUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *auditUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	a.metrics.RecordOperation(ctx, "audit", operation, status)
	a.metrics.RecordDuration(ctx, "audit", operation, time.Since(start), status)
}

func (a *auditUseCaseWithMetrics) Record(
	ctx context.Context,
	ownerID uuid.UUID,
	action auditDomain.Action,
	details map[string]any,
) error {
	start := time.Now()
	err := a.next.Record(ctx, ownerID, action, details)
	a.record(ctx, "record", start, err)
	return err
}

func (a *auditUseCaseWithMetrics) List(
	ctx context.Context,
	filter auditDomain.Filter,
) ([]*auditDomain.Event, error) {
	start := time.Now()
	events, err := a.next.List(ctx, filter)
	a.record(ctx, "list", start, err)
	return events, err
}

func (a *auditUseCaseWithMetrics) CountByAction(
	ctx context.Context,
	ownerID *uuid.UUID,
	from, to *time.Time,
) (map[auditDomain.Action]int64, error) {
	start := time.Now()
	counts, err := a.next.CountByAction(ctx, ownerID, from, to)
	a.record(ctx, "count_by_action", start, err)
	return counts, err
}

func (a *auditUseCaseWithMetrics) VerifyBatch(
	ctx context.Context,
	from, to time.Time,
) (*auditDomain.VerificationReport, error) {
	start := time.Now()
	report, err := a.next.VerifyBatch(ctx, from, to)
	a.record(ctx, "verify_batch", start, err)
	return report, err
}
