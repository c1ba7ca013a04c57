package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tokenvault/internal/metrics"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
)

const metricsDomain = "tokenization"

type tokenizationUseCaseWithMetrics struct {
	next    TokenizationUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenizationUseCaseWithMetrics wraps a TokenizationUseCase with metrics recording.
func NewTokenizationUseCaseWithMetrics(useCase TokenizationUseCase, m metrics.BusinessMetrics) TokenizationUseCase {
	return &tokenizationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (t *tokenizationUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	t.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	t.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

func (t *tokenizationUseCaseWithMetrics) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	fields tokenizationDomain.Fields,
	expiryHours int,
) (*tokenizationDomain.Token, error) {
	start := time.Now()
	token, err := t.next.Create(ctx, ownerID, fields, expiryHours)
	t.record(ctx, "create", start, err)
	return token, err
}

func (t *tokenizationUseCaseWithMetrics) Retrieve(
	ctx context.Context,
	ownerID uuid.UUID,
	handle string,
) (tokenizationDomain.Fields, error) {
	start := time.Now()
	fields, err := t.next.Retrieve(ctx, ownerID, handle)
	t.record(ctx, "retrieve", start, err)
	return fields, err
}

func (t *tokenizationUseCaseWithMetrics) GetInfo(ctx context.Context, handle string) (*tokenizationDomain.Info, error) {
	start := time.Now()
	info, err := t.next.GetInfo(ctx, handle)
	t.record(ctx, "get_info", start, err)
	return info, err
}

func (t *tokenizationUseCaseWithMetrics) Extend(
	ctx context.Context,
	ownerID uuid.UUID,
	handle string,
	hours int,
) (*tokenizationDomain.Token, error) {
	start := time.Now()
	token, err := t.next.Extend(ctx, ownerID, handle, hours)
	t.record(ctx, "extend", start, err)
	return token, err
}

func (t *tokenizationUseCaseWithMetrics) Revoke(
	ctx context.Context,
	ownerID uuid.UUID,
	handle string,
) (*tokenizationDomain.Token, error) {
	start := time.Now()
	token, err := t.next.Revoke(ctx, ownerID, handle)
	t.record(ctx, "revoke", start, err)
	return token, err
}

// CreateBulk also records per-item outcomes.
func (t *tokenizationUseCaseWithMetrics) CreateBulk(
	ctx context.Context,
	ownerID uuid.UUID,
	items []tokenizationDomain.BulkItem,
) (*tokenizationDomain.BulkOutput, error) {
	start := time.Now()
	output, err := t.next.CreateBulk(ctx, ownerID, items)
	t.record(ctx, "create_bulk", start, err)
	if err == nil {
		t.metrics.RecordItems(ctx, metricsDomain, string(tokenizationDomain.BulkStatusCreated), int64(output.Summary.Created))
		t.metrics.RecordItems(ctx, metricsDomain, string(tokenizationDomain.BulkStatusDuplicate), int64(output.Summary.Duplicates))
		t.metrics.RecordItems(ctx, metricsDomain, string(tokenizationDomain.BulkStatusFailed), int64(output.Summary.Failed))
	}
	return output, err
}
