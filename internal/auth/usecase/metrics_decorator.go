package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
	"github.com/allisson/tokenvault/internal/metrics"
)

type clientUseCaseWithMetrics struct {
	next    ClientUseCase
	metrics metrics.BusinessMetrics
}

// NewClientUseCaseWithMetrics wraps a ClientUseCase with metrics recording.
func NewClientUseCaseWithMetrics(useCase ClientUseCase, m metrics.BusinessMetrics) ClientUseCase {
	return &clientUseCaseWithMetrics{next: useCase, metrics: m}
}

func (c *clientUseCaseWithMetrics) Create(
	ctx context.Context,
	input *authDomain.CreateClientInput,
) (*authDomain.CreateClientOutput, error) {
	start := time.Now()
	output, err := c.next.Create(ctx, input)
	record(ctx, c.metrics, "client_create", start, err)
	return output, err
}

func (c *clientUseCaseWithMetrics) Get(ctx context.Context, clientID uuid.UUID) (*authDomain.Client, error) {
	start := time.Now()
	client, err := c.next.Get(ctx, clientID)
	record(ctx, c.metrics, "client_get", start, err)
	return client, err
}

func (c *clientUseCaseWithMetrics) SetActive(ctx context.Context, clientID uuid.UUID, active bool) error {
	start := time.Now()
	err := c.next.SetActive(ctx, clientID, active)
	record(ctx, c.metrics, "client_set_active", start, err)
	return err
}

type tokenUseCaseWithMetrics struct {
	next    TokenUseCase
	metrics metrics.BusinessMetrics
}

// NewTokenUseCaseWithMetrics wraps a TokenUseCase with metrics recording.
func NewTokenUseCaseWithMetrics(useCase TokenUseCase, m metrics.BusinessMetrics) TokenUseCase {
	return &tokenUseCaseWithMetrics{next: useCase, metrics: m}
}

func (t *tokenUseCaseWithMetrics) Issue(
	ctx context.Context,
	input *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	start := time.Now()
	output, err := t.next.Issue(ctx, input)
	record(ctx, t.metrics, "token_issue", start, err)
	return output, err
}

func (t *tokenUseCaseWithMetrics) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Client, error) {
	start := time.Now()
	client, err := t.next.Authenticate(ctx, tokenHash)
	record(ctx, t.metrics, "token_authenticate", start, err)
	return client, err
}

func (t *tokenUseCaseWithMetrics) PurgeExpired(ctx context.Context, grace time.Duration) (int64, error) {
	start := time.Now()
	removed, err := t.next.PurgeExpired(ctx, grace)
	record(ctx, t.metrics, "token_purge", start, err)
	t.metrics.RecordItems(ctx, "auth", "purged", removed)
	return removed, err
}

func record(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := metrics.Status(err)
	m.RecordOperation(ctx, "auth", operation, status)
	m.RecordDuration(ctx, "auth", operation, time.Since(start), status)
}
