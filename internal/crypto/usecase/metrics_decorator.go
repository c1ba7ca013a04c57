package usecase

import (
	"context"
	"time"

	"github.com/allisson/tokenvault/internal/metrics"
)

type rotationUseCaseWithMetrics struct {
	next    RotationUseCase
	metrics metrics.BusinessMetrics
}

// NewRotationUseCaseWithMetrics wraps a RotationUseCase with metrics recording.
func NewRotationUseCaseWithMetrics(useCase RotationUseCase, m metrics.BusinessMetrics) RotationUseCase {
	return &rotationUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// RotateNow records the rotation outcome and publishes the new generation.
func (r *rotationUseCaseWithMetrics) RotateNow(ctx context.Context) (uint64, error) {
	start := time.Now()
	generation, err := r.next.RotateNow(ctx)
	status := metrics.Status(err)

	r.metrics.RecordOperation(ctx, "crypto", "rotate", status)
	r.metrics.RecordDuration(ctx, "crypto", "rotate", time.Since(start), status)
	if err == nil {
		r.metrics.RecordKeyGeneration(ctx, generation)
	}

	return generation, err
}
