package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// BusinessMetrics records tokenization engine operations.
//
// Domains are "tokenization", "audit", "crypto", "scanner" and "auth". Operations are the
// use case method names in snake_case ("create", "retrieve", "create_bulk", "rotate").
type BusinessMetrics interface {
	// RecordOperation counts one operation with a "success" or "error" status.
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records the operation latency in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordItems counts per-item outcomes of batch operations (bulk results, scan findings).
	RecordItems(ctx context.Context, domain, outcome string, count int64)

	// RecordKeyGeneration publishes the current master key generation.
	RecordKeyGeneration(ctx context.Context, generation uint64)
}

type businessMetrics struct {
	operations    metric.Int64Counter
	durations     metric.Float64Histogram
	items         metric.Int64Counter
	keyGeneration metric.Int64Gauge
}

// NewBusinessMetrics creates BusinessMetrics backed by meterProvider. Metric
// names are prefixed with namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)
	name := func(suffix string) string { return namespace + "_" + suffix }

	var (
		b   businessMetrics
		err error
	)
	if b.operations, err = meter.Int64Counter(name("operations_total"),
		metric.WithDescription("Business operations by domain, operation and status"),
		metric.WithUnit("{operation}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}
	if b.durations, err = meter.Float64Histogram(name("operation_duration_seconds"),
		metric.WithDescription("Business operation latency"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}
	if b.items, err = meter.Int64Counter(name("batch_items_total"),
		metric.WithDescription("Per-item outcomes of batch operations"),
		metric.WithUnit("{item}"),
	); err != nil {
		return nil, fmt.Errorf("failed to create item counter: %w", err)
	}
	if b.keyGeneration, err = meter.Int64Gauge(name("master_key_generation"),
		metric.WithDescription("Current master key generation"),
	); err != nil {
		return nil, fmt.Errorf("failed to create key generation gauge: %w", err)
	}
	return &b, nil
}

func operationAttrs(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributeSet(attribute.NewSet(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operations.Add(ctx, 1, operationAttrs(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durations.Record(ctx, duration.Seconds(), operationAttrs(domain, operation, status))
}

// RecordItems ignores non-positive counts.
func (b *businessMetrics) RecordItems(ctx context.Context, domain, outcome string, count int64) {
	if count <= 0 {
		return
	}
	b.items.Add(ctx, count, metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("outcome", outcome),
	))
}

func (b *businessMetrics) RecordKeyGeneration(ctx context.Context, generation uint64) {
	b.keyGeneration.Record(ctx, int64(generation)) //nolint:gosec // generations are small counters
}

// NoOpBusinessMetrics is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordItems(ctx context.Context, domain, outcome string, count int64) {}

func (n *NoOpBusinessMetrics) RecordKeyGeneration(ctx context.Context, generation uint64) {}

// Status returns the metric status label for an operation result.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
