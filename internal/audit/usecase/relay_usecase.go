package usecase

import (
	"context"
	"log/slog"
	"time"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	"github.com/allisson/tokenvault/internal/database"
)

// DefaultMaxAttempts is the number of publish attempts before an entry is
// marked failed.
const DefaultMaxAttempts = 5

// DefaultRelayInterval replaces a non-positive polling interval.
const DefaultRelayInterval = 5 * time.Second

// RelayConfig holds relay worker configuration.
type RelayConfig struct {
	Interval    time.Duration
	BatchSize   int
	MaxAttempts int
}

type relayUseCase struct {
	config     RelayConfig
	txManager  database.TxManager
	outboxRepo OutboxRepository
	publisher  Publisher
	logger     *slog.Logger
	now        func() time.Time
}

// NewRelayUseCase creates the outbox relay.
func NewRelayUseCase(
	config RelayConfig,
	txManager database.TxManager,
	outboxRepo OutboxRepository,
	publisher Publisher,
	logger *slog.Logger,
) RelayUseCase {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.Interval <= 0 {
		config.Interval = DefaultRelayInterval
	}
	return &relayUseCase{
		config:     config,
		txManager:  txManager,
		outboxRepo: outboxRepo,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

// Start polls the outbox until ctx is cancelled.
func (r *relayUseCase) Start(ctx context.Context) error {
	r.logger.Info("starting audit relay",
		slog.Duration("interval", r.config.Interval),
		slog.Int("batch_size", r.config.BatchSize),
	)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping audit relay")
			return ctx.Err()
		case <-ticker.C:
			if _, err := r.ProcessPending(ctx); err != nil {
				r.logger.Error("failed to relay audit events", slog.Any("error", err))
			}
		}
	}
}

// ProcessPending publishes one batch of pending entries and returns how many
// were delivered.
func (r *relayUseCase) ProcessPending(ctx context.Context) (int, error) {
	delivered := 0
	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		delivered = 0
		entries, err := r.outboxRepo.GetPending(ctx, r.config.BatchSize)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			if err := r.publisher.Publish(ctx, entry); err != nil {
				r.logger.Warn("failed to publish audit event",
					slog.String("event_id", entry.EventID.String()),
					slog.Int("attempts", entry.Attempts+1),
					slog.Any("error", err),
				)

				entry.Attempts++
				msg := err.Error()
				entry.LastError = &msg
				if entry.Attempts >= r.config.MaxAttempts {
					entry.Status = auditDomain.OutboxStatusFailed
				}
			} else {
				processedAt := r.now().UTC()
				entry.Status = auditDomain.OutboxStatusProcessed
				entry.ProcessedAt = &processedAt
				delivered++
			}

			if err := r.outboxRepo.Update(ctx, entry); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return delivered, nil
}
