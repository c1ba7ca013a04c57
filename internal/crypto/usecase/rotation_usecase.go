package usecase

import (
	"context"
	"log/slog"
	"time"
)

type rotationUseCase struct {
	keys   KeyRotator
	logger *slog.Logger
}

// NewRotationUseCase creates a RotationUseCase.
func NewRotationUseCase(keys KeyRotator, logger *slog.Logger) RotationUseCase {
	return &rotationUseCase{
		keys:   keys,
		logger: logger,
	}
}

func (r *rotationUseCase) RotateNow(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	generation, err := r.keys.Rotate()
	if err != nil {
		return 0, err
	}

	r.logger.Info("master key rotated",
		slog.Uint64("generation", generation),
		slog.Int("retained", len(r.keys.Generations())),
	)
	return generation, nil
}

// Config holds rotation scheduler configuration.
type Config struct {
	// Interval between scheduled rotations. Start returns immediately when zero.
	Interval time.Duration
}

// Scheduler rotates the master key on a fixed interval.
type Scheduler struct {
	config  Config
	useCase RotationUseCase
	logger  *slog.Logger
}

// NewScheduler creates a Scheduler driving useCase.
func NewScheduler(config Config, useCase RotationUseCase, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		config:  config,
		useCase: useCase,
		logger:  logger,
	}
}

// Start rotates on every tick until ctx is cancelled. Failed rotations are logged and
// the previous keyring stays in effect.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.config.Interval <= 0 {
		s.logger.Info("key rotation scheduler disabled")
		return nil
	}

	s.logger.Info("starting key rotation scheduler", slog.Duration("interval", s.config.Interval))

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping key rotation scheduler")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.useCase.RotateNow(ctx); err != nil {
				s.logger.Error("failed to rotate master key", slog.Any("error", err))
			}
		}
	}
}
