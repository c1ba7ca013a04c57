package usecase

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	apperrors "github.com/allisson/tokenvault/internal/errors"
	scannerDomain "github.com/allisson/tokenvault/internal/scanner/domain"
)

// Scheduler runs a scan on a fixed interval.
type Scheduler struct {
	interval time.Duration
	useCase  ScannerUseCase
	logger   *slog.Logger
	active   atomic.Bool
}

// NewScheduler creates a Scheduler driving useCase. A zero interval disables it.
func NewScheduler(interval time.Duration, useCase ScannerUseCase, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		useCase:  useCase,
		logger:   logger,
	}
}

// Active reports whether Start is looping.
func (s *Scheduler) Active() bool {
	return s.active.Load()
}

// Start scans on every tick until ctx is cancelled. A tick that finds a run already
// in progress is skipped.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info("scanner scheduler disabled")
		return nil
	}

	s.logger.Info("starting scanner scheduler", slog.Duration("interval", s.interval))
	s.active.Store(true)
	defer s.active.Store(false)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping scanner scheduler")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.useCase.Scan(ctx); err != nil && !apperrors.Is(err, scannerDomain.ErrScanInProgress) {
				s.logger.Error("scheduled scan failed", slog.Any("error", err))
			}
		}
	}
}
