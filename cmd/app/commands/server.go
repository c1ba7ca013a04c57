package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/allisson/tokenvault/internal/app"
	"github.com/allisson/tokenvault/internal/config"
)

// worker is a background loop that runs until its context is cancelled.
type worker struct {
	name  string
	start func(ctx context.Context) error
}

// RunServer starts the API server, the metrics server and the background
// workers, and blocks until SIGINT/SIGTERM or a fatal error.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	metricsServer, err := container.MetricsServer()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics server: %w", err)
	}

	workers, err := backgroundWorkers(container, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize background workers: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErr := make(chan error, 2+len(workers))
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErr <- fmt.Errorf("api server error: %w", err)
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(ctx); err != nil {
				serverErr <- fmt.Errorf("metrics server error: %w", err)
			}
		}()
	}

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	var group errgroup.Group
	for _, w := range workers {
		group.Go(func() error {
			if err := w.start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
				err = fmt.Errorf("%s error: %w", w.name, err)
				serverErr <- err
				return err
			}
			return nil
		})
	}

	var shutdownErrors []error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		logger.Error("server error, initiating shutdown", slog.Any("error", err))
		shutdownErrors = append(shutdownErrors, err)
	}

	stopWorkers()
	_ = group.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	return errors.Join(shutdownErrors...)
}

// backgroundWorkers lists the loops enabled by cfg. Key rotation is always
// listed; its scheduler returns at once when the interval is zero.
func backgroundWorkers(container *app.Container, cfg *config.Config) ([]worker, error) {
	rotation, err := container.RotationScheduler()
	if err != nil {
		return nil, err
	}
	workers := []worker{{name: "key rotation scheduler", start: rotation.Start}}

	if cfg.AuditRelayEnabled {
		relay, err := container.AuditRelayUseCase()
		if err != nil {
			return nil, err
		}
		workers = append(workers, worker{name: "audit relay", start: relay.Start})
	}

	if cfg.ScannerEnabled {
		scheduler, err := container.ScannerScheduler()
		if err != nil {
			return nil, err
		}
		workers = append(workers, worker{name: "scanner scheduler", start: scheduler.Start})
	}

	return workers, nil
}
