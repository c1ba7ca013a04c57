// Package app provides the dependency injection container assembling the
// tokenization service.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/tokenvault/internal/config"
	"github.com/allisson/tokenvault/internal/database"
	"github.com/allisson/tokenvault/internal/http"
	"github.com/allisson/tokenvault/internal/metrics"
)

// lazy initializes a component on first access and remembers the outcome,
// including a failed initialization.
type lazy[T any] struct {
	once  sync.Once
	value T
	err   error
}

func (l *lazy[T]) get(init func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.value, l.err = init()
	})
	return l.value, l.err
}

// Container holds all application dependencies. Components are created on
// first access.
type Container struct {
	config *config.Config

	loggerInit sync.Once
	logger     *slog.Logger

	db              lazy[*sql.DB]
	txManager       lazy[database.TxManager]
	metricsProvider lazy[*metrics.Provider]
	businessMetrics lazy[metrics.BusinessMetrics]
	httpServer      lazy[*http.Server]
	metricsServer   lazy[*http.MetricsServer]
	crypto          cryptoComponents
	auth            authComponents
	audit           auditComponents
	tokenization    tokenizationComponents
	scanner         scannerComponents
	reporting       reportingComponents

	// closers run in reverse order on Shutdown.
	mu      sync.Mutex
	closers []namedCloser
}

type namedCloser struct {
	name  string
	close func(ctx context.Context) error
}

// NewContainer creates a container for cfg.
func NewContainer(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the JSON logger at the configured level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = newLogger(os.Stdout, c.config.LogLevel)
	})
	return c.logger
}

// DB returns the database connection.
func (c *Container) DB() (*sql.DB, error) {
	return c.db.get(func() (*sql.DB, error) {
		db, err := database.Connect(database.Config{
			Driver:             c.config.DBDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		c.onShutdown("database", func(context.Context) error { return db.Close() })
		return db, nil
	})
}

// TxManager returns the transaction manager.
func (c *Container) TxManager() (database.TxManager, error) {
	return c.txManager.get(func() (database.TxManager, error) {
		db, err := c.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
		}
		return database.NewTxManager(db), nil
	})
}

// MetricsProvider returns the Prometheus-backed meter provider, or nil when
// metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metricsProvider.get(func() (*metrics.Provider, error) {
		if !c.config.MetricsEnabled {
			return nil, nil
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics provider: %w", err)
		}
		c.onShutdown("metrics provider", provider.Shutdown)
		return provider, nil
	})
}

// BusinessMetrics returns the use case instrumentation; a no-op recorder when
// metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.businessMetrics.get(func() (metrics.BusinessMetrics, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return metrics.NewNoOpBusinessMetrics(), nil
		}
		return metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	})
}

// onShutdown registers a cleanup step for an initialized resource.
func (c *Container) onShutdown(name string, fn func(ctx context.Context) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closers = append(c.closers, namedCloser{name: name, close: fn})
}

// Shutdown releases every initialized resource, newest first.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	closers := c.closers
	c.closers = nil
	c.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s shutdown: %w", closers[i].name, err))
		}
	}
	return errors.Join(errs...)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel}))
}
