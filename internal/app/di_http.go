package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/tokenvault/internal/auth/http"
	"github.com/allisson/tokenvault/internal/http"
	"github.com/allisson/tokenvault/internal/metrics"
)

// HTTPServer returns the API server with every route wired.
func (c *Container) HTTPServer() (*http.Server, error) {
	return c.httpServer.get(c.initHTTPServer)
}

func (c *Container) initHTTPServer() (*http.Server, error) {
	logger := c.Logger()

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for http server: %w", err)
	}

	var handlers http.Handlers
	if handlers.Token, err = c.TokenHandler(); err != nil {
		return nil, fmt.Errorf("failed to initialize token handler: %w", err)
	}
	if handlers.Tokenization, err = c.TokenizationHandler(); err != nil {
		return nil, fmt.Errorf("failed to initialize tokenization handler: %w", err)
	}
	if handlers.Audit, err = c.AuditHandler(); err != nil {
		return nil, fmt.Errorf("failed to initialize audit handler: %w", err)
	}
	if handlers.Report, err = c.ReportHandler(); err != nil {
		return nil, fmt.Errorf("failed to initialize report handler: %w", err)
	}
	if handlers.Scanner, err = c.ScannerHandler(); err != nil {
		return nil, fmt.Errorf("failed to initialize scanner handler: %w", err)
	}
	if handlers.Authentication, err = c.AuthenticationMiddleware(); err != nil {
		return nil, fmt.Errorf("failed to initialize authentication middleware: %w", err)
	}

	clientLimiter, err := c.ClientRateLimiter()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client rate limiter: %w", err)
	}
	if clientLimiter != nil {
		handlers.ClientRateLimit = authHTTP.RateLimitMiddleware(clientLimiter, authHTTP.ClientKey, logger)
	}

	ipLimiter, err := c.IPRateLimiter()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ip rate limiter: %w", err)
	}
	if ipLimiter != nil {
		handlers.IPRateLimit = authHTTP.RateLimitMiddleware(ipLimiter, authHTTP.IPKey, logger)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider != nil {
		handlers.Metrics = metrics.HTTPMetricsMiddleware(provider.MeterProvider(), c.config.MetricsNamespace)
	}

	gin.SetMode(c.config.GetGinMode())

	server := http.NewServer(db, c.config.ServerHost, c.config.ServerPort, logger)
	server.SetupRouter(http.RouterConfig{
		CORSEnabled:      c.config.CORSEnabled,
		CORSAllowOrigins: c.config.CORSAllowOrigins,
	}, handlers)

	return server, nil
}

// MetricsServer returns the Prometheus server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.metricsServer.get(func() (*http.MetricsServer, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, nil
		}
		return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, provider.Handler(), c.Logger()), nil
	})
}
