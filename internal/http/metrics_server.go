package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// MetricsServer serves Prometheus scrapes on its own port, apart from the API listener.
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewMetricsServer serves metricsHandler at /metrics and a liveness probe at /health.
func NewMetricsServer(host string, port int, metricsHandler http.Handler, logger *slog.Logger) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(metricsHandler))
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	return &MetricsServer{
		server: &http.Server{
			Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
		},
		logger: logger,
	}
}

func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start blocks until the server stops. A graceful Shutdown returns nil.
func (s *MetricsServer) Start(_ context.Context) error {
	s.logger.Info("metrics server listening", slog.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("metrics server stopping")
	return s.server.Shutdown(ctx)
}
