// Package http provides the gin API server, its routes and the metrics server.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditHTTP "github.com/allisson/tokenvault/internal/audit/http"
	authHTTP "github.com/allisson/tokenvault/internal/auth/http"
	reportingHTTP "github.com/allisson/tokenvault/internal/reporting/http"
	scannerHTTP "github.com/allisson/tokenvault/internal/scanner/http"
	tokenizationHTTP "github.com/allisson/tokenvault/internal/tokenization/http"
)

// Server is the API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a Server. Call SetupRouter before Start.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handlers groups the per-context HTTP handlers and middleware mounted by SetupRouter.
type Handlers struct {
	Token        *authHTTP.TokenHandler
	Tokenization *tokenizationHTTP.TokenizationHandler
	Audit        *auditHTTP.AuditHandler
	Report       *reportingHTTP.ReportHandler
	// Scanner is nil when no scan source is configured.
	Scanner *scannerHTTP.ScannerHandler

	Authentication gin.HandlerFunc
	// ClientRateLimit and IPRateLimit are nil when rate limiting is disabled.
	ClientRateLimit gin.HandlerFunc
	IPRateLimit     gin.HandlerFunc
	// Metrics is nil when metrics are disabled.
	Metrics gin.HandlerFunc
}

// RouterConfig holds router options.
type RouterConfig struct {
	CORSEnabled      bool
	CORSAllowOrigins string
}

// SetupRouter builds the gin engine.
func (s *Server) SetupRouter(cfg RouterConfig, h Handlers) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))
	if h.Metrics != nil {
		router.Use(h.Metrics)
	}
	if corsMiddleware := newCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")

	issue := []gin.HandlerFunc{}
	if h.IPRateLimit != nil {
		issue = append(issue, h.IPRateLimit)
	}
	issue = append(issue, h.Token.IssueTokenHandler)
	v1.POST("/token", issue...)

	authenticated := v1.Group("")
	authenticated.Use(h.Authentication)
	if h.ClientRateLimit != nil {
		authenticated.Use(h.ClientRateLimit)
	}

	authenticated.POST("/tokenize", h.Tokenization.TokenizeHandler)
	authenticated.POST("/tokenize/bulk", h.Tokenization.BulkTokenizeHandler)
	authenticated.POST("/detokenize", h.Tokenization.DetokenizeHandler)

	tokens := authenticated.Group("/tokens")
	{
		tokens.GET("/:token", h.Tokenization.GetInfoHandler)
		tokens.POST("/:token/extend", h.Tokenization.ExtendHandler)
		tokens.POST("/:token/revoke", h.Tokenization.RevokeHandler)
	}

	authenticated.GET("/audit-logs", h.Audit.ListHandler)

	reports := authenticated.Group("/reports")
	{
		reports.GET("/tokenization", h.Report.TokenizationHandler)
		reports.GET("/compliance", h.Report.ComplianceHandler)
		reports.GET("/scanner", h.Report.ScannerHandler)
	}

	if h.Scanner != nil {
		scanner := authenticated.Group("/scanner")
		{
			scanner.POST("/scan", h.Scanner.ScanHandler)
			scanner.GET("/status", h.Scanner.StatusHandler)
		}
	}

	s.router = router
}

// GetHandler returns the configured router.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler pings the database.
func (s *Server) readinessHandler(c *gin.Context) {
	database := "ok"
	if s.db == nil {
		database = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			database = "error"
		}
	}

	if database != "ok" {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": database},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": database},
	})
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
