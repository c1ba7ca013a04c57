// Package http serves the reporting endpoints.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/tokenvault/internal/auth/http"
	apperrors "github.com/allisson/tokenvault/internal/errors"
	"github.com/allisson/tokenvault/internal/httputil"
	"github.com/allisson/tokenvault/internal/reporting/http/dto"
	reportingUseCase "github.com/allisson/tokenvault/internal/reporting/usecase"
)

// ReportHandler serves token, compliance and scanner reports.
type ReportHandler struct {
	useCase reportingUseCase.ReportingUseCase
	logger  *slog.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(useCase reportingUseCase.ReportingUseCase, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{
		useCase: useCase,
		logger:  logger,
	}
}

// TokenizationHandler handles GET /v1/reports/tokenization?from=&to=.
func (h *ReportHandler) TokenizationHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	from, to, err := httputil.ParseTimeRange(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	metrics, err := h.useCase.TokenizationMetrics(c.Request.Context(), client.ID, from, to)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenizationMetrics(metrics))
}

// ComplianceHandler handles GET /v1/reports/compliance.
func (h *ReportHandler) ComplianceHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	metrics, err := h.useCase.ComplianceMetrics(c.Request.Context(), client.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapComplianceMetrics(metrics))
}

// ScannerHandler handles GET /v1/reports/scanner?from=&to=.
func (h *ReportHandler) ScannerHandler(c *gin.Context) {
	from, to, err := httputil.ParseTimeRange(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	metrics, err := h.useCase.ScannerMetrics(c.Request.Context(), from, to)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapScannerMetrics(metrics))
}
