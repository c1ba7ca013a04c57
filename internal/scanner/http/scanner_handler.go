// Package http exposes scan triggering and scanner status.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/tokenvault/internal/httputil"
	"github.com/allisson/tokenvault/internal/scanner/http/dto"
	scannerUseCase "github.com/allisson/tokenvault/internal/scanner/usecase"
)

// SchedulerState reports whether scheduled scanning is active.
type SchedulerState interface {
	Active() bool
}

// ScannerHandler serves the scanner endpoints.
type ScannerHandler struct {
	useCase   scannerUseCase.ScannerUseCase
	scheduler SchedulerState
	logger    *slog.Logger
}

// NewScannerHandler creates a ScannerHandler. scheduler may be nil when scheduled
// scanning is disabled.
func NewScannerHandler(
	useCase scannerUseCase.ScannerUseCase,
	scheduler SchedulerState,
	logger *slog.Logger,
) *ScannerHandler {
	return &ScannerHandler{
		useCase:   useCase,
		scheduler: scheduler,
		logger:    logger,
	}
}

// ScanHandler handles POST /v1/scanner/scan. The run executes synchronously on
// behalf of the system owner.
func (h *ScannerHandler) ScanHandler(c *gin.Context) {
	report, err := h.useCase.Scan(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapReportToResponse(report))
}

// StatusHandler handles GET /v1/scanner/status.
func (h *ScannerHandler) StatusHandler(c *gin.Context) {
	scheduled := h.scheduler != nil && h.scheduler.Active()
	c.JSON(http.StatusOK, dto.MapStatusToResponse(h.useCase.Status(), scheduled))
}
