// Package http exposes the audit trail of the authenticated client.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	auditDomain "github.com/allisson/tokenvault/internal/audit/domain"
	"github.com/allisson/tokenvault/internal/audit/http/dto"
	auditUseCase "github.com/allisson/tokenvault/internal/audit/usecase"
	authHTTP "github.com/allisson/tokenvault/internal/auth/http"
	apperrors "github.com/allisson/tokenvault/internal/errors"
	"github.com/allisson/tokenvault/internal/httputil"
)

// AuditHandler serves audit event queries.
type AuditHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(auditUseCase auditUseCase.AuditUseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditUseCase: auditUseCase,
		logger:       logger,
	}
}

// ListHandler handles GET /v1/audit-logs?action=&from=&to=&offset=&limit=.
// Clients only see events they are the actor of.
func (h *AuditHandler) ListHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	from, to, err := httputil.ParseTimeRange(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	ownerID := client.ID
	events, err := h.auditUseCase.List(c.Request.Context(), auditDomain.Filter{
		OwnerID: &ownerID,
		Action:  auditDomain.Action(c.Query("action")),
		From:    from,
		To:      to,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventsToListResponse(events, offset, limit))
}
