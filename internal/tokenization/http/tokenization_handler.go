// Package http exposes the token lifecycle over gin.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/tokenvault/internal/auth/http"
	apperrors "github.com/allisson/tokenvault/internal/errors"
	"github.com/allisson/tokenvault/internal/httputil"
	tokenizationDomain "github.com/allisson/tokenvault/internal/tokenization/domain"
	"github.com/allisson/tokenvault/internal/tokenization/http/dto"
	tokenizationUseCase "github.com/allisson/tokenvault/internal/tokenization/usecase"
	customValidation "github.com/allisson/tokenvault/internal/validation"
)

// TokenizationHandler handles the token endpoints. Every route runs behind
// AuthenticationMiddleware; the authenticated client is the token owner.
type TokenizationHandler struct {
	tokenizationUseCase tokenizationUseCase.TokenizationUseCase
	logger              *slog.Logger
}

// NewTokenizationHandler creates a TokenizationHandler.
func NewTokenizationHandler(
	tokenizationUseCase tokenizationUseCase.TokenizationUseCase,
	logger *slog.Logger,
) *TokenizationHandler {
	return &TokenizationHandler{
		tokenizationUseCase: tokenizationUseCase,
		logger:              logger,
	}
}

// bind decodes and validates the JSON body. It writes the error reply and returns
// false on failure.
func (h *TokenizationHandler) bind(c *gin.Context, req interface{ Validate() error }) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return false
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return false
	}
	return true
}

// TokenizeHandler handles POST /v1/tokenize.
func (h *TokenizationHandler) TokenizeHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.TokenizeRequest
	if !h.bind(c, &req) {
		return
	}

	token, err := h.tokenizationUseCase.Create(
		c.Request.Context(),
		client.ID,
		tokenizationDomain.Fields(req.Fields),
		req.ExpiryHours,
	)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTokenToResponse(token))
}

// BulkTokenizeHandler handles POST /v1/tokenize/bulk. Per-item failures are reported
// in the body with 200.
func (h *TokenizationHandler) BulkTokenizeHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.BulkTokenizeRequest
	if !h.bind(c, &req) {
		return
	}

	output, err := h.tokenizationUseCase.CreateBulk(c.Request.Context(), client.ID, req.BulkItems())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapBulkOutputToResponse(output))
}

// DetokenizeHandler handles POST /v1/detokenize.
func (h *TokenizationHandler) DetokenizeHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.DetokenizeRequest
	if !h.bind(c, &req) {
		return
	}

	fields, err := h.tokenizationUseCase.Retrieve(c.Request.Context(), client.ID, req.Token)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.DetokenizeResponse{Fields: fields})
}

// GetInfoHandler handles GET /v1/tokens/:token.
func (h *TokenizationHandler) GetInfoHandler(c *gin.Context) {
	info, err := h.tokenizationUseCase.GetInfo(c.Request.Context(), c.Param("token"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapInfoToResponse(info))
}

// ExtendHandler handles POST /v1/tokens/:token/extend.
func (h *TokenizationHandler) ExtendHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.ExtendRequest
	if !h.bind(c, &req) {
		return
	}

	token, err := h.tokenizationUseCase.Extend(c.Request.Context(), client.ID, c.Param("token"), req.Hours)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenToResponse(token))
}

// RevokeHandler handles POST /v1/tokens/:token/revoke.
func (h *TokenizationHandler) RevokeHandler(c *gin.Context) {
	client, ok := authHTTP.GetClient(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	token, err := h.tokenizationUseCase.Revoke(c.Request.Context(), client.ID, c.Param("token"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTokenToResponse(token))
}
