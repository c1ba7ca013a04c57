package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authDomain "github.com/allisson/tokenvault/internal/auth/domain"
	"github.com/allisson/tokenvault/internal/auth/http/dto"
	authUseCase "github.com/allisson/tokenvault/internal/auth/usecase"
	"github.com/allisson/tokenvault/internal/httputil"
	customValidation "github.com/allisson/tokenvault/internal/validation"
)

// TokenHandler exchanges client credentials for bearer tokens.
type TokenHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(tokenUseCase authUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// IssueTokenHandler handles POST /v1/token. No authentication required.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	output, err := h.tokenUseCase.Issue(c.Request.Context(), &authDomain.IssueTokenInput{
		ClientID:     req.ParsedClientID(),
		ClientSecret: req.ClientSecret,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewIssueTokenResponse(output.PlainToken, output.ExpiresAt))
}
