// Package httputil provides HTTP helpers shared by the gin handlers.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/tokenvault/internal/errors"
)

// ErrorResponse is the JSON body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorMapping associates a sentinel with its HTTP reply. When exposeMessage is set the
// wrapped error text is returned to the caller; otherwise message is used verbatim.
type errorMapping struct {
	sentinel      error
	status        int
	code          string
	message       string
	exposeMessage bool
}

var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found", false},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data", false},
	{apperrors.ErrGone, http.StatusGone, "gone", "", true},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", "", true},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required", false},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "You don't have permission to access this resource", false},
	{
		apperrors.ErrUnprocessable,
		http.StatusInternalServerError,
		"unprocessable",
		"The stored data could not be processed",
		false,
	},
}

// HandleErrorGin maps err to a status code by sentinel and writes the JSON reply.
// Unknown errors become 500 internal_error without details.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode := http.StatusInternalServerError
	errorResponse := ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}

	for _, m := range errorMappings {
		if !apperrors.Is(err, m.sentinel) {
			continue
		}
		statusCode = m.status
		errorResponse = ErrorResponse{Error: m.code, Message: m.message}
		if m.exposeMessage {
			errorResponse.Message = err.Error()
		}
		break
	}

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 reply for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 reply for request validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
