package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/tokenvault/internal/errors"
)

func runHandler(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, ErrorResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	fn(c)

	var body ErrorResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestHandleErrorGin(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedStatus  int
		expectedCode    string
		expectedMessage string
	}{
		{
			name:            "not found",
			err:             apperrors.Wrap(apperrors.ErrNotFound, "token not found"),
			expectedStatus:  http.StatusNotFound,
			expectedCode:    "not_found",
			expectedMessage: "The requested resource was not found",
		},
		{
			name:            "gone exposes message",
			err:             apperrors.Wrap(apperrors.ErrGone, "token expired at 2026-01-02T03:04:05Z"),
			expectedStatus:  http.StatusGone,
			expectedCode:    "gone",
			expectedMessage: "token expired at 2026-01-02T03:04:05Z: gone",
		},
		{
			name:            "invalid input exposes message",
			err:             apperrors.Wrap(apperrors.ErrInvalidInput, "hours must be positive"),
			expectedStatus:  http.StatusUnprocessableEntity,
			expectedCode:    "invalid_input",
			expectedMessage: "hours must be positive: invalid input",
		},
		{
			name:           "conflict",
			err:            apperrors.ErrConflict,
			expectedStatus: http.StatusConflict,
			expectedCode:   "conflict",
		},
		{
			name:           "unauthorized",
			err:            apperrors.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "unauthorized",
		},
		{
			name:           "forbidden",
			err:            apperrors.ErrForbidden,
			expectedStatus: http.StatusForbidden,
			expectedCode:   "forbidden",
		},
		{
			name:            "unprocessable hides details",
			err:             apperrors.Wrap(apperrors.ErrUnprocessable, "gcm: message authentication failed"),
			expectedStatus:  http.StatusInternalServerError,
			expectedCode:    "unprocessable",
			expectedMessage: "The stored data could not be processed",
		},
		{
			name:            "unknown error",
			err:             errors.New("connection refused"),
			expectedStatus:  http.StatusInternalServerError,
			expectedCode:    "internal_error",
			expectedMessage: "An internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := runHandler(t, func(c *gin.Context) {
				HandleErrorGin(c, tt.err, nil)
			})

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedCode, body.Error)
			if tt.expectedMessage != "" {
				assert.Equal(t, tt.expectedMessage, body.Message)
			}
		})
	}

	t.Run("nil error writes nothing", func(t *testing.T) {
		w, _ := runHandler(t, func(c *gin.Context) {
			HandleErrorGin(c, nil, nil)
		})
		assert.Equal(t, 0, w.Body.Len())
	})
}

func TestHandleBadRequestGin(t *testing.T) {
	w, body := runHandler(t, func(c *gin.Context) {
		HandleBadRequestGin(c, errors.New("invalid character"), nil)
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "bad_request", body.Error)
	assert.Equal(t, "invalid character", body.Message)
}

func TestHandleValidationErrorGin(t *testing.T) {
	w, body := runHandler(t, func(c *gin.Context) {
		HandleValidationErrorGin(c, errors.New("fields: cannot be blank."), nil)
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation_error", body.Error)
}
