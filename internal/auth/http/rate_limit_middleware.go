package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/tokenvault/internal/errors"
	"github.com/allisson/tokenvault/internal/httputil"
	"github.com/allisson/tokenvault/internal/ratelimit"
)

// KeyFunc extracts the rate limit key from a request. ok is false when no key
// can be derived.
type KeyFunc func(c *gin.Context) (key string, ok bool)

// ClientKey keys requests by the authenticated client ID. It must run after
// AuthenticationMiddleware.
func ClientKey(c *gin.Context) (string, bool) {
	client, ok := GetClient(c.Request.Context())
	if !ok {
		return "", false
	}
	return "client:" + client.ID.String(), true
}

// IPKey keys requests by client IP, for unauthenticated endpoints.
func IPKey(c *gin.Context) (string, bool) {
	return "ip:" + c.ClientIP(), true
}

// RateLimitMiddleware rejects requests over the limiter's budget with 429 and
// a Retry-After header in whole seconds. Limiter errors fail open.
func RateLimitMiddleware(limiter ratelimit.Limiter, keyFunc KeyFunc, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := keyFunc(c)
		if !ok {
			logger.Error("rate limit middleware: no rate limit key for request")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		decision, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request",
				slog.String("key", key),
				slog.Any("error", err))
			c.Next()
			return
		}

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter.Seconds()))
			logger.Debug("rate limit exceeded",
				slog.String("key", key),
				slog.Int("retry_after", retryAfter))

			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.JSON(http.StatusTooManyRequests, httputil.ErrorResponse{
				Error:   "rate_limit_exceeded",
				Message: "Too many requests. Please retry after the specified delay.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
