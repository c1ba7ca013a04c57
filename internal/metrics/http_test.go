package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success_RecordHTTPMetrics", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		router := gin.New()
		router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "test_app"))
		router.POST("/v1/tokenize", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"token": "abc"})
		})
		router.GET("/error", func(c *gin.Context) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		})

		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/tokenize", nil))
			assert.Equal(t, http.StatusCreated, w.Code)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/error", nil))
		assert.Equal(t, http.StatusInternalServerError, w.Code)

		output := scrape(t, provider)
		assertBizMetricLine(
			t,
			output,
			`test_app_http_requests_total`,
			`method="POST".*route="/v1/tokenize".*status_code="201"`,
			`3`,
		)
		assertBizMetricLine(t, output, `test_app_http_requests_total`, `status_code="500"`, `1`)
	})

	t.Run("Success_RoutePatternHidesTokenHandle", func(t *testing.T) {
		provider, err := NewProvider("test_app")
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, provider.Shutdown(context.Background()))
		}()

		router := gin.New()
		router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "test_app"))
		router.GET("/v1/tokens/:token", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"token": c.Param("token")})
		})

		handle := "5f2b0c2f6e2a4f1f9b7d3c1a0e8d6b4a5f2b0c2f6e2a4f1f9b7d3c1a0e8d6b4a"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/tokens/"+handle, nil))
		assert.Equal(t, http.StatusOK, w.Code)

		output := scrape(t, provider)
		assert.Contains(t, output, `route="/v1/tokens/:token"`)
		assert.NotContains(t, output, handle)
	})
}

func TestHTTPMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "test_app"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/does-not-exist", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	output := scrape(t, provider)
	assertBizMetricLine(t, output, `test_app_http_requests_total`, `route="unmatched".*status_code="404"`, `1`)
	assert.Contains(t, output, `test_app_http_requests_in_flight`)
	assert.NotContains(t, output, "does-not-exist")
}

func TestRouteLabel(t *testing.T) {
	assert.Equal(t, "/v1/tokens/:token/extend", routeLabel("/v1/tokens/:token/extend"))
	assert.Equal(t, unmatchedRoute, routeLabel(""))
}
