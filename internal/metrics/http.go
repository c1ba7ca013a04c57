package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const unmatchedRoute = "unmatched"

type httpInstruments struct {
	requests metric.Int64Counter
	duration metric.Float64Histogram
	inFlight metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter, namespace string) (*httpInstruments, error) {
	requests, err := meter.Int64Counter(
		namespace+"_http_requests_total",
		metric.WithDescription("HTTP requests served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		namespace+"_http_request_duration_seconds",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inFlight, err := meter.Int64UpDownCounter(
		namespace+"_http_requests_in_flight",
		metric.WithDescription("HTTP requests currently being served"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &httpInstruments{requests: requests, duration: duration, inFlight: inFlight}, nil
}

// HTTPMetricsMiddleware records request count, latency and in-flight requests labelled by
// method, route pattern and status. Labelling by pattern (/v1/tokens/:token) keeps token
// handles out of label values. Instrument errors leave requests unmeasured.
func HTTPMetricsMiddleware(meterProvider metric.MeterProvider, namespace string) gin.HandlerFunc {
	instruments, err := newHTTPInstruments(meterProvider.Meter(namespace), namespace)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		method := attribute.String("method", c.Request.Method)

		instruments.inFlight.Add(ctx, 1, metric.WithAttributes(method))
		start := time.Now()

		c.Next()

		elapsed := time.Since(start).Seconds()
		instruments.inFlight.Add(ctx, -1, metric.WithAttributes(method))

		attrs := metric.WithAttributes(
			method,
			attribute.String("route", routeLabel(c.FullPath())),
			attribute.String("status_code", strconv.Itoa(c.Writer.Status())),
		)
		instruments.requests.Add(ctx, 1, attrs)
		instruments.duration.Record(ctx, elapsed, attrs)
	}
}

func routeLabel(fullPath string) string {
	if fullPath == "" {
		return unmatchedRoute
	}
	return fullPath
}
