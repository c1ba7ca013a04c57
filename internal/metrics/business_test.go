package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertBizMetricLine matches a metric line by name, partial label pattern and value.
// OTel scope labels injected by the exporter are tolerated.
func assertBizMetricLine(t *testing.T, output, name, labels, value string) {
	t.Helper()
	pattern := name + `\{[^}]*` + labels + `[^}]*\} ` + value
	assert.Regexp(t, pattern, output)
}

func scrape(t *testing.T, provider *Provider) string {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)
	return w.Body.String()
}

func TestNewBusinessMetrics(t *testing.T) {
	provider, err := NewProvider("test_app")
	require.NoError(t, err)

	businessMetrics, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")

	require.NoError(t, err)
	assert.NotNil(t, businessMetrics)
}

func TestNewNoOpBusinessMetrics(t *testing.T) {
	noOpMetrics := NewNoOpBusinessMetrics()

	assert.IsType(t, &NoOpBusinessMetrics{}, noOpMetrics)

	ctx := context.Background()
	noOpMetrics.RecordOperation(ctx, "tokenization", "create", "success")
	noOpMetrics.RecordDuration(ctx, "tokenization", "create", 10*time.Millisecond, "error")
	noOpMetrics.RecordItems(ctx, "tokenization", "created", 3)
	noOpMetrics.RecordKeyGeneration(ctx, 2)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "error", Status(assert.AnError))
}

func TestBusinessMetrics_Integration(t *testing.T) {
	provider, err := NewProvider("integration_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	bm, err := NewBusinessMetrics(provider.MeterProvider(), "integration_test")
	require.NoError(t, err)

	ctx := context.Background()

	bm.RecordOperation(ctx, "tokenization", "create", "success")
	bm.RecordOperation(ctx, "tokenization", "create", "success")
	bm.RecordOperation(ctx, "tokenization", "retrieve", "error")
	bm.RecordDuration(ctx, "tokenization", "create", 50*time.Millisecond, "success")
	bm.RecordDuration(ctx, "tokenization", "create", 70*time.Millisecond, "success")
	bm.RecordItems(ctx, "tokenization", "duplicate", 4)
	bm.RecordItems(ctx, "tokenization", "failed", 0)
	bm.RecordKeyGeneration(ctx, 3)

	output := scrape(t, provider)

	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="tokenization".*operation="create".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operations_total`,
		`domain="tokenization".*operation="retrieve".*status="error"`,
		`1`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_operation_duration_seconds_count`,
		`domain="tokenization".*operation="create".*status="success"`,
		`2`,
	)
	assertBizMetricLine(
		t,
		output,
		`integration_test_batch_items_total`,
		`domain="tokenization".*outcome="duplicate"`,
		`4`,
	)
	assert.NotContains(t, output, `outcome="failed"`)
	assert.Regexp(t, `integration_test_master_key_generation\{[^}]*\} 3`, output)
	assert.Contains(t, output, "go_goroutines")
}
