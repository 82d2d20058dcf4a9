package observability

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics_ExposesAssessmentInstruments(t *testing.T) {
	provider, handler, err := InitMetrics(MetricsConfig{ServiceName: "loan-risk"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	m, err := NewAssessmentMetrics(provider.Meter("loan-risk"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordVerdict(ctx, "LOW", 0.08)
	m.RecordVerdict(ctx, "HIGH", 0.45)
	m.RecordFailure(ctx, "invalid_input")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "loanrisk_assessments_total")
	assert.Contains(t, string(body), "loanrisk_assessment_failures_total")
	assert.Contains(t, string(body), `tier="HIGH"`)
}

func TestInitMetrics_IndependentRegistries(t *testing.T) {
	p1, _, err := InitMetrics(MetricsConfig{ServiceName: "a"})
	require.NoError(t, err)
	p2, _, err := InitMetrics(MetricsConfig{ServiceName: "b"})
	require.NoError(t, err)

	assert.NotSame(t, p1, p2)
}
