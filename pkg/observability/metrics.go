package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
}

// InitMetrics wires an OpenTelemetry MeterProvider to a Prometheus exporter
// backed by its own registry. The returned handler serves that registry.
func InitMetrics(cfg MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("observability: create prometheus exporter for %s: %w", cfg.ServiceName, err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return provider, handler, nil
}

// AssessmentMetrics records pipeline outcomes.
type AssessmentMetrics struct {
	assessments        metric.Int64Counter
	failures           metric.Int64Counter
	defaultProbability metric.Float64Histogram
}

// NewAssessmentMetrics registers the assessment instruments on the given meter.
func NewAssessmentMetrics(meter metric.Meter) (*AssessmentMetrics, error) {
	assessments, err := meter.Int64Counter("loanrisk.assessments",
		metric.WithDescription("Completed risk assessments by tier"))
	if err != nil {
		return nil, fmt.Errorf("observability: assessments counter: %w", err)
	}

	failures, err := meter.Int64Counter("loanrisk.assessment_failures",
		metric.WithDescription("Failed risk assessments by failure kind"))
	if err != nil {
		return nil, fmt.Errorf("observability: failures counter: %w", err)
	}

	defaultProbability, err := meter.Float64Histogram("loanrisk.default_probability",
		metric.WithDescription("Unrounded default probability produced by the classifier"),
		metric.WithExplicitBucketBoundaries(0.05, 0.10, 0.15, 0.20, 0.25, 0.30, 0.40, 0.50, 0.75, 1.0))
	if err != nil {
		return nil, fmt.Errorf("observability: default probability histogram: %w", err)
	}

	return &AssessmentMetrics{
		assessments:        assessments,
		failures:           failures,
		defaultProbability: defaultProbability,
	}, nil
}

// RecordVerdict counts a completed assessment.
func (m *AssessmentMetrics) RecordVerdict(ctx context.Context, tier string, defaultProbability float64) {
	attrs := metric.WithAttributes(attribute.String("tier", tier))
	m.assessments.Add(ctx, 1, attrs)
	m.defaultProbability.Record(ctx, defaultProbability, attrs)
}

// RecordFailure counts a failed assessment.
func (m *AssessmentMetrics) RecordFailure(ctx context.Context, kind string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
