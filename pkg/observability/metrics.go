package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string

	// SkipRuntimeCollectors leaves out Go runtime and process metrics.
	SkipRuntimeCollectors bool
}

// InitMetrics builds an OpenTelemetry MeterProvider exported through a
// dedicated Prometheus registry, installs it globally, and returns the
// /metrics handler serving that registry.
func InitMetrics(cfg MetricsConfig) (*sdkmetric.MeterProvider, http.Handler, error) {
	registry := prometheus.NewRegistry()
	if !cfg.SkipRuntimeCollectors {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, nil, fmt.Errorf("prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(provider)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return provider, handler, nil
}

// EngineMetrics records snapshot throughput. It satisfies the application's
// SnapshotMetrics port.
type EngineMetrics struct {
	computed      metric.Int64Counter
	failed        metric.Int64Counter
	batchDuration metric.Float64Histogram
	batchLoans    metric.Int64Counter
}

// NewEngineMetrics registers the engine instruments on the given provider.
func NewEngineMetrics(provider metric.MeterProvider) (*EngineMetrics, error) {
	meter := provider.Meter("github.com/LibertytechX/seeds-metrics")

	computed, err := meter.Int64Counter("loanmetrics_snapshots_computed",
		metric.WithDescription("Loan metrics snapshots computed and stored."))
	if err != nil {
		return nil, err
	}
	failed, err := meter.Int64Counter("loanmetrics_snapshot_failures",
		metric.WithDescription("Loan metrics snapshots that could not be computed."))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("loanmetrics_batch_duration",
		metric.WithDescription("Wall time of portfolio recompute runs."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 15, 30, 60, 120, 300, 600, 1800))
	if err != nil {
		return nil, err
	}
	loans, err := meter.Int64Counter("loanmetrics_batch_loans",
		metric.WithDescription("Loans processed by portfolio recompute runs, by outcome."))
	if err != nil {
		return nil, err
	}

	return &EngineMetrics{
		computed:      computed,
		failed:        failed,
		batchDuration: duration,
		batchLoans:    loans,
	}, nil
}

func (m *EngineMetrics) SnapshotComputed(ctx context.Context) {
	m.computed.Add(ctx, 1)
}

func (m *EngineMetrics) SnapshotFailed(ctx context.Context, reason string) {
	m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *EngineMetrics) BatchCompleted(ctx context.Context, elapsed time.Duration, succeeded, failed int) {
	m.batchDuration.Record(ctx, elapsed.Seconds())
	m.batchLoans.Add(ctx, int64(succeeded), metric.WithAttributes(attribute.String("outcome", "succeeded")))
	m.batchLoans.Add(ctx, int64(failed), metric.WithAttributes(attribute.String("outcome", "failed")))
}
