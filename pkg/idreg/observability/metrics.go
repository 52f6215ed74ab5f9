package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records idreg metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordInsert records a successful insertion into a registry.
	RecordInsert(ctx context.Context, label string, named bool)

	// RecordConflict records an insertion rejected for a duplicate name.
	RecordConflict(ctx context.Context, label string)

	// RecordSnapshot records a saved snapshot with its entry count and encoded size.
	RecordSnapshot(ctx context.Context, label string, entries int, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	inserts         metric.Int64Counter
	conflicts       metric.Int64Counter
	snapshotSize    metric.Int64Histogram
	snapshotEntries metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("idreg")

	inserts, err := meter.Int64Counter("idreg.registry.inserts",
		metric.WithDescription("Number of entries added to registries"),
	)
	if err != nil {
		return nil, err
	}

	conflicts, err := meter.Int64Counter("idreg.registry.conflicts",
		metric.WithDescription("Number of insertions rejected for duplicate names"),
	)
	if err != nil {
		return nil, err
	}

	snapshotSize, err := meter.Int64Histogram("idreg.snapshot.size_bytes",
		metric.WithDescription("Encoded snapshot size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	snapshotEntries, err := meter.Int64Histogram("idreg.snapshot.entries",
		metric.WithDescription("Number of entries per saved snapshot"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		inserts:         inserts,
		conflicts:       conflicts,
		snapshotSize:    snapshotSize,
		snapshotEntries: snapshotEntries,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordInsert records an insertion.
func (m *otelMetrics) RecordInsert(ctx context.Context, label string, named bool) {
	m.inserts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", label),
		attribute.Bool("named", named),
	))
}

// RecordConflict records a duplicate-name rejection.
func (m *otelMetrics) RecordConflict(ctx context.Context, label string) {
	m.conflicts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("registry", label),
	))
}

// RecordSnapshot records a snapshot save.
func (m *otelMetrics) RecordSnapshot(ctx context.Context, label string, entries int, sizeBytes int64) {
	attrs := metric.WithAttributes(attribute.String("registry", label))
	m.snapshotSize.Record(ctx, sizeBytes, attrs)
	m.snapshotEntries.Record(ctx, int64(entries), attrs)
}
