package registry

import (
	"log/slog"

	"github.com/randalmurphal/idreg/pkg/idreg/observability"
)

// options holds optional collaborators for a registry.
type options struct {
	label    string
	capacity int
	logger   *slog.Logger
	metrics  observability.MetricsRecorder
}

// defaultOptions returns the default registry configuration.
func defaultOptions() options {
	return options{
		label:   "default",
		metrics: observability.NoopMetrics{},
	}
}

// Option configures a registry.
type Option func(*options)

// WithLabel names the registry in logs and metrics.
// Default: "default"
func WithLabel(label string) Option {
	return func(o *options) {
		if label != "" {
			o.label = label
		}
	}
}

// WithCapacity preallocates room for n entries.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithLogger sets a logger for insertion and conflict events.
// A nil logger disables logging.
//
// Example:
//
//	r := registry.New[AssetID, *Asset](registry.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = observability.EnrichLogger(o.logger, o.label)
	return o
}
