package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/idreg/pkg/idreg/handle"
	"github.com/randalmurphal/idreg/pkg/idreg/observability"
	"github.com/randalmurphal/idreg/pkg/idreg/registry"
)

type config struct {
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	registryOpts []registry.Option
}

// Option configures Save, Load and Latest.
type Option func(*config)

// WithLogger logs snapshot saves and loads at Debug and failures at Warn.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics records snapshot size and entry counts.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager overrides the tracer used for snapshot spans.
// The default uses the global OpenTelemetry tracer provider.
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *config) {
		if sm != nil {
			c.spans = sm
		}
	}
}

// WithRegistryOptions passes options to the registry built by Load and Latest.
func WithRegistryOptions(opts ...registry.Option) Option {
	return func(c *config) {
		c.registryOpts = append(c.registryOpts, opts...)
	}
}

func buildConfig(opts []Option) *config {
	c := &config{
		metrics: observability.NoopMetrics{},
		spans:   observability.NewSpanManager(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save captures r and writes it to store. An empty label uses r.Label().
func Save[K handle.Handle, V any](ctx context.Context, store Store, label string, r *registry.Registry[K, V], opts ...Option) (*Snapshot, error) {
	cfg := buildConfig(opts)
	if label == "" {
		label = r.Label()
	}

	ctx, span := cfg.spans.StartSnapshotSpan(ctx, "save", label)
	snap, size, err := save(store, label, r)
	if err != nil {
		observability.LogSnapshotError(cfg.logger, label, "save", err)
		cfg.spans.EndSpanWithError(span, err)
		return nil, err
	}

	cfg.spans.AddSpanEvent(ctx, "snapshot.saved",
		attribute.String("snapshot.id", snap.ID),
		attribute.Int("snapshot.entries", snap.Count),
		attribute.Int("snapshot.size_bytes", size),
	)
	cfg.spans.EndSpanWithError(span, nil)
	observability.LogSnapshotSaved(cfg.logger, label, snap.ID, snap.Count, size)
	cfg.metrics.RecordSnapshot(ctx, label, snap.Count, int64(size))
	return snap, nil
}

func save[K handle.Handle, V any](store Store, label string, r *registry.Registry[K, V]) (*Snapshot, int, error) {
	snap, err := Capture(label, r)
	if err != nil {
		return nil, 0, err
	}
	data, err := snap.Marshal()
	if err != nil {
		return nil, 0, fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := store.Save(label, snap.ID, data); err != nil {
		return nil, 0, err
	}
	return snap, len(data), nil
}

// Load reads the snapshot (label, id) from store and restores it.
func Load[K handle.Handle, V any](ctx context.Context, store Store, label, id string, opts ...Option) (*registry.Registry[K, V], error) {
	cfg := buildConfig(opts)
	return load[K, V](ctx, cfg, store, label, id)
}

// Latest restores the most recently saved snapshot for label.
// Returns ErrNotFound if the label has none.
func Latest[K handle.Handle, V any](ctx context.Context, store Store, label string, opts ...Option) (*registry.Registry[K, V], error) {
	cfg := buildConfig(opts)

	infos, err := store.List(label)
	if err != nil {
		observability.LogSnapshotError(cfg.logger, label, "list", err)
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("%s: %w", label, ErrNotFound)
	}
	return load[K, V](ctx, cfg, store, label, infos[len(infos)-1].ID)
}

func load[K handle.Handle, V any](ctx context.Context, cfg *config, store Store, label, id string) (*registry.Registry[K, V], error) {
	ctx, span := cfg.spans.StartSnapshotSpan(ctx, "load", label)
	elapsed := observability.TimedOperation()

	r, err := restoreFrom[K, V](store, label, id, cfg.registryOpts)
	if err != nil {
		observability.LogSnapshotError(cfg.logger, label, "load", err)
		cfg.spans.EndSpanWithError(span, err)
		return nil, err
	}

	cfg.spans.AddSpanEvent(ctx, "snapshot.loaded",
		attribute.String("snapshot.id", id),
		attribute.Int("snapshot.entries", r.Len()),
	)
	cfg.spans.EndSpanWithError(span, nil)
	observability.LogSnapshotLoaded(cfg.logger, label, id, r.Len(), elapsed())
	return r, nil
}

func restoreFrom[K handle.Handle, V any](store Store, label, id string, opts []registry.Option) (*registry.Registry[K, V], error) {
	data, err := store.Load(label, id)
	if err != nil {
		return nil, err
	}
	snap, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s/%s: %w", label, id, err)
	}
	return Restore[K, V](snap, opts...)
}
