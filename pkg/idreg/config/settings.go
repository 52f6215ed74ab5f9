package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/randalmurphal/idreg/pkg/idreg/name"
	"github.com/randalmurphal/idreg/pkg/idreg/observability"
	"github.com/randalmurphal/idreg/pkg/idreg/registry"
	"github.com/randalmurphal/idreg/pkg/idreg/snapshot"
)

// Snapshot drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Defaults applied by Settings.
const (
	DefaultLogLevel     = "info"
	DefaultDriver       = DriverSQLite
	DefaultSnapshotPath = "idreg.db"
)

// ErrInvalidSetting is returned by Settings for values outside their domain.
var ErrInvalidSetting = errors.New("invalid setting")

// Settings is the resolved process configuration.
type Settings struct {
	LogLevel slog.Level
	Capacity int
	// Scopes lists the scopes named entries may use. Empty allows any scope.
	Scopes         []string
	SnapshotDriver string
	SnapshotPath   string
	BusyTimeout    time.Duration
	Metrics        bool
	Tracing        bool
}

// Settings resolves the known keys, applying defaults for missing ones.
//
//	log:
//	  level: debug
//	registry:
//	  capacity: 1024
//	  scopes: [ui, sprites]
//	snapshot:
//	  driver: sqlite
//	  path: ./idreg.db
//	  busy_timeout: 10s
//	observability:
//	  metrics: true
//	  tracing: false
func (c Config) Settings() (Settings, error) {
	s := Settings{
		LogLevel:       observability.ParseLevel(c.String("log.level", DefaultLogLevel)),
		Capacity:       c.Int("registry.capacity", 0),
		Scopes:         c.StringSlice("registry.scopes", nil),
		SnapshotDriver: c.String("snapshot.driver", DefaultDriver),
		SnapshotPath:   c.String("snapshot.path", DefaultSnapshotPath),
		BusyTimeout:    c.Duration("snapshot.busy_timeout", snapshot.DefaultBusyTimeout),
		Metrics:        c.Bool("observability.metrics", false),
		Tracing:        c.Bool("observability.tracing", false),
	}

	if s.Capacity < 0 {
		return Settings{}, fmt.Errorf("%w: registry.capacity %d is negative", ErrInvalidSetting, s.Capacity)
	}
	switch s.SnapshotDriver {
	case DriverMemory, DriverSQLite:
	default:
		return Settings{}, fmt.Errorf("%w: snapshot.driver %q (want %s or %s)",
			ErrInvalidSetting, s.SnapshotDriver, DriverMemory, DriverSQLite)
	}
	if s.SnapshotDriver == DriverSQLite && s.SnapshotPath == "" {
		return Settings{}, fmt.Errorf("%w: snapshot.path is empty", ErrInvalidSetting)
	}

	// The accessors fall back to defaults on malformed values; a key that is
	// present must parse.
	if c.Has("registry.scopes") && s.Scopes == nil {
		return Settings{}, fmt.Errorf("%w: registry.scopes must be a list of strings", ErrInvalidSetting)
	}
	for _, scope := range s.Scopes {
		if !name.IsValidSegment(scope) {
			return Settings{}, fmt.Errorf("%w: registry.scopes entry %q is not a valid scope", ErrInvalidSetting, scope)
		}
	}
	if c.Has("snapshot.busy_timeout") && c.Duration("snapshot.busy_timeout", -1) < 0 {
		return Settings{}, fmt.Errorf("%w: snapshot.busy_timeout must be a non-negative duration", ErrInvalidSetting)
	}
	return s, nil
}

// AllowsScope reports whether named entries may use scope.
func (s Settings) AllowsScope(scope string) bool {
	return len(s.Scopes) == 0 || slices.Contains(s.Scopes, scope)
}

// Logger returns a text logger writing to w at the configured level.
func (s Settings) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: s.LogLevel}))
}

// OpenStore opens the configured snapshot store.
func (s Settings) OpenStore() (snapshot.Store, error) {
	if s.SnapshotDriver == DriverMemory {
		return snapshot.NewMemoryStore(), nil
	}
	store, err := snapshot.NewSQLiteStore(s.SnapshotPath, snapshot.WithBusyTimeout(s.BusyTimeout))
	if err != nil {
		return nil, fmt.Errorf("open snapshot store %s: %w", s.SnapshotPath, err)
	}
	return store, nil
}

// RegistryOptions returns registry options for a registry labelled label.
func (s Settings) RegistryOptions(label string, logger *slog.Logger) []registry.Option {
	opts := []registry.Option{
		registry.WithLabel(label),
		registry.WithCapacity(s.Capacity),
		registry.WithLogger(logger),
	}
	if s.Metrics {
		opts = append(opts, registry.WithMetrics(observability.NewMetricsRecorder()))
	}
	return opts
}

// SnapshotOptions returns options for snapshot Save, Load and Latest.
func (s Settings) SnapshotOptions(logger *slog.Logger, registryOpts ...registry.Option) []snapshot.Option {
	opts := []snapshot.Option{
		snapshot.WithLogger(logger),
		snapshot.WithRegistryOptions(registryOpts...),
	}
	if s.Metrics {
		opts = append(opts, snapshot.WithMetrics(observability.NewMetricsRecorder()))
	}
	if !s.Tracing {
		opts = append(opts, snapshot.WithSpanManager(observability.NoopSpanManager{}))
	}
	return opts
}
