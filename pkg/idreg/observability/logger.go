// Package observability provides logging, metrics and tracing for idreg.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// Everything is opt-in. Nil loggers are ignored and NoopMetrics /
// NoopSpanManager stand in when metrics or tracing are disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds registry context to a logger.
// Returns a new logger with the registry label attached.
//
// Example:
//
//	enriched := EnrichLogger(logger, "assets")
//	enriched.Info("loaded") // includes registry=assets
func EnrichLogger(logger *slog.Logger, label string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("registry", label))
}

// LogInsert logs a successful insertion.
// qualified is empty for anonymous entries.
func LogInsert(logger *slog.Logger, index int, qualified string) {
	if logger == nil {
		return
	}
	if qualified == "" {
		logger.Debug("entry added",
			slog.Int("index", index),
		)
		return
	}
	logger.Debug("entry added",
		slog.Int("index", index),
		slog.String("name", qualified),
	)
}

// LogConflict logs a rejected insertion of an already registered name.
func LogConflict(logger *slog.Logger, qualified string, existing int) {
	if logger == nil {
		return
	}
	logger.Debug("duplicate name rejected",
		slog.String("name", qualified),
		slog.Int("existing_index", existing),
	)
}

// LogBulkLoad logs construction of a registry from a pre-built entry sequence.
func LogBulkLoad(logger *slog.Logger, entries, named int) {
	if logger == nil {
		return
	}
	logger.Debug("registry built from entries",
		slog.Int("entries", entries),
		slog.Int("named", named),
	)
}

// LogSnapshotSaved logs a persisted snapshot.
func LogSnapshotSaved(logger *slog.Logger, label, id string, entries, sizeBytes int) {
	if logger == nil {
		return
	}
	logger.Debug("snapshot saved",
		slog.String("registry", label),
		slog.String("snapshot_id", id),
		slog.Int("entries", entries),
		slog.Int("size_bytes", sizeBytes),
	)
}

// LogSnapshotLoaded logs a restored snapshot.
func LogSnapshotLoaded(logger *slog.Logger, label, id string, entries int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("snapshot loaded",
		slog.String("registry", label),
		slog.String("snapshot_id", id),
		slog.Int("entries", entries),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSnapshotError logs a snapshot failure.
func LogSnapshotError(logger *slog.Logger, label, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("snapshot failed",
		slog.String("registry", label),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}

// ParseLevel maps a level name to a slog.Level.
// Unknown names map to slog.LevelInfo.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
