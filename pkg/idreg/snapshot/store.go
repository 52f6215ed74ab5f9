// Package snapshot persists registries outside the process.
//
// A Snapshot is a versioned JSON envelope around a registry's encoded entry
// sequence. Stores keep raw snapshot bytes keyed by registry label and
// snapshot ID; Save, Load and Latest tie the two together with tracing,
// logging and metrics.
//
// Restored registries are rebuilt through the codec package, so a corrupt or
// hand-edited snapshot with invalid or duplicate names fails to load rather
// than producing a registry that breaks name uniqueness.
package snapshot

import (
	"errors"
	"time"
)

// Store persists encoded snapshots.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a snapshot under (label, id).
	// Overwrites if a snapshot for (label, id) already exists.
	Save(label, id string, data []byte) error

	// Load retrieves a snapshot.
	// Returns ErrNotFound if it doesn't exist.
	Load(label, id string) ([]byte, error)

	// List returns all snapshots for a label, ordered by sequence.
	// Returns an empty slice (not an error) if the label has none.
	List(label string) ([]Info, error)

	// Delete removes a specific snapshot.
	// Returns nil if it doesn't exist.
	Delete(label, id string) error

	// DeleteLabel removes all snapshots for a label.
	DeleteLabel(label string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info describes a stored snapshot without loading it.
type Info struct {
	Label     string
	ID        string
	Sequence  int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for snapshot operations.
var (
	// ErrNotFound indicates a snapshot doesn't exist.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")

	// ErrVersionMismatch indicates a snapshot written in an unsupported format.
	ErrVersionMismatch = errors.New("snapshot version mismatch")
)
