package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/idreg/pkg/idreg/codec"
	"github.com/randalmurphal/idreg/pkg/idreg/handle"
	"github.com/randalmurphal/idreg/pkg/idreg/registry"
)

// Version is the current snapshot format version.
// Increment when making breaking changes to the envelope or entry encoding.
const Version = 1

// Snapshot is the persisted form of a registry.
type Snapshot struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Count     int       `json:"count"`

	// Entries is the codec JSON encoding of the registry.
	Entries json.RawMessage `json:"entries"`
}

// Capture encodes r into a new snapshot with a fresh ID.
// An empty label falls back to r.Label().
func Capture[K handle.Handle, V any](label string, r *registry.Registry[K, V]) (*Snapshot, error) {
	if label == "" {
		label = r.Label()
	}
	entries, err := codec.MarshalJSON(r)
	if err != nil {
		return nil, fmt.Errorf("capture %s: %w", label, err)
	}
	return &Snapshot{
		Version:   Version,
		ID:        uuid.NewString(),
		Label:     label,
		Timestamp: time.Now().UTC(),
		Count:     r.Len(),
		Entries:   entries,
	}, nil
}

// Restore rebuilds a registry from s. The registry is labelled with s.Label
// unless opts override it.
func Restore[K handle.Handle, V any](s *Snapshot, opts ...registry.Option) (*registry.Registry[K, V], error) {
	if s.Version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, s.Version, Version)
	}
	all := make([]registry.Option, 0, len(opts)+1)
	all = append(all, registry.WithLabel(s.Label))
	all = append(all, opts...)

	r, err := codec.UnmarshalJSON[K, V](s.Entries, all...)
	if err != nil {
		return nil, fmt.Errorf("restore %s/%s: %w", s.Label, s.ID, err)
	}
	if r.Len() != s.Count {
		return nil, fmt.Errorf("restore %s/%s: header count %d, decoded %d entries", s.Label, s.ID, s.Count, r.Len())
	}
	return r, nil
}

// Marshal serializes a snapshot to JSON.
func (s *Snapshot) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal deserializes a snapshot from JSON.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
