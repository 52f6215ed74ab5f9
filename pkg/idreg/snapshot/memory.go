package snapshot

import (
	"slices"
	"sync"
	"time"
)

// MemoryStore is an in-memory snapshot store for tests and short-lived tools.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	labels map[string]map[string]stored // label -> id -> snapshot
	closed bool
}

type stored struct {
	data      []byte
	sequence  int
	timestamp time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		labels: make(map[string]map[string]stored),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(label, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	byID := m.labels[label]
	if byID == nil {
		byID = make(map[string]stored)
		m.labels[label] = byID
	}

	seq := 1
	for _, s := range byID {
		if s.sequence >= seq {
			seq = s.sequence + 1
		}
	}

	byID[id] = stored{
		data:      slices.Clone(data),
		sequence:  seq,
		timestamp: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(label, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	s, ok := m.labels[label][id]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(s.data), nil
}

// List implements Store.
func (m *MemoryStore) List(label string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	byID := m.labels[label]
	infos := make([]Info, 0, len(byID))
	for id, s := range byID {
		infos = append(infos, Info{
			Label:     label,
			ID:        id,
			Sequence:  s.sequence,
			Timestamp: s.timestamp,
			Size:      int64(len(s.data)),
		})
	}
	slices.SortFunc(infos, func(a, b Info) int {
		return a.Sequence - b.Sequence
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(label, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.labels[label], id)
	return nil
}

// DeleteLabel implements Store.
func (m *MemoryStore) DeleteLabel(label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	delete(m.labels, label)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.labels = nil
	return nil
}

// Len returns the number of snapshots across all labels.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, byID := range m.labels {
		n += len(byID)
	}
	return n
}
