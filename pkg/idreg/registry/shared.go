package registry

import (
	"sync"

	"github.com/randalmurphal/idreg/pkg/idreg/handle"
	"github.com/randalmurphal/idreg/pkg/idreg/name"
)

// Shared guards a Registry with a sync.RWMutex for read-heavy concurrent use.
// The wrapped registry must not be used directly while it is shared.
type Shared[K handle.Handle, V any] struct {
	mu sync.RWMutex
	r  *Registry[K, V]
}

// NewShared wraps r. A nil r starts from an empty registry built with opts.
func NewShared[K handle.Handle, V any](r *Registry[K, V], opts ...Option) *Shared[K, V] {
	if r == nil {
		r = New[K, V](opts...)
	}
	return &Shared[K, V]{r: r}
}

// AddAnonymous appends a value without a name.
func (s *Shared[K, V]) AddAnonymous(value V) K {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.AddAnonymous(value)
}

// AddNamed appends a value under n; see Registry.AddNamed.
func (s *Shared[K, V]) AddNamed(n name.Name, value V) (K, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.AddNamed(n, value)
}

// Find returns the handle registered under n.
func (s *Shared[K, V]) Find(n name.Name) (K, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r.Find(n)
}

// Contains reports whether n is registered.
func (s *Shared[K, V]) Contains(n name.Name) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r.Contains(n)
}

// Lookup returns the value under h. Shared never panics on foreign handles.
func (s *Shared[K, V]) Lookup(h K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r.Lookup(h)
}

// GetName returns the name of the entry under h.
func (s *Shared[K, V]) GetName(h K) (name.Name, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r.GetName(h)
}

// Len returns the number of entries.
func (s *Shared[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r.Len()
}

// Entries returns a copy of the entry sequence.
func (s *Shared[K, V]) Entries() []Entry[V] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r.Entries()
}

// Range iterates over all entries in insertion order.
// If fn returns false, iteration stops.
//
// Range iterates over a snapshot, so fn may add entries without deadlocking;
// entries added during iteration are not visited.
func (s *Shared[K, V]) Range(fn func(K, Entry[V]) bool) {
	// Take a snapshot under read lock
	s.mu.RLock()
	snapshot := s.r.Entries()
	s.mu.RUnlock()

	for i, e := range snapshot {
		if !fn(handle.FromIndex[K](i), e) {
			return
		}
	}
}

// FindOrAdd returns the handle registered under n, adding an entry built by
// init if there is none. The second result reports whether an entry was added.
//
// The operation is atomic: init is called at most once per name, even under
// concurrent access. init must not call back into s.
//
// A zero n names nothing, so FindOrAdd returns (0, false) without calling init.
func (s *Shared[K, V]) FindOrAdd(n name.Name, init func(K) V) (K, bool) {
	if n.IsZero() {
		return 0, false
	}

	// Fast path: check if already exists
	s.mu.RLock()
	h, ok := s.r.Find(n)
	s.mu.RUnlock()
	if ok {
		return h, false
	}

	// Slow path: create with write lock
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if h, ok := s.r.Find(n); ok {
		return h, false
	}

	h, err := s.r.AddNamedWith(n, init)
	if err != nil {
		// Unreachable: the name was checked under the same lock.
		panic(err)
	}
	return h, true
}

// Do runs fn with exclusive access to the underlying registry.
// Use it for compound updates that must not interleave with other callers.
func (s *Shared[K, V]) Do(fn func(r *Registry[K, V])) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.r)
}

// View runs fn with shared read access to the underlying registry.
// fn must not modify r.
func (s *Shared[K, V]) View(fn func(r *Registry[K, V])) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.r)
}
