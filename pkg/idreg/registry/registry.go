package registry

import (
	"context"
	"iter"
	"maps"
	"slices"

	"github.com/randalmurphal/idreg/pkg/idreg/handle"
	"github.com/randalmurphal/idreg/pkg/idreg/name"
	"github.com/randalmurphal/idreg/pkg/idreg/observability"
)

// Entry is one stored value with its optional name.
// A zero Name marks an anonymous entry.
type Entry[V any] struct {
	Name  name.Name
	Value V
}

// Named reports whether the entry carries a name.
func (e Entry[V]) Named() bool {
	return !e.Name.IsZero()
}

// Registry is an append-only store of values addressed by handle and,
// optionally, by qualified name.
//
// Handles are dense indices assigned in insertion order starting at 0.
// Entries are never removed or reordered, so a handle stays valid for the
// lifetime of the registry. No two entries share a name.
//
// A Registry is not safe for concurrent use. Wrap it in Shared, or guard it
// externally, when several goroutines need access.
type Registry[K handle.Handle, V any] struct {
	byName  map[name.Name]K
	entries []Entry[V]
	opts    options
}

// New creates an empty registry.
func New[K handle.Handle, V any](opts ...Option) *Registry[K, V] {
	o := buildOptions(opts)
	return &Registry[K, V]{
		byName:  make(map[name.Name]K, o.capacity),
		entries: make([]Entry[V], 0, o.capacity),
		opts:    o,
	}
}

// FromEntries builds a registry from a pre-built entry sequence.
// Handles are assigned by position.
//
// The sequence is trusted: names are not checked for uniqueness. If a name
// appears more than once, the last occurrence wins in the name index and the
// earlier entries stay reachable only by handle. Call CheckEntries first when
// the input comes from an untrusted source.
//
// The registry takes ownership of entries.
func FromEntries[K handle.Handle, V any](entries []Entry[V], opts ...Option) *Registry[K, V] {
	o := buildOptions(opts)
	byName := make(map[name.Name]K, max(o.capacity, len(entries)))
	for i, e := range entries {
		if e.Named() {
			byName[e.Name] = handle.FromIndex[K](i)
		}
	}
	if entries == nil {
		entries = make([]Entry[V], 0, o.capacity)
	}

	observability.LogBulkLoad(o.logger, len(entries), len(byName))

	return &Registry[K, V]{
		byName:  byName,
		entries: entries,
		opts:    o,
	}
}

// CheckEntries reports the first name that appears more than once in entries
// as a *DuplicateNameError. It returns nil if all names are unique.
func CheckEntries[V any](entries []Entry[V]) error {
	seen := make(map[name.Name]struct{}, len(entries))
	for _, e := range entries {
		if !e.Named() {
			continue
		}
		if _, dup := seen[e.Name]; dup {
			return &DuplicateNameError{Name: e.Name}
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

// Label returns the registry label used in logs and metrics.
func (r *Registry[K, V]) Label() string {
	return r.opts.label
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	return len(r.entries)
}

// Contains reports whether an entry carries name n.
func (r *Registry[K, V]) Contains(n name.Name) bool {
	_, ok := r.byName[n]
	return ok
}

// Find returns the handle of the entry carrying name n.
func (r *Registry[K, V]) Find(n name.Name) (K, bool) {
	h, ok := r.byName[n]
	return h, ok
}

// AddAnonymous appends a value without a name and returns its handle.
func (r *Registry[K, V]) AddAnonymous(value V) K {
	return r.AddAnonymousWith(func(K) V { return value })
}

// AddAnonymousWith appends an anonymous entry whose value is produced by init.
// init receives the entry's handle before the entry is stored, so the value
// may embed its own handle. init is called exactly once.
func (r *Registry[K, V]) AddAnonymousWith(init func(K) V) K {
	return r.add(name.Name{}, init)
}

// AddNamed appends a value under name n and returns its handle.
//
// If n is already registered, AddNamed returns a *DuplicateNameError carrying
// n and leaves the registry unchanged.
func (r *Registry[K, V]) AddNamed(n name.Name, value V) (K, error) {
	return r.AddNamedWith(n, func(K) V { return value })
}

// AddNamedWith is AddNamed with the value produced by init, which receives the
// new handle. init is not called when n is already registered.
// A zero n adds an anonymous entry.
func (r *Registry[K, V]) AddNamedWith(n name.Name, init func(K) V) (K, error) {
	if existing, ok := r.byName[n]; ok {
		observability.LogConflict(r.opts.logger, n.Qualified(), handle.ToIndex(existing))
		r.opts.metrics.RecordConflict(context.Background(), r.opts.label)
		return 0, &DuplicateNameError{Name: n}
	}
	h := r.add(n, init)
	if n.IsZero() {
		return h, nil
	}
	r.byName[n] = h
	return h, nil
}

// add appends an entry and returns its handle.
// init must not mutate the registry: the handle it receives is the next
// position and would otherwise alias whatever init appended.
func (r *Registry[K, V]) add(n name.Name, init func(K) V) K {
	index := len(r.entries)
	h := handle.FromIndex[K](index)

	value := init(h)
	if len(r.entries) != index {
		panic("registry: initializer modified the registry")
	}

	r.entries = append(r.entries, Entry[V]{Name: n, Value: value})

	observability.LogInsert(r.opts.logger, index, n.Qualified())
	r.opts.metrics.RecordInsert(context.Background(), r.opts.label, !n.IsZero())
	return h
}

// Get returns the value stored under h.
//
// h must have been issued by this registry. Any other handle is a programming
// error and Get panics with an *OutOfRangeError. Use Lookup when the handle
// comes from an untrusted source.
func (r *Registry[K, V]) Get(h K) V {
	index := handle.ToIndex(h)
	if index < 0 || index >= len(r.entries) {
		panic(&OutOfRangeError{Index: index, Len: len(r.entries)})
	}
	return r.entries[index].Value
}

// Lookup returns the value stored under h, reporting false instead of
// panicking when h is out of range.
func (r *Registry[K, V]) Lookup(h K) (V, bool) {
	index := handle.ToIndex(h)
	if index < 0 || index >= len(r.entries) {
		var zero V
		return zero, false
	}
	return r.entries[index].Value, true
}

// GetName returns the name of the entry under h.
// It reports false for anonymous entries and for handles out of range.
func (r *Registry[K, V]) GetName(h K) (name.Name, bool) {
	index := handle.ToIndex(h)
	if index < 0 || index >= len(r.entries) {
		return name.Name{}, false
	}
	n := r.entries[index].Name
	return n, !n.IsZero()
}

// All returns an iterator over every entry in insertion order.
// The iterator may be restarted; each run observes the entries present
// when it starts.
func (r *Registry[K, V]) All() iter.Seq2[K, Entry[V]] {
	return func(yield func(K, Entry[V]) bool) {
		entries := r.entries
		for i, e := range entries {
			if !yield(handle.FromIndex[K](i), e) {
				return
			}
		}
	}
}

// Range calls fn for each entry in insertion order until fn returns false.
func (r *Registry[K, V]) Range(fn func(K, Entry[V]) bool) {
	for h, e := range r.All() {
		if !fn(h, e) {
			return
		}
	}
}

// Names returns an iterator over the handles of named entries, keyed by name,
// in insertion order.
func (r *Registry[K, V]) Names() iter.Seq2[name.Name, K] {
	return func(yield func(name.Name, K) bool) {
		for h, e := range r.All() {
			if e.Named() && !yield(e.Name, h) {
				return
			}
		}
	}
}

// Entries returns a copy of the entry sequence in handle order.
func (r *Registry[K, V]) Entries() []Entry[V] {
	return slices.Clone(r.entries)
}

// Clone returns a registry with the same entries and options.
// Values are copied shallowly.
func (r *Registry[K, V]) Clone() *Registry[K, V] {
	return &Registry[K, V]{
		byName:  maps.Clone(r.byName),
		entries: slices.Clone(r.entries),
		opts:    r.opts,
	}
}
