// Package registry provides an append-only store that hands out compact,
// stable handles to values and optionally indexes them by qualified name.
//
// Registry is generic over a handle type K (any defined integer type, see
// package handle) and a value type V. Handles are dense indices assigned in
// insertion order, so lookups by handle and by name are both O(1).
//
// # Basic Usage
//
// Declare a handle type per domain and add values:
//
//	type AssetID uint32
//
//	r := registry.New[AssetID, *Asset]()
//	logo := r.AddAnonymous(&Asset{Path: "logo.png"})
//	icon, err := r.AddNamed(name.MustParse("ui:icon"), &Asset{Path: "icon.png"})
//	if err != nil {
//	    // ui:icon was already registered; err is a *DuplicateNameError
//	}
//
//	asset := r.Get(icon)
//	h, ok := r.Find(name.MustParse("ui:icon"))
//
// # Duplicate Names
//
// No two entries share a name. AddNamed rejects a name that is already
// registered with a *DuplicateNameError holding the rejected name, and the
// registry is left untouched:
//
//	_, err := r.AddNamed(n, v)
//	if errors.Is(err, registry.ErrDuplicateName) {
//	    // retry under a different name or drop v
//	}
//
// # Self-Referential Values
//
// AddNamedWith and AddAnonymousWith pass the new handle to an initializer
// before the entry is stored, so a value can embed its own handle:
//
//	h, _ := r.AddNamedWith(n, func(self AssetID) *Asset {
//	    return &Asset{ID: self, Path: "icon.png"}
//	})
//
// The initializer runs exactly once, synchronously. It must not add entries
// to the same registry.
//
// # Invalid Handles
//
// Get panics with an *OutOfRangeError for a handle this registry never
// issued; such a handle is a bug in the caller. Lookup and GetName report
// false instead and never panic.
//
// # Bulk Construction
//
// FromEntries rebuilds a registry from an ordered entry sequence without
// re-checking name uniqueness. When the sequence is untrusted, validate it
// with CheckEntries first (package codec does this on decode).
//
// # Thread Safety
//
// Registry is not safe for concurrent use. Shared wraps a registry behind a
// sync.RWMutex and adds FindOrAdd, an atomic get-or-create keyed by name.
package registry
