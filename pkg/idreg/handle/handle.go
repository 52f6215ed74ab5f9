// Package handle defines the index-backed handle contract used by the registry.
//
// A handle is a domain-specific integer type wrapping a dense, zero-based
// index. Each embedding domain declares its own type so handles from
// different registries cannot be mixed by accident:
//
//	type AssetID uint32
//	type SymbolID uint16
//
// Conversions are resolved statically through generics; no interface boxing
// is involved.
package handle

import (
	"errors"
	"fmt"
)

// Handle is satisfied by any defined integer type usable as a registry handle.
type Handle interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint | ~int | ~int32 | ~int64
}

// ErrIndexOverflow indicates an index that the handle type cannot represent.
var ErrIndexOverflow = errors.New("index overflows handle type")

// OverflowError describes an index that does not fit in a handle type.
// It is the panic value of FromIndex.
type OverflowError struct {
	// Index is the index that was requested.
	Index int
	// Type is the Go type name of the handle.
	Type string
}

// Error implements the error interface.
func (e *OverflowError) Error() string {
	return fmt.Sprintf("handle: index %d overflows %s", e.Index, e.Type)
}

// Unwrap returns ErrIndexOverflow for errors.Is support.
func (e *OverflowError) Unwrap() error {
	return ErrIndexOverflow
}

// FromIndex converts a dense index into a handle.
//
// It panics with *OverflowError if index is negative or does not fit in K.
// The registry only produces in-range indices, so a panic here means the
// handle type is too narrow for the number of entries stored.
func FromIndex[K Handle](index int) K {
	h, ok := TryFromIndex[K](index)
	if !ok {
		panic(&OverflowError{Index: index, Type: fmt.Sprintf("%T", h)})
	}
	return h
}

// TryFromIndex converts a dense index into a handle, reporting false if the
// index is negative or does not fit in K.
func TryFromIndex[K Handle](index int) (K, bool) {
	if index < 0 {
		return 0, false
	}
	h := K(index)
	if int(h) != index {
		return 0, false
	}
	return h, true
}

// ToIndex returns the dense index a handle wraps.
func ToIndex[K Handle](h K) int {
	return int(h)
}
