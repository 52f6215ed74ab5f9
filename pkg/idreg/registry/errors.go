package registry

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/idreg/pkg/idreg/name"
)

// Sentinel errors for registry operations.
var (
	// ErrDuplicateName indicates an insertion under a name that is already registered.
	ErrDuplicateName = errors.New("name already registered")

	// ErrHandleOutOfRange indicates a handle that was not issued by the registry.
	ErrHandleOutOfRange = errors.New("handle out of range")
)

// DuplicateNameError hands the rejected name back to the caller.
// The registry is left exactly as it was before the failed insertion.
type DuplicateNameError struct {
	// Name is the name that was rejected.
	Name name.Name
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("registry: %s: %s", e.Name, ErrDuplicateName)
}

// Unwrap returns ErrDuplicateName for errors.Is support.
func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateName
}

// OutOfRangeError is the panic value of Get for a handle this registry never issued.
type OutOfRangeError struct {
	// Index is the index carried by the offending handle.
	Index int
	// Len is the number of entries in the registry at the time.
	Len int
}

// Error implements the error interface.
func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("registry: handle index %d out of range (len %d)", e.Index, e.Len)
}

// Unwrap returns ErrHandleOutOfRange for errors.Is support.
func (e *OutOfRangeError) Unwrap() error {
	return ErrHandleOutOfRange
}
