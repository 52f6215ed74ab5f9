// Package display renders registry handles for humans.
//
// A handle is shown as the qualified name of its entry when it has one, and
// as "unknown(<index>)" otherwise. The typed form prefixes the handle's Go
// type, which helps when handles from several registries appear in the same
// log line: "assets.ID::unknown(3)".
package display

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/idreg/pkg/idreg/handle"
	"github.com/randalmurphal/idreg/pkg/idreg/registry"
)

// Describe returns the qualified name of the entry under h, or
// "unknown(<index>)" when the entry is anonymous or h is out of range.
func Describe[K handle.Handle, V any](r *registry.Registry[K, V], h K) string {
	if n, ok := r.GetName(h); ok {
		return n.Qualified()
	}
	return fmt.Sprintf("unknown(%d)", handle.ToIndex(h))
}

// DescribeTyped is like Describe but qualifies the unknown form with the
// handle's Go type, as in "main.AssetID::unknown(3)".
func DescribeTyped[K handle.Handle, V any](r *registry.Registry[K, V], h K) string {
	if n, ok := r.GetName(h); ok {
		return n.Qualified()
	}
	return fmt.Sprintf("%T::unknown(%d)", h, handle.ToIndex(h))
}

// Ref pairs a handle with its registry so it can be passed to fmt.
//
//	fmt.Printf("%v\n", display.Ref[AssetID, *Asset]{r, h})  // ui:icon or unknown(3)
//	fmt.Printf("%+v\n", display.Ref[AssetID, *Asset]{r, h}) // ui:icon or main.AssetID::unknown(3)
type Ref[K handle.Handle, V any] struct {
	Registry *registry.Registry[K, V]
	Handle   K
}

// Of returns a Ref for h in r.
func Of[K handle.Handle, V any](r *registry.Registry[K, V], h K) Ref[K, V] {
	return Ref[K, V]{Registry: r, Handle: h}
}

// String implements fmt.Stringer.
func (ref Ref[K, V]) String() string {
	if ref.Registry == nil {
		return fmt.Sprintf("unknown(%d)", handle.ToIndex(ref.Handle))
	}
	return Describe(ref.Registry, ref.Handle)
}

// Format implements fmt.Formatter. The '+' flag selects the typed form;
// width, precision and the remaining flags apply to the rendered text, so
// %-16v pads like a string would. %d prints the raw index.
func (ref Ref[K, V]) Format(f fmt.State, verb rune) {
	format := fmt.FormatString(f, verb)
	if verb == 'd' {
		fmt.Fprintf(f, format, handle.ToIndex(ref.Handle))
		return
	}

	s := ref.String()
	if f.Flag('+') {
		if ref.Registry == nil {
			s = fmt.Sprintf("%T::unknown(%d)", ref.Handle, handle.ToIndex(ref.Handle))
		} else {
			s = DescribeTyped(ref.Registry, ref.Handle)
		}
		format = strings.Replace(format, "+", "", 1)
	}
	if verb != 'q' {
		format = strings.TrimSuffix(format, string(verb)) + "s"
	}
	fmt.Fprintf(f, format, s)
}
