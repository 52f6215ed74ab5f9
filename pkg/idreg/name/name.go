// Package name provides the validated qualified name used to key registry entries.
//
// A qualified name has the form "scope:identifier". Both segments must be
// non-empty, start with an ASCII lowercase letter, and continue with ASCII
// letters, digits or underscores:
//
//	n, ok := name.Parse("assets:player_sprite")
//	n.Scope()       // "assets"
//	n.Unqualified() // ":player_sprite"
//	n.Qualified()   // "assets:player_sprite"
//
// Names are immutable values. Equality, hashing (as a map key) and ordering
// are all defined over the qualified string.
package name

import (
	"errors"
	"fmt"
	"strings"
)

// Separator splits the scope from the identifier.
const Separator = ':'

// ErrInvalidName indicates text that does not satisfy the qualified name grammar.
var ErrInvalidName = errors.New("invalid qualified name")

// Name is a validated "scope:identifier" string.
// The zero Name is not a valid name; use IsZero to detect it.
type Name struct {
	sep int
	s   string
}

// Parse validates raw and returns the corresponding Name.
// It reports false unless raw has a separator and both the prefix and the
// suffix satisfy IsValidSegment. Only the first ':' is treated as the
// separator, so "a:b:c" fails because the suffix contains ':'.
func Parse(raw string) (Name, bool) {
	sep := strings.IndexByte(raw, Separator)
	if sep < 0 {
		return Name{}, false
	}
	if !IsValidSegment(raw[:sep]) || !IsValidSegment(raw[sep+1:]) {
		return Name{}, false
	}
	return Name{sep: sep, s: raw}, true
}

// MustParse is like Parse but panics if raw is invalid.
// Intended for names written as literals.
func MustParse(raw string) Name {
	n, ok := Parse(raw)
	if !ok {
		panic(fmt.Sprintf("name: %q is not a valid qualified name", raw))
	}
	return n
}

// Join builds a Name from its two segments.
func Join(scope, identifier string) (Name, bool) {
	return Parse(scope + string(Separator) + identifier)
}

// IsValidSegment reports whether segment can be used as a scope or identifier.
// It must be non-empty, start with an ASCII lowercase letter, and contain only
// ASCII alphanumerics and '_' after that.
func IsValidSegment(segment string) bool {
	if segment == "" {
		return false
	}
	if c := segment[0]; c < 'a' || c > 'z' {
		return false
	}
	for i := 1; i < len(segment); i++ {
		c := segment[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}

// Scope returns the segment before the separator.
func (n Name) Scope() string {
	return n.s[:n.sep]
}

// Unqualified returns the name from the separator onward.
// The separator is part of the result: "assets:icon" yields ":icon".
func (n Name) Unqualified() string {
	return n.s[n.sep:]
}

// Identifier returns the segment after the separator.
func (n Name) Identifier() string {
	if n.s == "" {
		return ""
	}
	return n.s[n.sep+1:]
}

// Qualified returns the full "scope:identifier" string.
func (n Name) Qualified() string {
	return n.s
}

// IsZero reports whether n is the zero Name.
func (n Name) IsZero() bool {
	return n.s == ""
}

// String implements fmt.Stringer.
func (n Name) String() string {
	return n.s
}

// GoString implements fmt.GoStringer.
func (n Name) GoString() string {
	return fmt.Sprintf("Name(%q)", n.s)
}

// Compare orders names by their qualified string.
// It returns -1, 0 or +1 in the manner of strings.Compare.
func Compare(a, b Name) int {
	return strings.Compare(a.s, b.s)
}

// MarshalText implements encoding.TextMarshaler.
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Name) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidName, text)
	}
	*n = parsed
	return nil
}
