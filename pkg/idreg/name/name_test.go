package name_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/randalmurphal/idreg/pkg/idreg/name"
)

const segmentPattern = `[a-z][a-zA-Z0-9_]{0,12}`

func TestIsValidSegment(t *testing.T) {
	tests := []struct {
		segment string
		want    bool
	}{
		{"valid_name", true},
		{"a", true},
		{"abc123", true},
		{"camelCase", true},
		{"", false},
		{"Invalid", false},
		{"invalid-name", false},
		{"foo:bar", false},
		{"1abc", false},
		{"_abc", false},
		{"abc def", false},
		{"café", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.segment), func(t *testing.T) {
			assert.Equal(t, tt.want, name.IsValidSegment(tt.segment))
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"scope:name", true},
		{"scope:name_bar", true},
		{"s1:n2", true},
		{"", false},
		{"scope", false},
		{"scope:", false},
		{":name", false},
		{":", false},
		{"scope:name:extra", false},
		{"scope:name!", false},
		{"scope:name-bar", false},
		{"Scope:name", false},
		{"scope:Name", false},
		{"scope :name", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.raw), func(t *testing.T) {
			n, ok := name.Parse(tt.raw)
			assert.Equal(t, tt.want, ok)
			if ok {
				assert.Equal(t, tt.raw, n.Qualified())
			} else {
				assert.True(t, n.IsZero())
			}
		})
	}
}

func TestAccessors(t *testing.T) {
	n := name.MustParse("assets:player_sprite")

	assert.Equal(t, "assets", n.Scope())
	assert.Equal(t, ":player_sprite", n.Unqualified())
	assert.Equal(t, "player_sprite", n.Identifier())
	assert.Equal(t, "assets:player_sprite", n.Qualified())
	assert.Equal(t, "assets:player_sprite", n.String())
	assert.Equal(t, `Name("assets:player_sprite")`, fmt.Sprintf("%#v", n))
	assert.False(t, n.IsZero())
}

func TestZeroName(t *testing.T) {
	var n name.Name

	assert.True(t, n.IsZero())
	assert.Empty(t, n.Scope())
	assert.Empty(t, n.Unqualified())
	assert.Empty(t, n.Identifier())
	assert.Empty(t, n.Qualified())
}

func TestMustParsePanics(t *testing.T) {
	assert.PanicsWithValue(t, `name: "Bad:name" is not a valid qualified name`, func() {
		name.MustParse("Bad:name")
	})
}

func TestJoin(t *testing.T) {
	n, ok := name.Join("symbols", "main")
	require.True(t, ok)
	assert.Equal(t, "symbols:main", n.Qualified())

	_, ok = name.Join("symbols", "")
	assert.False(t, ok)

	_, ok = name.Join("a:b", "c")
	assert.False(t, ok)
}

func TestEquality(t *testing.T) {
	a := name.MustParse("test:name")
	b, ok := name.Parse(strings.Clone("test:name"))
	require.True(t, ok)
	c := name.MustParse("test:other")

	assert.True(t, a == b)
	assert.False(t, a == c)

	index := map[name.Name]int{a: 1}
	v, found := index[b]
	assert.True(t, found)
	assert.Equal(t, 1, v)
}

func TestCompare(t *testing.T) {
	names := []name.Name{
		name.MustParse("b:one"),
		name.MustParse("a:two"),
		name.MustParse("a:one"),
	}
	slices.SortFunc(names, name.Compare)

	got := make([]string, len(names))
	for i, n := range names {
		got[i] = n.Qualified()
	}
	assert.Equal(t, []string{"a:one", "a:two", "b:one"}, got)
	assert.Equal(t, 0, name.Compare(names[0], name.MustParse("a:one")))
}

func TestTextMarshaling(t *testing.T) {
	type doc struct {
		Owner name.Name            `json:"owner"`
		Refs  map[name.Name]string `json:"refs"`
	}

	in := doc{
		Owner: name.MustParse("users:alice"),
		Refs:  map[name.Name]string{name.MustParse("files:readme"): "r"},
	}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"owner":"users:alice","refs":{"files:readme":"r"}}`, string(data))

	var out doc
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestUnmarshalTextInvalid(t *testing.T) {
	var n name.Name
	err := n.UnmarshalText([]byte("no-separator"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, name.ErrInvalidName))
	assert.True(t, n.IsZero())
}

func TestValidSegmentsAlwaysParse(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		scope := rapid.StringMatching(segmentPattern).Draw(r, "scope")
		ident := rapid.StringMatching(segmentPattern).Draw(r, "identifier")

		n, ok := name.Parse(scope + ":" + ident)
		if !ok {
			r.Fatalf("expected %s:%s to parse", scope, ident)
		}
		if n.Scope() != scope {
			r.Fatalf("Scope() = %q, want %q", n.Scope(), scope)
		}
		if n.Unqualified() != ":"+ident {
			r.Fatalf("Unqualified() = %q, want %q", n.Unqualified(), ":"+ident)
		}

		again, ok := name.Parse(n.Qualified())
		if !ok || again != n {
			r.Fatalf("round trip of %q failed", n.Qualified())
		}
	})
}

func TestSeparatorCountMustBeOne(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		count := rapid.SampledFrom([]int{0, 2, 3}).Draw(r, "separators")
		segments := rapid.SliceOfN(rapid.StringMatching(segmentPattern), count+1, count+1).Draw(r, "segments")

		raw := strings.Join(segments, ":")
		if _, ok := name.Parse(raw); ok {
			r.Fatalf("%q has %d separators but parsed", raw, count)
		}
	})
}

func TestInvalidSegmentRejected(t *testing.T) {
	rapid.Check(t, func(r *rapid.T) {
		good := rapid.StringMatching(segmentPattern).Draw(r, "good")
		bad := rapid.StringMatching(`([A-Z0-9_][a-z]{0,5}|[a-z]{1,5}[-!. ][a-z]{0,5})?`).Draw(r, "bad")

		raw := good + ":" + bad
		if rapid.Bool().Draw(r, "badFirst") {
			raw = bad + ":" + good
		}
		if _, ok := name.Parse(raw); ok {
			r.Fatalf("%q parsed despite invalid segment %q", raw, bad)
		}
	})
}
