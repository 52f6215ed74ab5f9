// Package codec serializes registries as ordered entry sequences.
//
// The wire shape mirrors the in-memory layout: a list of entries in handle
// order, each with an optional qualified name and a value.
//
//	[
//	  {"value": {"path": "logo.png"}},
//	  {"name": "ui:icon", "value": {"path": "icon.png"}}
//	]
//
// Handles are positions and are not written. Decoding validates every name
// and rejects duplicates, so a decoded registry upholds the same invariants
// as one built through AddNamed.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/idreg/pkg/idreg/handle"
	"github.com/randalmurphal/idreg/pkg/idreg/name"
	"github.com/randalmurphal/idreg/pkg/idreg/registry"
)

// ErrUnsupportedValue reports a decoded value that cannot be encoded again,
// such as a YAML mapping with non-string keys.
var ErrUnsupportedValue = errors.New("unsupported value")

// wireEntry is the serialized form of one registry entry.
type wireEntry[V any] struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Value V      `json:"value" yaml:"value"`
}

// MarshalJSON encodes r as a JSON array of entries.
func MarshalJSON[K handle.Handle, V any](r *registry.Registry[K, V]) ([]byte, error) {
	data, err := json.Marshal(toWire(r))
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return data, nil
}

// UnmarshalJSON decodes a JSON array of entries into a new registry.
func UnmarshalJSON[K handle.Handle, V any](data []byte, opts ...registry.Option) (*registry.Registry[K, V], error) {
	var wire []wireEntry[V]
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return fromWire[K](wire, opts)
}

// MarshalYAML encodes r as a YAML sequence of entries.
func MarshalYAML[K handle.Handle, V any](r *registry.Registry[K, V]) ([]byte, error) {
	data, err := yaml.Marshal(toWire(r))
	if err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return data, nil
}

// UnmarshalYAML decodes a YAML sequence of entries into a new registry.
//
// Untyped values must stay JSON-encodable: a mapping whose keys are not all
// strings fails with ErrUnsupportedValue.
func UnmarshalYAML[K handle.Handle, V any](data []byte, opts ...registry.Option) (*registry.Registry[K, V], error) {
	var wire []wireEntry[V]
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	for i, w := range wire {
		if err := checkStringKeys(any(w.Value), "value"); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return fromWire[K](wire, opts)
}

// checkStringKeys walks the generic containers yaml.v3 produces. yaml.v3
// decodes a mapping into map[string]any only when every key is a string.
func checkStringKeys(v any, path string) error {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			if err := checkStringKeys(item, path+"."+k); err != nil {
				return err
			}
		}
	case map[any]any:
		for k := range val {
			if _, ok := k.(string); !ok {
				return fmt.Errorf("%w: %s: mapping key %v (%T) is not a string", ErrUnsupportedValue, path, k, k)
			}
		}
		for k, item := range val {
			if err := checkStringKeys(item, fmt.Sprintf("%s.%v", path, k)); err != nil {
				return err
			}
		}
	case []any:
		for i, item := range val {
			if err := checkStringKeys(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}
	return nil
}

func toWire[K handle.Handle, V any](r *registry.Registry[K, V]) []wireEntry[V] {
	wire := make([]wireEntry[V], 0, r.Len())
	for _, e := range r.All() {
		wire = append(wire, wireEntry[V]{Name: e.Name.Qualified(), Value: e.Value})
	}
	return wire
}

func fromWire[K handle.Handle, V any](wire []wireEntry[V], opts []registry.Option) (*registry.Registry[K, V], error) {
	if _, ok := handle.TryFromIndex[K](len(wire) - 1); len(wire) > 0 && !ok {
		return nil, fmt.Errorf("%d entries: %w", len(wire), handle.ErrIndexOverflow)
	}

	entries := make([]registry.Entry[V], len(wire))
	for i, w := range wire {
		entries[i].Value = w.Value
		if w.Name == "" {
			continue
		}
		n, ok := name.Parse(w.Name)
		if !ok {
			return nil, fmt.Errorf("entry %d: %w: %q", i, name.ErrInvalidName, w.Name)
		}
		entries[i].Name = n
	}

	if err := registry.CheckEntries(entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	return registry.FromEntries[K](entries, opts...), nil
}
