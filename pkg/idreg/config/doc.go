/*
Package config loads idreg process settings from YAML or JSON.

# Overview

Config wraps a map[string]any and provides typed accessors that return a
default when a key is missing or holds the wrong type. Keys are dotted
paths into nested sections, so the same accessor works for flat and
nested documents:

	cfg, err := config.FromFile("idreg.yaml")
	if err != nil {
	    log.Fatal(err)
	}

	level := cfg.String("log.level", "info")
	capacity := cfg.Int("registry.capacity", 0)
	snap := cfg.Sub("snapshot")
	path := snap.String("path", "idreg.db")

# Type Coercion

Duration accepts strings ("30s", "1h30m"), numbers of seconds, and
time.Duration values. Int accepts float64 only when it has no fractional
part, which is how encoding/json decodes every number.

# Settings

Settings resolves the keys idreg itself understands and validates them:

	s, err := cfg.Settings()
	logger := s.Logger(os.Stderr)
	store, err := s.OpenStore()
	r := registry.New[AssetID, Asset](s.RegistryOptions("assets", logger)...)

Unknown keys are ignored.

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
