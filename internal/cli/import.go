package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/idreg/pkg/idreg/codec"
	"github.com/randalmurphal/idreg/pkg/idreg/registry"
	"github.com/randalmurphal/idreg/pkg/idreg/snapshot"
)

// errScopeNotAllowed rejects named entries outside the configured
// registry.scopes.
var errScopeNotAllowed = errors.New("scope not allowed")

func newImportCmd(a *app) *cobra.Command {
	var label string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Save an entry file as a registry snapshot",
		Long: `Decode a JSON or YAML entry file into a registry and save it as a new
snapshot. Names are validated, duplicates rejected and scopes checked
against registry.scopes before anything is written.

Examples:
  idregctl import assets.yaml --label assets
  idregctl import symbols.json --label symbols --db ./symbols.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runImport(cmd, args[0], label)
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "registry label (default: file name without extension)")
	return cmd
}

func (a *app) runImport(cmd *cobra.Command, path, label string) error {
	if label == "" {
		label = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	r, err := readEntries(path, a.settings.RegistryOptions(label, a.logger))
	if err != nil {
		return err
	}
	for n, h := range r.Names() {
		if !a.settings.AllowsScope(n.Scope()) {
			return fmt.Errorf("%s: entry %d: %w: %s (allowed: %s)",
				path, h, errScopeNotAllowed, n, strings.Join(a.settings.Scopes, ", "))
		}
	}

	return a.withStore(func(store snapshot.Store) error {
		snap, err := snapshot.Save(cmd.Context(), store, label, r, a.settings.SnapshotOptions(a.logger)...)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s/%s (%d entries)\n", snap.Label, snap.ID, snap.Count)
		return nil
	})
}

func readEntries(path string, opts []registry.Option) (*registry.Registry[entryID, any], error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entries: %w", err)
	}

	var r *registry.Registry[entryID, any]
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		r, err = codec.UnmarshalJSON[entryID, any](data, opts...)
	case ".yaml", ".yml":
		r, err = codec.UnmarshalYAML[entryID, any](data, opts...)
	default:
		return nil, fmt.Errorf("unsupported entry file extension: %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}
