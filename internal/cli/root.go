// Package cli implements the idregctl command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/idreg/pkg/idreg/config"
	"github.com/randalmurphal/idreg/pkg/idreg/snapshot"
)

// entryID is the handle type for registries built from untyped entry files.
type entryID uint32

// app carries state shared by every subcommand for one invocation.
type app struct {
	cfgFile  string
	dbPath   string
	settings config.Settings
	logger   *slog.Logger
}

// NewRootCmd builds the idregctl command tree.
func NewRootCmd(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "idregctl",
		Short: "Inspect and persist named-entity registries",
		Long: `idregctl validates qualified names, imports entry files into registry
snapshots, and inspects stored snapshots.

Entry files are JSON or YAML sequences of {name, value} objects, where name
is an optional qualified name of the form scope:identifier.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"settings file (.yaml, .yml or .json)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "",
		"snapshot database path (overrides snapshot.path)")

	root.AddCommand(
		newNameCmd(),
		newImportCmd(a),
		newSnapshotCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg := config.New(nil)
	if a.cfgFile != "" {
		loaded, err := config.FromFile(a.cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	settings, err := cfg.Settings()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if a.dbPath != "" {
		settings.SnapshotDriver = config.DriverSQLite
		settings.SnapshotPath = a.dbPath
	}

	a.settings = settings
	a.logger = settings.Logger(cmd.ErrOrStderr())
	return nil
}

// withStore opens the configured store for the duration of fn.
func (a *app) withStore(fn func(store snapshot.Store) error) (err error) {
	store, err := a.settings.OpenStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}()
	return fn(store)
}
