package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/idreg/pkg/idreg/display"
	"github.com/randalmurphal/idreg/pkg/idreg/registry"
	"github.com/randalmurphal/idreg/pkg/idreg/snapshot"
)

// latestID selects the most recent snapshot in show.
const latestID = "latest"

func newSnapshotCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snap"},
		Short:   "Inspect stored registry snapshots",
	}
	cmd.AddCommand(
		newSnapshotListCmd(a),
		newSnapshotShowCmd(a),
		newSnapshotDeleteCmd(a),
	)
	return cmd
}

func newSnapshotListCmd(a *app) *cobra.Command {
	var label string
	cmd := &cobra.Command{
		Use:   "list --label <label>",
		Short: "List snapshots for a registry label, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(func(store snapshot.Store) error {
				infos, err := store.List(label)
				if err != nil {
					return err
				}
				if len(infos) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "no snapshots for %q\n", label)
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SEQ\tID\tSAVED\tBYTES")
				for _, info := range infos {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n",
						info.Sequence, info.ID, info.Timestamp.Format(time.RFC3339), info.Size)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().StringVarP(&label, "label", "l", "", "registry label")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func newSnapshotShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <label> <id|latest>",
		Short: "Print the entries of a snapshot",
		Long: `Print each entry of a snapshot as index, display name and JSON value.

Anonymous entries display as unknown(<index>).

Examples:
  idregctl snapshot show assets latest
  idregctl snapshot show assets 3f2b6c1e-...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(func(store snapshot.Store) error {
				r, err := a.loadSnapshot(cmd, store, args[0], args[1])
				if err != nil {
					return err
				}
				return printEntries(cmd, r)
			})
		},
	}
}

func newSnapshotDeleteCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "delete <label> [id]",
		Short: "Delete one snapshot, or every snapshot of a label with --all",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 2) {
				return fmt.Errorf("give either an id or --all")
			}
			return a.withStore(func(store snapshot.Store) error {
				if all {
					return store.DeleteLabel(args[0])
				}
				return store.Delete(args[0], args[1])
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every snapshot of the label")
	return cmd
}

func (a *app) loadSnapshot(cmd *cobra.Command, store snapshot.Store, label, id string) (*registry.Registry[entryID, any], error) {
	opts := a.settings.SnapshotOptions(a.logger, a.settings.RegistryOptions(label, a.logger)...)
	if id == latestID {
		return snapshot.Latest[entryID, any](cmd.Context(), store, label, opts...)
	}
	return snapshot.Load[entryID, any](cmd.Context(), store, label, id, opts...)
}

func printEntries(cmd *cobra.Command, r *registry.Registry[entryID, any]) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for h, e := range r.All() {
		value, err := json.Marshal(e.Value)
		if err != nil {
			return fmt.Errorf("entry %d: %w", h, err)
		}
		fmt.Fprintf(tw, "%d\t%v\t%s\n", h, display.Of(r, h), value)
	}
	return tw.Flush()
}
