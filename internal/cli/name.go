package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/idreg/pkg/idreg/name"
)

func newNameCmd() *cobra.Command {
	nameCmd := &cobra.Command{
		Use:   "name",
		Short: "Work with qualified names",
	}
	nameCmd.AddCommand(&cobra.Command{
		Use:   "check <name>...",
		Short: "Validate qualified names",
		Long: `Validate one or more qualified names.

Each valid name prints its scope and unqualified view. Invalid names are
reported and the command exits non-zero.

Examples:
  idregctl name check ui:icon sprites:player_1
  idregctl name check Bad:name`,
		Args: cobra.MinimumNArgs(1),
		// Name checks never touch settings or the store.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE:              runNameCheck,
	})
	return nameCmd
}

func runNameCheck(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0
	for _, raw := range args {
		n, ok := name.Parse(raw)
		if !ok {
			invalid++
			fmt.Fprintf(out, "%s\tinvalid\n", raw)
			continue
		}
		fmt.Fprintf(out, "%s\tscope=%s\tunqualified=%s\n", n, n.Scope(), n.Unqualified())
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d names invalid", invalid, len(args))
	}
	return nil
}
