// Command idregctl inspects and persists named-entity registries.
package main

import (
	"fmt"
	"os"

	"github.com/randalmurphal/idreg/internal/cli"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
