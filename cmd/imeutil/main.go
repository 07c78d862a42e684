// Command imeutil is the maintenance and debugging CLI around the
// compiler and engine packages (spec §6.3): decompiling a built table
// back to text, running the dict compiler standalone, and an interactive
// console that drives a live session against simulated key sequences.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "imeutil",
		Short: "Maintenance CLI for compiled dictionaries and schema sessions",
	}
	root.AddCommand(newDecompileTableCmd())
	root.AddCommand(newYAMLCompileCmd())
	root.AddCommand(newConsoleCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
