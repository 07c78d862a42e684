package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/username/imecore/internal/compiler"
)

func newDecompileTableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decompile-table <table.bin> [out.yaml]",
		Short: "Dump a compiled table's text/code/weight rows",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := compiler.Decompile(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, "decompile-table:", err)
				os.Exit(1)
			}

			out := os.Stdout
			if len(args) == 2 {
				f, err := os.Create(args[1])
				if err != nil {
					fmt.Fprintln(os.Stderr, "decompile-table:", err)
					os.Exit(1)
				}
				defer f.Close()
				out = f
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
