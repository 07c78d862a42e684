package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/username/imecore/internal/compiler"
)

func newYAMLCompileCmd() *cobra.Command {
	var srcDir, destDir string

	cmd := &cobra.Command{
		Use:   "yaml-compile <file.yaml>",
		Short: "Compile a dict source YAML file into Prism/Table/ReverseDb artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if srcDir != "" {
				path = filepath.Join(srcDir, path)
			}
			dest := destDir
			if dest == "" {
				dest = "."
			}

			schemaID := strings.TrimSuffix(filepath.Base(path), ".dict.yaml")
			schemaID = strings.TrimSuffix(schemaID, ".yaml")

			job := compiler.Job{SchemaID: schemaID, DictFiles: []string{path}, OutputDir: dest}
			if _, err := compiler.Compile(job); err != nil {
				fmt.Fprintln(os.Stderr, "yaml-compile:", err)
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&srcDir, "src", "s", "", "directory the input file is resolved against")
	cmd.Flags().StringVarP(&destDir, "dest", "d", "", "directory compiled artifacts are written to")
	return cmd
}
