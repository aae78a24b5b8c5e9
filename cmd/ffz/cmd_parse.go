package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Apeiron-Software/faster-freezed/dart"
	"github.com/Apeiron-Software/faster-freezed/diag"
)

func newParseCmd() *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Dart file and dump the recognized class models as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			col := diag.NewCollector()
			col.Register(filename)
			models := dart.ClassModelsFromSource(data, filename, col)
			if resolve {
				table := dart.BuildNameTable(models, col)
				dart.ResolveBatch(models, table, nil, col)
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(models); err != nil {
				return fmt.Errorf("encode: %w", err)
			}

			for _, d := range col.All() {
				fmt.Fprintln(os.Stderr, d)
			}
			if col.HasErrors() {
				return fmt.Errorf("parse finished with errors")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "resolve type shapes against the file's own classes")

	return cmd
}
