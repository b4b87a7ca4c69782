package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/civicmaps/pollmap/internal/schema"
	"github.com/civicmaps/pollmap/internal/tabular"
)

var columnsCmd = &cobra.Command{
	Use:   "columns <results.csv|results.xlsx>",
	Short: "Preview the detected column mapping for a results table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("Error: input file %q not found\n", path)
			return nil
		}

		table, err := tabular.ReadTable(path, cfg.Schema.XLSXSheet)
		if err != nil {
			return err
		}

		resolver := schema.NewSubstringResolver(cfg.Schema.ExtraPatterns)
		mapping, warnings := resolver.Resolve(table.Headers)
		printMapping(mapping, warnings)
		fmt.Printf("%d data rows\n", table.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(columnsCmd)
}
