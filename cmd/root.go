package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicmaps/pollmap/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pollmap",
	Short: "Join electoral results with polling-division boundaries",
	Long:  "Reads per-polling-division results tables, detects their column layout, aggregates votes by division, joins the totals onto boundary polygons, and writes enriched GeoJSON for web mapping.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
