package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/civicmaps/pollmap/internal/boundary"
	"github.com/civicmaps/pollmap/internal/shape"
)

var convertCmd = &cobra.Command{
	Use:   "convert <boundaries.shp> [output.geojson]",
	Short: "Convert a boundary shapefile to GeoJSON",
	Long: `Converts a polling-division boundary shapefile to a GeoJSON
FeatureCollection, carrying all DBF attributes as feature properties.
Coordinates are copied as-is; reprojection happens during processing.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		shpPath := args[0]
		outPath := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".geojson"
		if len(args) > 1 {
			outPath = args[1]
		}

		if _, err := os.Stat(shpPath); err != nil {
			fmt.Printf("Error: input file %q not found\n", shpPath)
			return nil
		}

		fc, err := shape.ToFeatureCollection(shpPath)
		if err != nil {
			return eris.Wrap(err, "convert")
		}

		if err := boundary.WriteFeatures(outPath, fc, cfg.Output.Indent); err != nil {
			return eris.Wrap(err, "convert")
		}

		fmt.Printf("Wrote %d features to %s\n", len(fc.Features), outPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
