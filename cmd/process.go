package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/civicmaps/pollmap/internal/pipeline"
	"github.com/civicmaps/pollmap/internal/schema"
)

// candidatePalette cycles through suggested fill colors for the printed
// configuration snippet.
var candidatePalette = []string{
	"#d71920", // red
	"#1a4782", // blue
	"#f58220", // orange
	"#3d9b35", // green
	"#512a8b", // purple
	"#33b2cc", // teal
}

var processCmd = &cobra.Command{
	Use:   "process <results.csv|results.xlsx> [boundaries.geojson] [output-prefix]",
	Short: "Process a results table and write enriched boundary GeoJSON",
	Long: `Detects the column layout of a per-polling-division results table,
aggregates votes by division, joins the totals onto the district's
boundary polygons, reprojects to WGS84, and writes two GeoJSON files:
<prefix>_election_results.geojson with every joined field and
<prefix>_election_simple.geojson with a minimal set for web maps.`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		resultsPath := args[0]
		boundaryPath := cfg.Geo.BoundaryFile
		if len(args) > 1 {
			boundaryPath = args[1]
		}
		prefix := ""
		if len(args) > 2 {
			prefix = args[2]
		}

		for _, path := range []string{resultsPath, boundaryPath} {
			if _, err := os.Stat(path); err != nil {
				fmt.Printf("Error: input file %q not found\n", path)
				return nil
			}
		}

		res, err := pipeline.Process(cfg, resultsPath, boundaryPath, prefix)
		if err != nil {
			zap.L().Error("processing failed", zap.Error(err))
			return eris.Wrap(err, "process")
		}

		printResult(res)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func printResult(res *pipeline.Result) {
	fmt.Printf("Processing data for: %s (District %d)\n\n", res.District.Name, res.District.ID)

	printMapping(res.Mapping, res.Warnings)

	c := res.Counts
	fmt.Println("Counts:")
	fmt.Printf("  Rows in results table:          %d\n", c.RawRows)
	fmt.Printf("  Rows after combined filter:     %d\n", c.CleanRows)
	fmt.Printf("  Polling divisions aggregated:   %d\n", c.Divisions)
	fmt.Printf("  Boundary features total:        %d\n", c.BoundaryFeatures)
	fmt.Printf("  Boundary features in district:  %d\n", c.DistrictFeatures)
	fmt.Printf("  Features after join:            %d\n", c.JoinedFeatures)

	fmt.Println("\nCreated files:")
	fmt.Printf("- %s (full data)\n", res.ResultsFile)
	fmt.Printf("- %s (simplified for web)\n", res.SimpleFile)

	fmt.Println("\nSuggested color configuration:")
	fmt.Println("const candidateColors = {")
	for i, candidate := range res.Mapping.Candidates {
		fmt.Printf("    %q: %q,\n", candidate, candidatePalette[i%len(candidatePalette)])
	}
	fmt.Println("};")
	fmt.Printf("// Load data from: %s\n", res.SimpleFile)
}

func printMapping(m schema.Mapping, warnings []schema.Warning) {
	fmt.Println("Detected columns:")
	for _, field := range schema.StandardFields {
		col, err := m.Column(field)
		if err != nil {
			col = "(not found)"
		}
		fmt.Printf("  %-16s %s\n", field, col)
	}
	fmt.Println("  Candidates:")
	for _, candidate := range m.Candidates {
		fmt.Printf("    %s\n", candidate)
	}
	for _, w := range warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	fmt.Println()
}
