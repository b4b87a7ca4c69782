// Package pipeline runs the full results-to-map flow: read the results
// table, resolve its schema, aggregate by polling division, join with
// district boundaries, reproject, and write the output files.
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/civicmaps/pollmap/internal/boundary"
	"github.com/civicmaps/pollmap/internal/config"
	"github.com/civicmaps/pollmap/internal/project"
	"github.com/civicmaps/pollmap/internal/results"
	"github.com/civicmaps/pollmap/internal/schema"
	"github.com/civicmaps/pollmap/internal/tabular"
)

// Counts records how many rows and features survived each stage. The
// inner join loses data by design; the reductions here make that loss
// observable.
type Counts struct {
	RawRows          int
	CleanRows        int
	Divisions        int
	BoundaryFeatures int
	DistrictFeatures int
	JoinedFeatures   int
	JoinedDivisions  int
}

// Result summarizes one processing run.
type Result struct {
	District    results.District
	Mapping     schema.Mapping
	Warnings    []schema.Warning
	Counts      Counts
	ResultsFile string
	SimpleFile  string
}

// Process runs the whole pipeline for one district. Output files are
// written only after every computation stage has succeeded, so a failed
// run leaves no partial artifacts.
func Process(cfg *config.Config, resultsPath, boundaryPath, prefix string) (*Result, error) {
	log := zap.L()

	if prefix == "" {
		prefix = defaultPrefix(resultsPath)
	}

	// Stage 1: results table.
	table, err := tabular.ReadTable(resultsPath, cfg.Schema.XLSXSheet)
	if err != nil {
		return nil, err
	}
	log.Info("read results table",
		zap.String("file", resultsPath),
		zap.Int("rows", table.Len()),
		zap.Int("columns", len(table.Headers)),
	)

	resolver := schema.NewSubstringResolver(cfg.Schema.ExtraPatterns)
	mapping, warnings := resolver.Resolve(table.Headers)
	for _, w := range warnings {
		log.Warn("schema: " + w.String())
	}
	if len(mapping.Candidates) == 0 {
		return nil, eris.New("pipeline: no candidate columns detected in results table")
	}

	clean, err := results.FilterCombined(table, mapping.Candidates[0])
	if err != nil {
		return nil, err
	}
	log.Info("filtered combined rows",
		zap.Int("before", table.Len()),
		zap.Int("after", clean.Len()),
	)

	divisions, district, err := results.Aggregate(clean, mapping)
	if err != nil {
		return nil, err
	}
	log.Info("aggregated polling divisions",
		zap.Int("district", district.ID),
		zap.String("district_name", district.Name),
		zap.Int("divisions", len(divisions)),
	)

	// Stage 2: boundaries, join, output.
	fc, err := boundary.ReadFeatures(boundaryPath)
	if err != nil {
		return nil, err
	}

	districtFeatures := boundary.FilterDistrict(fc.Features, cfg.Geo.DistrictField, district.ID)
	log.Info("filtered boundary features to district",
		zap.Int("district", district.ID),
		zap.Int("before", len(fc.Features)),
		zap.Int("after", len(districtFeatures)),
	)

	joined, matchedDivisions := boundary.Join(districtFeatures, divisions, cfg.Geo.DivisionField, mapping)
	// Inner join: unmatched features and unmatched divisions are dropped.
	log.Info("joined results with boundaries",
		zap.Int("features_in", len(districtFeatures)),
		zap.Int("features_joined", len(joined)),
		zap.Int("features_dropped", len(districtFeatures)-len(joined)),
		zap.Int("divisions_in", len(divisions)),
		zap.Int("divisions_joined", matchedDivisions),
		zap.Int("divisions_dropped", len(divisions)-matchedDivisions),
	)

	transformer, err := project.ForCRS(cfg.Geo.SourceCRS)
	if err != nil {
		return nil, err
	}
	if !transformer.Identity() {
		for _, f := range joined {
			transformer.Apply(f.Geometry)
		}
		log.Info("reprojected geometry to WGS84", zap.String("source_crs", transformer.Code()))
	}

	simple := boundary.Simplify(joined, cfg.Geo.DivisionField, mapping)

	resultsFile := fmt.Sprintf("%s_election_results.geojson", prefix)
	simpleFile := fmt.Sprintf("%s_election_simple.geojson", prefix)

	if err := boundary.WriteFeatures(resultsFile, &geojson.FeatureCollection{Features: joined}, cfg.Output.Indent); err != nil {
		return nil, err
	}
	if err := boundary.WriteFeatures(simpleFile, &geojson.FeatureCollection{Features: simple}, cfg.Output.Indent); err != nil {
		return nil, err
	}

	return &Result{
		District: district,
		Mapping:  mapping,
		Warnings: warnings,
		Counts: Counts{
			RawRows:          table.Len(),
			CleanRows:        clean.Len(),
			Divisions:        len(divisions),
			BoundaryFeatures: len(fc.Features),
			DistrictFeatures: len(districtFeatures),
			JoinedFeatures:   len(joined),
			JoinedDivisions:  matchedDivisions,
		},
		ResultsFile: resultsFile,
		SimpleFile:  simpleFile,
	}, nil
}

// defaultPrefix derives the output prefix from the results filename.
func defaultPrefix(resultsPath string) string {
	base := filepath.Base(resultsPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
