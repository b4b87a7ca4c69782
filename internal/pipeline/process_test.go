package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicmaps/pollmap/internal/boundary"
	"github.com/civicmaps/pollmap/internal/config"
)

const testCSV = `Electoral District Number,Electoral District Name,Polling Division Number,Polling Division Name,"Smith, Jane Liberal","Tremblay, Marc Conservative",Rejected Ballots,Total Votes,Electors
24030,Jonquière,1,Arvida,10,5,0,15,30
24030,Jonquière,1,Arvida,2,3,1,6,0
24030,Jonquière,2,Kénogami,Combined with 1,Combined with 1,0,21,0
24030,Jonquière,3,Shipshaw,4,8,0,12,20
24030,Jonquière,9,Lac-Kénogami,1,1,0,2,5
`

const testGeoJSON = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{"FED_NUM":24030,"PD_NUM":1},"geometry":{"type":"Polygon","coordinates":[[[-71.2,48.4],[-71.1,48.4],[-71.1,48.5],[-71.2,48.5],[-71.2,48.4]]]}},
{"type":"Feature","properties":{"FED_NUM":24030,"PD_NUM":3},"geometry":{"type":"Polygon","coordinates":[[[-71.3,48.4],[-71.2,48.4],[-71.2,48.5],[-71.3,48.5],[-71.3,48.4]]]}},
{"type":"Feature","properties":{"FED_NUM":24030,"PD_NUM":77},"geometry":{"type":"Polygon","coordinates":[[[-71.4,48.4],[-71.3,48.4],[-71.3,48.5],[-71.4,48.5],[-71.4,48.4]]]}},
{"type":"Feature","properties":{"FED_NUM":35110,"PD_NUM":1},"geometry":{"type":"Polygon","coordinates":[[[-79.4,43.6],[-79.3,43.6],[-79.3,43.7],[-79.4,43.7],[-79.4,43.6]]]}}
]}`

func testConfig() *config.Config {
	return &config.Config{
		Geo: config.GeoConfig{
			BoundaryFile:  "polling_divisions.geojson",
			DistrictField: "FED_NUM",
			DivisionField: "PD_NUM",
			SourceCRS:     "EPSG:4326",
		},
	}
}

func writeInputs(t *testing.T) (dir, csvPath, geoPath string) {
	t.Helper()
	dir = t.TempDir()
	csvPath = filepath.Join(dir, "pollbypoll24030.csv")
	geoPath = filepath.Join(dir, "polling_divisions.geojson")
	require.NoError(t, os.WriteFile(csvPath, []byte(testCSV), 0o644))
	require.NoError(t, os.WriteFile(geoPath, []byte(testGeoJSON), 0o644))
	return dir, csvPath, geoPath
}

func TestProcess_EndToEnd(t *testing.T) {
	dir, csvPath, geoPath := writeInputs(t)
	prefix := filepath.Join(dir, "jonquiere")

	res, err := Process(testConfig(), csvPath, geoPath, prefix)
	require.NoError(t, err)

	assert.Equal(t, 24030, res.District.ID)
	assert.Equal(t, "Jonquière", res.District.Name)
	assert.Equal(t, []string{"Smith, Jane Liberal", "Tremblay, Marc Conservative"}, res.Mapping.Candidates)
	assert.Empty(t, res.Warnings)

	c := res.Counts
	assert.Equal(t, 5, c.RawRows)
	assert.Equal(t, 4, c.CleanRows, "combined row dropped")
	assert.Equal(t, 3, c.Divisions)
	assert.Equal(t, 4, c.BoundaryFeatures)
	assert.Equal(t, 3, c.DistrictFeatures, "other district filtered out")
	assert.Equal(t, 2, c.JoinedFeatures, "inner join drops unmatched on both sides")
	assert.Equal(t, 2, c.JoinedDivisions)

	full, err := boundary.ReadFeatures(res.ResultsFile)
	require.NoError(t, err)
	require.Len(t, full.Features, 2)

	props := full.Features[0].Properties
	assert.Equal(t, float64(1), props["PD_NUM"])
	assert.Equal(t, "Arvida", props["PD_NAME"])
	assert.Equal(t, 12.0, props["Smith, Jane Liberal"], "two rows for division 1 summed")
	assert.Equal(t, 8.0, props["Tremblay, Marc Conservative"])
	assert.Equal(t, 21.0, props["Total Votes"])
	assert.Equal(t, 1.0, props["Rejected Ballots"])
	assert.Equal(t, "Smith, Jane Liberal", props["leading_candidate"])
	assert.InDelta(t, 12.0/21.0*100, props["leading_candidate_pct"].(float64), 1e-9)

	simple, err := boundary.ReadFeatures(res.SimpleFile)
	require.NoError(t, err)
	require.Len(t, simple.Features, 2)
	assert.NotContains(t, simple.Features[0].Properties, "FED_NUM")
	assert.Contains(t, simple.Features[0].Properties, "PD_NAME")
}

func TestProcess_Deterministic(t *testing.T) {
	dir, csvPath, geoPath := writeInputs(t)

	res1, err := Process(testConfig(), csvPath, geoPath, filepath.Join(dir, "a"))
	require.NoError(t, err)
	res2, err := Process(testConfig(), csvPath, geoPath, filepath.Join(dir, "b"))
	require.NoError(t, err)

	for _, pair := range [][2]string{
		{res1.ResultsFile, res2.ResultsFile},
		{res1.SimpleFile, res2.SimpleFile},
	} {
		d1, err := os.ReadFile(pair[0])
		require.NoError(t, err)
		d2, err := os.ReadFile(pair[1])
		require.NoError(t, err)
		assert.Equal(t, d1, d2, "identical inputs must produce identical output")
	}
}

func TestProcess_DefaultPrefix(t *testing.T) {
	assert.Equal(t, "pollbypoll24030", defaultPrefix("/data/pollbypoll24030.csv"))
	assert.Equal(t, "results", defaultPrefix("results.xlsx"))
}

func TestProcess_MissingResultsFile(t *testing.T) {
	dir := t.TempDir()
	geoPath := filepath.Join(dir, "polling_divisions.geojson")
	require.NoError(t, os.WriteFile(geoPath, []byte(testGeoJSON), 0o644))

	_, err := Process(testConfig(), filepath.Join(dir, "missing.csv"), geoPath, filepath.Join(dir, "x"))
	require.Error(t, err)
}

func TestProcess_FailureWritesNothing(t *testing.T) {
	dir, csvPath, _ := writeInputs(t)
	prefix := filepath.Join(dir, "broken")

	// Boundary file is unreadable JSON: computation fails before output.
	badGeo := filepath.Join(dir, "bad.geojson")
	require.NoError(t, os.WriteFile(badGeo, []byte("{not json"), 0o644))

	_, err := Process(testConfig(), csvPath, badGeo, prefix)
	require.Error(t, err)

	_, statErr := os.Stat(prefix + "_election_results.geojson")
	assert.True(t, os.IsNotExist(statErr), "no partial output on failure")
	_, statErr = os.Stat(prefix + "_election_simple.geojson")
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcess_UnsupportedCRS(t *testing.T) {
	dir, csvPath, geoPath := writeInputs(t)

	cfg := testConfig()
	cfg.Geo.SourceCRS = "EPSG:9999"

	_, err := Process(cfg, csvPath, geoPath, filepath.Join(dir, "x"))
	require.Error(t, err)
}
