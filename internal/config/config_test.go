package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "polling_divisions.geojson", cfg.Geo.BoundaryFile)
	assert.Equal(t, "FED_NUM", cfg.Geo.DistrictField)
	assert.Equal(t, "PD_NUM", cfg.Geo.DivisionField)
	assert.Equal(t, "EPSG:3347", cfg.Geo.SourceCRS)
	assert.Equal(t, 0, cfg.Schema.XLSXSheet)
	assert.False(t, cfg.Output.Indent)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("POLLMAP_GEO_SOURCE_CRS", "EPSG:4326")
	t.Setenv("POLLMAP_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "EPSG:4326", cfg.Geo.SourceCRS)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
}
