package shape

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestToGeom_Polygon(t *testing.T) {
	outer := []shp.Point{
		{X: 0, Y: 0},
		{X: 4, Y: 0},
		{X: 4, Y: 4},
		{X: 0, Y: 4},
		{X: 0, Y: 0},
	}
	second := []shp.Point{
		{X: 10, Y: 10},
		{X: 12, Y: 10},
		{X: 12, Y: 12},
		{X: 10, Y: 12},
		{X: 10, Y: 10},
	}

	p := &shp.Polygon{
		NumParts:  2,
		NumPoints: int32(len(outer) + len(second)),
		Parts:     []int32{0, int32(len(outer))},
		Points:    append(append([]shp.Point{}, outer...), second...),
	}

	g := toGeom(p)
	require.NotNil(t, g)

	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 2, mp.NumPolygons())

	first := mp.Polygon(0)
	assert.Equal(t, 1, first.NumLinearRings())
	assert.Equal(t, []float64{0, 0, 4, 0, 4, 4, 0, 4, 0, 0}, first.LinearRing(0).FlatCoords())
}

func TestToGeom_Point(t *testing.T) {
	g := toGeom(&shp.Point{X: -71.2, Y: 48.4})
	require.NotNil(t, g)

	pt, ok := g.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, []float64{-71.2, 48.4}, pt.FlatCoords())
}

func TestToGeom_PolyLine(t *testing.T) {
	pl := &shp.PolyLine{
		NumParts:  1,
		NumPoints: 2,
		Parts:     []int32{0},
		Points:    []shp.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
	}

	g := toGeom(pl)
	require.NotNil(t, g)

	mls, ok := g.(*geom.MultiLineString)
	require.True(t, ok)
	assert.Equal(t, 1, mls.NumLineStrings())
}

func TestToGeom_NilAndEmpty(t *testing.T) {
	assert.Nil(t, toGeom(nil))
	assert.Nil(t, toGeom(&shp.Polygon{}))
	assert.Nil(t, toGeom(&shp.PolyLine{}))
	assert.Nil(t, toGeom(&shp.Null{}))
}

func TestToFeatureCollection_MissingFile(t *testing.T) {
	_, err := ToFeatureCollection("testdata/does-not-exist.shp")
	require.Error(t, err)
}
