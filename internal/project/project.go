// Package project reprojects boundary geometry to WGS84 lon/lat.
//
// GeoJSON files carry no usable CRS metadata (RFC 7946 dropped it), so
// the source CRS is declared by the caller. The supported codes cover
// the coordinate systems federal boundary files ship in.
package project

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/wroge/wgs84"
)

// Transformer converts coordinates from one source CRS to WGS84 lon/lat.
type Transformer struct {
	code      string
	transform wgs84.Func
}

// ForCRS builds a Transformer for a source CRS code. "EPSG:4326" yields
// an identity transform.
func ForCRS(code string) (*Transformer, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	switch normalized {
	case "EPSG:4326", "4326", "":
		return &Transformer{code: "EPSG:4326"}, nil
	case "EPSG:3347", "3347":
		// Statistics Canada Lambert (NAD83).
		return &Transformer{
			code:      "EPSG:3347",
			transform: lambert(-91.866667, 63.390675, 49, 77, 6200000, 3000000),
		}, nil
	case "EPSG:3978", "3978":
		// NAD83 / Canada Atlas Lambert.
		return &Transformer{
			code:      "EPSG:3978",
			transform: lambert(-95, 49, 49, 77, 0, 0),
		}, nil
	default:
		return nil, eris.Errorf("project: unsupported source CRS %q", code)
	}
}

// lambert builds a transform from a Lambert conformal conic 2SP
// projection over GRS80 to WGS84 lon/lat. NAD83 to WGS84 is a zero-shift
// Helmert at the precision this data needs.
func lambert(lonf, latf, sp1, sp2, easting, northing float64) wgs84.Func {
	nad83 := wgs84.Helmert(6378137, 298.257222101, 0, 0, 0, 0, 0, 0, 0)
	from := nad83.LambertConformalConic2SP(lonf, latf, sp1, sp2, easting, northing)
	return wgs84.Transform(from, wgs84.LonLat())
}

// Code returns the source CRS code the transformer was built for.
func (t *Transformer) Code() string {
	return t.code
}

// Identity reports whether the transformer leaves coordinates unchanged.
func (t *Transformer) Identity() bool {
	return t.transform == nil
}

// Apply reprojects a geometry in place.
func (t *Transformer) Apply(g geom.T) {
	if g == nil || t.transform == nil {
		return
	}

	if gc, ok := g.(*geom.GeometryCollection); ok {
		for _, child := range gc.Geoms() {
			t.Apply(child)
		}
		return
	}

	flat := g.FlatCoords()
	stride := g.Stride()
	for i := 0; i+1 < len(flat); i += stride {
		lon, lat, _ := t.transform(flat[i], flat[i+1], 0)
		flat[i], flat[i+1] = lon, lat
	}
}

// Point reprojects a single coordinate pair.
func (t *Transformer) Point(x, y float64) (lon, lat float64) {
	if t.transform == nil {
		return x, y
	}
	lon, lat, _ = t.transform(x, y, 0)
	return lon, lat
}
