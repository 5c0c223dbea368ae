package render

import (
	"math"
	"strings"

	geo "github.com/paulmach/go.geo"
	geojson "github.com/paulmach/go.geojson"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/render/svg"
)

// mercatorPole is the EPSG:3857 half-extent used by go.geo.
const mercatorPole = 20037508.34

// Mercator is a spherical Mercator projection scaled to pixels and
// translated so that (0°, 0°) lands on (tx, ty).
type Mercator struct {
	scale  float64
	tx, ty float64
}

// NewMercator creates a Mercator projection.
func NewMercator(scale, tx, ty float64) *Mercator {
	return &Mercator{scale: scale, tx: tx, ty: ty}
}

// Scale returns the pixel scale factor.
func (m *Mercator) Scale() float64 { return m.scale }

// Translate returns the pixel position of the origin.
func (m *Mercator) Translate() (float64, float64) { return m.tx, m.ty }

// Project implements domain.Projection. Latitudes beyond the Mercator
// limit are clamped by go.geo; non-numeric input projects to NaN.
func (m *Mercator) Project(p domain.GeoPoint) domain.ScreenPoint {
	pt := geo.NewPoint(p.Lon, p.Lat)
	geo.Mercator.Project(pt)
	x := pt.X() / mercatorPole * math.Pi
	y := pt.Y() / mercatorPole * math.Pi
	return domain.ScreenPoint{X: m.tx + m.scale*x, Y: m.ty - m.scale*y}
}

// ProjectRings projects every ring of a polygonal geometry. Points that do
// not project to finite positions are dropped; other geometry types yield
// no rings.
func ProjectRings(g *geojson.Geometry, proj domain.Projection) [][]domain.ScreenPoint {
	if g == nil {
		return nil
	}
	var polygons [][][][]float64
	switch {
	case g.IsPolygon():
		polygons = [][][][]float64{g.Polygon}
	case g.IsMultiPolygon():
		polygons = g.MultiPolygon
	}

	var rings [][]domain.ScreenPoint
	for _, poly := range polygons {
		for _, ring := range poly {
			pts := make([]domain.ScreenPoint, 0, len(ring))
			for _, c := range ring {
				if len(c) < 2 {
					continue
				}
				pt := proj.Project(domain.GeoPoint{Lon: c[0], Lat: c[1]})
				if pt.Finite() {
					pts = append(pts, pt)
				}
			}
			if len(pts) > 0 {
				rings = append(rings, pts)
			}
		}
	}
	return rings
}

// GeometryPath converts a polygonal geometry into SVG path data. Other
// geometry types produce an empty string.
func GeometryPath(g *geojson.Geometry, proj domain.Projection) string {
	var b strings.Builder
	for _, ring := range ProjectRings(g, proj) {
		for i, pt := range ring {
			if i == 0 {
				b.WriteByte('M')
			} else {
				b.WriteByte('L')
			}
			b.WriteString(svg.FormatNum(pt.X))
			b.WriteByte(',')
			b.WriteString(svg.FormatNum(pt.Y))
		}
		b.WriteByte('Z')
	}
	return b.String()
}

// ProjectRoutes projects each route's endpoints. Routes whose endpoints do
// not project to finite positions are left out.
func ProjectRoutes(routes []domain.Route, proj domain.Projection) []domain.RouteLine {
	lines := make([]domain.RouteLine, 0, len(routes))
	for _, r := range routes {
		src := proj.Project(r.Source())
		dst := proj.Project(r.Dest())
		if !src.Finite() || !dst.Finite() {
			continue
		}
		lines = append(lines, domain.RouteLine{
			RouteID:   r.ID,
			AirlineID: r.AirlineID,
			X1:        src.X,
			Y1:        src.Y,
			X2:        dst.X,
			Y2:        dst.Y,
		})
	}
	return lines
}
