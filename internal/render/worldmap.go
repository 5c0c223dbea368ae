package render

import (
	"fmt"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/render/svg"
)

// MapMountID is the id of the map mount point in the host page.
const MapMountID = "Map"

// MapConfig sizes and colors the world map.
type MapConfig struct {
	Width         float64
	Height        float64
	Scale         float64
	OffsetY       float64
	LandFill      string
	BorderStroke  string
	AirportRadius float64
	AirportFill   string
	RouteStroke   string
	RouteOpacity  float64
}

// DefaultMapConfig returns the stock 900x600 map.
func DefaultMapConfig() MapConfig {
	return MapConfig{
		Width:         900,
		Height:        600,
		Scale:         97,
		OffsetY:       20,
		LandFill:      "#eee",
		BorderStroke:  "#ccc",
		AirportRadius: 1,
		AirportFill:   "#2a5599",
		RouteStroke:   "#992a2a",
		RouteOpacity:  1,
	}
}

// Projection builds the Mercator projection centred on the surface.
func (c MapConfig) Projection() *Mercator {
	return NewMercator(c.Scale, c.Width/2, c.Height/2+c.OffsetY)
}

// WorldMap renders country shapes, airport markers and the given route
// lines, in that stacking order.
func WorldMap(state *domain.State, airports []domain.AirportAggregate, lines []domain.RouteLine, cfg MapConfig) *svg.Document {
	doc := svg.NewDocument(cfg.Width, cfg.Height)
	proj := state.Projection
	if proj == nil {
		proj = cfg.Projection()
	}

	countries := &svg.Group{Class: "countries"}
	if state.Boundaries != nil {
		for _, f := range state.Boundaries.Features {
			d := GeometryPath(f.Geometry, proj)
			if d == "" {
				continue
			}
			path := &svg.Path{D: d, Fill: cfg.LandFill, Stroke: cfg.BorderStroke}
			if name, ok := f.Properties["name"].(string); ok {
				path.Title = &svg.Title{Content: name}
			}
			countries.Add(path)
		}
	}

	markers := &svg.Group{Class: "airports"}
	for _, a := range airports {
		pt := proj.Project(a.Location())
		if !pt.Finite() {
			continue
		}
		markers.Add(&svg.Circle{
			CX:        svg.Num(pt.X),
			CY:        svg.Num(pt.Y),
			R:         svg.Num(cfg.AirportRadius),
			Fill:      cfg.AirportFill,
			AirportID: a.AirportID,
			Title:     &svg.Title{Content: fmt.Sprintf("%s (%s, %s)", a.Airport, a.City, a.Country)},
		})
	}

	routes := &svg.Group{ID: "routes", Class: "routes"}
	for _, l := range lines {
		routes.Add(RouteLineElement(l, cfg))
	}

	doc.Add(countries, markers, routes)
	return doc
}

// RouteLineElement draws a single route line keyed by its route id.
func RouteLineElement(l domain.RouteLine, cfg MapConfig) *svg.Line {
	return &svg.Line{
		ID:      "route-" + l.RouteID,
		X1:      svg.Num(l.X1),
		Y1:      svg.Num(l.Y1),
		X2:      svg.Num(l.X2),
		Y2:      svg.Num(l.Y2),
		Stroke:  cfg.RouteStroke,
		Opacity: svg.FormatNum(cfg.RouteOpacity),
		RouteID: l.RouteID,
	}
}
