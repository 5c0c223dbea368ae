package render

import (
	"strings"
	"testing"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/routemap/internal/core/domain"
)

func TestWorldMapLayers(t *testing.T) {
	cfg := DefaultMapConfig()
	fc := geojson.NewFeatureCollection()
	f := geojson.NewPolygonFeature([][][]float64{{{-5, 40}, {5, 40}, {5, 50}, {-5, 40}}})
	f.SetProperty("name", "Somewhere")
	fc.AddFeature(f)

	state := &domain.State{Boundaries: fc, Projection: cfg.Projection()}
	airports := []domain.AirportAggregate{
		{AirportID: "507", Airport: "LHR", City: "London", Country: "United Kingdom", Latitude: 51.47, Longitude: -0.45, Count: 3},
	}
	lines := ProjectRoutes([]domain.Route{
		{ID: "r1", AirlineID: "24", SourceLatitude: 51.47, SourceLongitude: -0.45, DestLatitude: 40.64, DestLongitude: -73.78},
	}, state.Projection)

	out, err := WorldMap(state, airports, lines, cfg).Bytes()
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasPrefix(s, `<svg xmlns="http://www.w3.org/2000/svg" width="900" height="600">`))
	assert.NotContains(t, s, `id="`+MapMountID+`"`)
	assert.Contains(t, s, `fill="#eee" stroke="#ccc"`)
	assert.Contains(t, s, "<title>Somewhere</title>")
	assert.Contains(t, s, `data-airport-id="507"`)
	assert.Contains(t, s, `id="route-r1"`)
	assert.Contains(t, s, `stroke="#992a2a" opacity="1"`)
	assert.NotContains(t, s, "stroke-opacity")

	// countries, then airports, then routes
	assert.Less(t, strings.Index(s, `class="countries"`), strings.Index(s, `class="airports"`))
	assert.Less(t, strings.Index(s, `class="airports"`), strings.Index(s, `class="routes"`))
}

func TestWorldMapWithoutBoundaries(t *testing.T) {
	out, err := WorldMap(&domain.State{}, nil, nil, DefaultMapConfig()).Bytes()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<path")
}
