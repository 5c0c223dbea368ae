package dataset

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoutes(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "routes.csv"))
	require.NoError(t, err)
	defer f.Close()

	routes, err := ParseRoutes(f)
	require.NoError(t, err)
	require.Len(t, routes, 3)

	r := routes[0]
	assert.Equal(t, "1", r.ID)
	assert.Equal(t, "24", r.AirlineID)
	assert.Equal(t, "American Airlines", r.AirlineName)
	assert.Equal(t, "JFK", r.SourceAirport)
	assert.Equal(t, "London", r.DestCity)
	assert.InDelta(t, 51.4706, r.DestLatitude, 1e-9)
	assert.InDelta(t, -73.77890015, r.SourceLongitude, 1e-9)

	assert.True(t, math.IsNaN(routes[2].DestLatitude))
	assert.False(t, math.IsNaN(routes[2].DestLongitude))
}

func TestParseRoutes_ColumnOrderDoesNotMatter(t *testing.T) {
	in := "\xef\xbb\xbfAirlineID,ID,SourceLatitude\n24,9,12.5\n"
	routes, err := ParseRoutes(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "9", routes[0].ID)
	assert.Equal(t, "24", routes[0].AirlineID)
	assert.InDelta(t, 12.5, routes[0].SourceLatitude, 1e-9)
	assert.True(t, math.IsNaN(routes[0].DestLatitude))
}

func TestParseRoutes_Errors(t *testing.T) {
	_, err := ParseRoutes(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseRoutes(strings.NewReader("Foo,Bar\n1,2\n"))
	assert.ErrorContains(t, err, "ID")
}

func TestCSVRouteSource_File(t *testing.T) {
	src := NewCSVRouteSource(filepath.Join("testdata", "routes.csv"), nil)
	routes, err := src.Routes(context.Background())
	require.NoError(t, err)
	assert.Len(t, routes, 3)

	_, err = NewCSVRouteSource("testdata/missing.csv", nil).Routes(context.Background())
	assert.Error(t, err)
}

func TestCSVRouteSource_URL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/routes.csv" {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join("testdata", "routes.csv"))
	}))
	defer srv.Close()

	routes, err := NewCSVRouteSource(srv.URL+"/routes.csv", srv.Client()).Routes(context.Background())
	require.NoError(t, err)
	assert.Len(t, routes, 3)

	_, err = NewCSVRouteSource(srv.URL+"/nope.csv", srv.Client()).Routes(context.Background())
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestGeoJSONBoundarySource(t *testing.T) {
	fc, err := NewGeoJSONBoundarySource(filepath.Join("testdata", "countries.geojson"), nil).
		Boundaries(context.Background())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
	assert.True(t, fc.Features[0].Geometry.IsPolygon())
	assert.True(t, fc.Features[1].Geometry.IsMultiPolygon())
	assert.Equal(t, "Square", fc.Features[0].Properties["name"])
}

func TestGeoJSONBoundarySource_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.geojson")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := NewGeoJSONBoundarySource(path, nil).Boundaries(context.Background())
	assert.ErrorContains(t, err, "decode boundaries")
}

func TestFingerprint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.csv")
	require.NoError(t, os.WriteFile(path, []byte("ID,AirlineID\n"), 0o644))
	a, err := Fingerprint(context.Background(), nil, path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("ID,AirlineID\n1,2\n"), 0o644))
	b, err := Fingerprint(context.Background(), nil, path)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v1"`)
	}))
	defer srv.Close()
	etag, err := Fingerprint(context.Background(), srv.Client(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, `"v1"`, etag)
}
