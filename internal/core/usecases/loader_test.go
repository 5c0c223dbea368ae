package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/usecases"
	"github.com/samirrijal/routemap/internal/render"
)

func TestLoader_Load(t *testing.T) {
	proj := render.DefaultMapConfig().Projection()
	loader := usecases.NewLoader(staticRoutes(sampleRoutes()), &mockBoundarySource{}, proj)

	state, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, state.Routes, 3)
	assert.NotNil(t, state.Boundaries)
	assert.Equal(t, proj, state.Projection)
	assert.NotEmpty(t, state.Version)
	assert.False(t, state.LoadedAt.IsZero())
	assert.Zero(t, state.MalformedRows)
}

func TestLoader_VersionIsStable(t *testing.T) {
	loader := usecases.NewLoader(staticRoutes(sampleRoutes()), &mockBoundarySource{}, nil)
	a, err := loader.Load(context.Background())
	require.NoError(t, err)
	b, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a.Version, b.Version)

	other := usecases.NewLoader(staticRoutes(sampleRoutes()[:1]), &mockBoundarySource{}, nil)
	c, err := other.Load(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a.Version, c.Version)
}

func TestLoader_VersionCoversEveryRouteField(t *testing.T) {
	base, err := usecases.NewLoader(staticRoutes(sampleRoutes()), &mockBoundarySource{}, nil).Load(context.Background())
	require.NoError(t, err)

	edits := map[string]func(*domain.Route){
		"airline name":   func(r *domain.Route) { r.AirlineName = "Renamed" },
		"source airport": func(r *domain.Route) { r.SourceAirport = "Kennedy" },
		"source city":    func(r *domain.Route) { r.SourceCity = "NewTown" },
		"source country": func(r *domain.Route) { r.SourceCountry = "Elsewhere" },
		"dest airport":   func(r *domain.Route) { r.DestAirport = "Heathrow" },
		"dest city":      func(r *domain.Route) { r.DestCity = "London" },
		"dest country":   func(r *domain.Route) { r.DestCountry = "UK" },
		"dest longitude": func(r *domain.Route) { r.DestLongitude += 0.01 },
	}
	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			routes := sampleRoutes()
			edit(&routes[0])
			state, err := usecases.NewLoader(staticRoutes(routes), &mockBoundarySource{}, nil).Load(context.Background())
			require.NoError(t, err)
			assert.NotEqual(t, base.Version, state.Version)
		})
	}
}

func TestLoader_VersionSeparatesFields(t *testing.T) {
	a := sampleRoutes()
	a[0].SourceCity, a[0].SourceCountry = "ab", "c"
	b := sampleRoutes()
	b[0].SourceCity, b[0].SourceCountry = "a", "bc"

	va, err := usecases.NewLoader(staticRoutes(a), &mockBoundarySource{}, nil).Load(context.Background())
	require.NoError(t, err)
	vb, err := usecases.NewLoader(staticRoutes(b), &mockBoundarySource{}, nil).Load(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, va.Version, vb.Version)
}

func TestLoader_CountsMalformedRows(t *testing.T) {
	routes := sampleRoutes()
	routes[1].DestLatitude = math.NaN()
	loader := usecases.NewLoader(staticRoutes(routes), &mockBoundarySource{}, nil)

	state, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, state.MalformedRows)
	assert.Len(t, state.Routes, 3)
}

func TestLoader_RouteFailure(t *testing.T) {
	boom := errors.New("boom")
	loader := usecases.NewLoader(
		&mockRouteSource{routesFn: func(ctx context.Context) ([]domain.Route, error) { return nil, boom }},
		&mockBoundarySource{},
		nil,
	)
	state, err := loader.Load(context.Background())
	assert.Nil(t, state)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "load routes")
}

func TestLoader_BoundaryFailureCancelsRoutes(t *testing.T) {
	boom := errors.New("no boundaries")
	cancelled := make(chan struct{})
	loader := usecases.NewLoader(
		&mockRouteSource{routesFn: func(ctx context.Context) ([]domain.Route, error) {
			select {
			case <-ctx.Done():
				close(cancelled)
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return nil, nil
			}
		}},
		&mockBoundarySource{boundariesFn: func(ctx context.Context) (*geojson.FeatureCollection, error) {
			return nil, boom
		}},
		nil,
	)
	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, boom)

	select {
	case <-cancelled:
	default:
		t.Fatal("route fetch was not cancelled")
	}
}
