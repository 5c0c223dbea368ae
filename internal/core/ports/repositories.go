package ports

import (
	"context"

	geojson "github.com/paulmach/go.geojson"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// RouteSource yields the full route table.
type RouteSource interface {
	Routes(ctx context.Context) ([]domain.Route, error)
}

// BoundarySource yields the country boundary collection.
type BoundarySource interface {
	Boundaries(ctx context.Context) (*geojson.FeatureCollection, error)
}

// RouteRepository persists routes.
type RouteRepository interface {
	RouteSource
	UpsertBatch(ctx context.Context, routes []domain.Route) error
	Count(ctx context.Context) (int, error)
}

// AirportIndex answers spatial queries over airport aggregates.
type AirportIndex interface {
	Rebuild(airports []domain.AirportAggregate)
	Nearest(p domain.GeoPoint, k int) []domain.AirportAggregate
	Within(p domain.GeoPoint, radiusMeters float64) []domain.AirportAggregate
}
