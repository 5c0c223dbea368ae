package usecases_test

import (
	"context"
	"errors"
	"sync"

	geojson "github.com/paulmach/go.geojson"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// --- Mock sources ---

type mockRouteSource struct {
	routesFn func(ctx context.Context) ([]domain.Route, error)
}

func (m *mockRouteSource) Routes(ctx context.Context) ([]domain.Route, error) {
	if m.routesFn != nil {
		return m.routesFn(ctx)
	}
	return nil, nil
}

type mockBoundarySource struct {
	boundariesFn func(ctx context.Context) (*geojson.FeatureCollection, error)
}

func (m *mockBoundarySource) Boundaries(ctx context.Context) (*geojson.FeatureCollection, error) {
	if m.boundariesFn != nil {
		return m.boundariesFn(ctx)
	}
	return geojson.NewFeatureCollection(), nil
}

func staticRoutes(routes []domain.Route) *mockRouteSource {
	return &mockRouteSource{routesFn: func(ctx context.Context) ([]domain.Route, error) {
		return routes, nil
	}}
}

// --- Mock cache ---

var errCacheMiss = errors.New("cache miss")

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.sets++
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// --- Mock publisher ---

type recordingPublisher struct {
	mu         sync.Mutex
	selections []*domain.LineDiff
	loaded     []*domain.DatasetStatus
	reloads    []string
}

func (p *recordingPublisher) PublishSelection(ctx context.Context, sessionID string, diff *domain.LineDiff) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selections = append(p.selections, diff)
	return nil
}

func (p *recordingPublisher) PublishDatasetLoaded(ctx context.Context, status *domain.DatasetStatus) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = append(p.loaded, status)
	return nil
}

func (p *recordingPublisher) RequestReload(ctx context.Context, reason string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reloads = append(p.reloads, reason)
	return nil
}

// --- Fixtures ---

func route(id, airline, name, src, dst string) domain.Route {
	coords := map[string][2]float64{
		"X": {40.64, -73.78},
		"Y": {51.47, -0.45},
		"Z": {49.01, 2.55},
		"W": {35.55, 139.78},
	}
	s, d := coords[src], coords[dst]
	return domain.Route{
		ID: id, AirlineID: airline, AirlineName: name,
		SourceAirportID: src, SourceAirport: src, SourceLatitude: s[0], SourceLongitude: s[1],
		DestAirportID: dst, DestAirport: dst, DestLatitude: d[0], DestLongitude: d[1],
	}
}

func sampleRoutes() []domain.Route {
	return []domain.Route{
		route("1", "A1", "Alpha", "X", "Y"),
		route("2", "A1", "Alpha", "Y", "Z"),
		route("3", "A2", "Beta", "X", "Z"),
	}
}
