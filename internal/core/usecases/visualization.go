package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/pkg/geospatial"
	"github.com/samirrijal/routemap/internal/pkg/metrics"
	"github.com/samirrijal/routemap/internal/pkg/telemetry"
	"github.com/samirrijal/routemap/internal/render"
)

// renderTTL bounds how long rendered documents live in the cache. Keys carry
// the dataset version, so a reload never serves stale output.
const renderTTL = 3600

// snapshot is one loaded State together with everything derived from it.
type snapshot struct {
	state     *domain.State
	airlines  []domain.AirlineAggregate
	airports  []domain.AirportAggregate
	byAirline map[string][]domain.Route
	airline   map[string]int
}

func newSnapshot(state *domain.State) *snapshot {
	s := &snapshot{
		state:     state,
		airlines:  GroupByAirline(state.Routes),
		airports:  GroupByAirport(state.Routes),
		byAirline: make(map[string][]domain.Route),
	}
	s.airline = make(map[string]int, len(s.airlines))
	for i, a := range s.airlines {
		s.airline[a.AirlineID] = i
	}
	for _, r := range state.Routes {
		s.byAirline[r.AirlineID] = append(s.byAirline[r.AirlineID], r)
	}
	return s
}

func (s *snapshot) status() *domain.DatasetStatus {
	return &domain.DatasetStatus{
		Version:       s.state.Version,
		LoadedAt:      s.state.LoadedAt,
		Routes:        len(s.state.Routes),
		Airlines:      len(s.airlines),
		Airports:      len(s.airports),
		Countries:     s.state.CountryCount(),
		MalformedRows: s.state.MalformedRows,
	}
}

// VisualizationService owns the loaded State and serves aggregates, rendered
// documents and route lines from it. Reads are lock-free; a reload builds a
// complete snapshot before swapping it in.
type VisualizationService struct {
	loader   *Loader
	cache    ports.CacheService
	events   ports.EventPublisher
	index    ports.AirportIndex
	chartCfg render.ChartConfig
	mapCfg   render.MapConfig

	current  atomic.Pointer[snapshot]
	reloadMu sync.Mutex
}

// NewVisualizationService creates a service with nothing loaded. cache,
// events and index may be nil.
func NewVisualizationService(
	loader *Loader,
	cache ports.CacheService,
	events ports.EventPublisher,
	index ports.AirportIndex,
	chartCfg render.ChartConfig,
	mapCfg render.MapConfig,
) *VisualizationService {
	return &VisualizationService{
		loader:   loader,
		cache:    cache,
		events:   events,
		index:    index,
		chartCfg: chartCfg,
		mapCfg:   mapCfg,
	}
}

// ChartConfig returns the bar chart layout in use.
func (s *VisualizationService) ChartConfig() render.ChartConfig { return s.chartCfg }

// MapConfig returns the map layout in use.
func (s *VisualizationService) MapConfig() render.MapConfig { return s.mapCfg }

// Reload loads both datasets and swaps the result in. When the load fails the
// previous State stays active and the error is returned.
func (s *VisualizationService) Reload(ctx context.Context) (*domain.DatasetStatus, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	state, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	snap := newSnapshot(state)
	if s.index != nil {
		s.index.Rebuild(snap.airports)
	}
	s.current.Store(snap)

	status := snap.status()
	slog.Info("dataset loaded",
		"version", status.Version,
		"routes", status.Routes,
		"airlines", status.Airlines,
		"airports", status.Airports,
		"countries", status.Countries,
	)
	if s.events != nil {
		if err := s.events.PublishDatasetLoaded(ctx, status); err != nil {
			slog.Warn("publish dataset loaded", "error", err)
		}
	}
	return status, nil
}

func (s *VisualizationService) snapshot() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrNotLoaded
	}
	return snap, nil
}

// Ready reports whether a dataset has been loaded.
func (s *VisualizationService) Ready() bool {
	return s.current.Load() != nil
}

// State returns the active State.
func (s *VisualizationService) State() (*domain.State, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.state, nil
}

// Status summarizes the active dataset.
func (s *VisualizationService) Status() (*domain.DatasetStatus, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.status(), nil
}

// Airlines returns the airlines ranked by route count.
func (s *VisualizationService) Airlines() ([]domain.AirlineAggregate, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.airlines, nil
}

// Airline returns one airline aggregate.
func (s *VisualizationService) Airline(id string) (*domain.AirlineAggregate, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	i, ok := snap.airline[id]
	if !ok {
		return nil, fmt.Errorf("airline %s: %w", id, domain.ErrNotFound)
	}
	a := snap.airlines[i]
	return &a, nil
}

// Airports returns every airport touched by a route.
func (s *VisualizationService) Airports() ([]domain.AirportAggregate, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.airports, nil
}

// RoutesByAirline returns the routes flown by an airline.
func (s *VisualizationService) RoutesByAirline(id string) ([]domain.Route, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	routes, ok := snap.byAirline[id]
	if !ok {
		return nil, fmt.Errorf("airline %s: %w", id, domain.ErrNotFound)
	}
	return routes, nil
}

// RouteLines projects the routes of one airline. An airline with no routes
// yields no lines.
func (s *VisualizationService) RouteLines(ctx context.Context, airlineID string) ([]domain.RouteLine, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanRouteLines)
	defer span.End()

	cacheKey := fmt.Sprintf("lines:%s:%s", snap.state.Version, airlineID)
	if data, ok := s.cached(ctx, cacheKey); ok {
		var lines []domain.RouteLine
		if err := json.Unmarshal(data, &lines); err == nil {
			return lines, nil
		}
	}

	lines := render.ProjectRoutes(snap.byAirline[airlineID], snap.state.Projection)
	span.SetAttributes(attribute.Int(telemetry.AttrLineCount, len(lines)))
	if data, err := json.Marshal(lines); err == nil {
		s.store(ctx, cacheKey, data)
	}
	return lines, nil
}

// ChartSVG renders the airline bar chart.
func (s *VisualizationService) ChartSVG(ctx context.Context) ([]byte, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	cacheKey := "chart:" + snap.state.Version
	if data, ok := s.cached(ctx, cacheKey); ok {
		return data, nil
	}

	_, span := telemetry.Tracer().Start(ctx, telemetry.SpanRenderChart)
	defer span.End()
	start := time.Now()
	data, err := render.BarChart(snap.airlines, s.chartCfg).Bytes()
	if err != nil {
		return nil, err
	}
	metrics.RenderDuration.WithLabelValues("chart").Observe(time.Since(start).Seconds())
	s.store(ctx, cacheKey, data)
	return data, nil
}

// MapSVG renders the world map with the lines of airlineID drawn on it, or
// with no lines when airlineID is empty.
func (s *VisualizationService) MapSVG(ctx context.Context, airlineID string) ([]byte, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	cacheKey := fmt.Sprintf("map:%s:%s", snap.state.Version, airlineID)
	if data, ok := s.cached(ctx, cacheKey); ok {
		return data, nil
	}

	var lines []domain.RouteLine
	if airlineID != "" {
		if lines, err = s.RouteLines(ctx, airlineID); err != nil {
			return nil, err
		}
	}

	_, span := telemetry.Tracer().Start(ctx, telemetry.SpanRenderMap)
	defer span.End()
	start := time.Now()
	data, err := render.WorldMap(snap.state, snap.airports, lines, s.mapCfg).Bytes()
	if err != nil {
		return nil, err
	}
	metrics.RenderDuration.WithLabelValues("map").Observe(time.Since(start).Seconds())
	s.store(ctx, cacheKey, data)
	return data, nil
}

// NearbyAirports returns up to k airports closest to p, nearest first.
func (s *VisualizationService) NearbyAirports(p domain.GeoPoint, k int) ([]domain.AirportAggregate, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if k <= 0 || k > 50 {
		k = 10
	}
	if s.index != nil {
		return s.index.Nearest(p, k), nil
	}

	candidates := make([]domain.AirportAggregate, 0, len(snap.airports))
	for _, a := range snap.airports {
		if a.Location().Valid() {
			candidates = append(candidates, a)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return geospatial.DistanceMeters(p.Lat, p.Lon, candidates[i].Latitude, candidates[i].Longitude) <
			geospatial.DistanceMeters(p.Lat, p.Lon, candidates[j].Latitude, candidates[j].Longitude)
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates, nil
}

// AirportsWithin returns the airports no farther than radiusMeters from p,
// nearest first.
func (s *VisualizationService) AirportsWithin(p domain.GeoPoint, radiusMeters float64) ([]domain.AirportAggregate, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if s.index != nil {
		return s.index.Within(p, radiusMeters), nil
	}
	var out []domain.AirportAggregate
	for _, a := range snap.airports {
		if a.Location().Valid() && geospatial.DistanceMeters(p.Lat, p.Lon, a.Latitude, a.Longitude) <= radiusMeters {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return geospatial.DistanceMeters(p.Lat, p.Lon, out[i].Latitude, out[i].Longitude) <
			geospatial.DistanceMeters(p.Lat, p.Lon, out[j].Latitude, out[j].Longitude)
	})
	return out, nil
}

// NewSession starts a hover session with its own Selection.
func (s *VisualizationService) NewSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		selection: NewSelection(s, s.chartCfg.BarFill, s.chartCfg.HoverFill),
		events:    s.events,
	}
}

func (s *VisualizationService) cached(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil, false
	}
	return data, true
}

func (s *VisualizationService) store(ctx context.Context, key string, data []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, renderTTL); err != nil {
		slog.Debug("cache set failed", "key", key, "error", err)
	}
}

// Session is one client's hover interaction.
type Session struct {
	ID        string
	selection *Selection
	events    ports.EventPublisher
}

// Enter selects an airline and returns the line diff to apply.
func (s *Session) Enter(ctx context.Context, airlineID string) (*domain.LineDiff, error) {
	diff, err := s.selection.Enter(ctx, airlineID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, diff)
	return diff, nil
}

// Leave clears the selection and returns the line diff to apply.
func (s *Session) Leave(ctx context.Context) *domain.LineDiff {
	diff := s.selection.Leave()
	s.publish(ctx, diff)
	return diff
}

// Selected returns the hovered airline id.
func (s *Session) Selected() string { return s.selection.Selected() }

func (s *Session) publish(ctx context.Context, diff *domain.LineDiff) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishSelection(ctx, s.ID, diff); err != nil {
		slog.Warn("publish selection", "session", s.ID, "error", err)
	}
}
