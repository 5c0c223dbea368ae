package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	geojson "github.com/paulmach/go.geojson"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/routemap/internal/core/domain"
	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/pkg/metrics"
	"github.com/samirrijal/routemap/internal/pkg/telemetry"
)

// Loader fetches the route table and the boundary collection and builds a
// State from them.
type Loader struct {
	routes     ports.RouteSource
	boundaries ports.BoundarySource
	projection domain.Projection
	now        func() time.Time
}

// NewLoader creates a Loader. Every State it builds carries proj.
func NewLoader(routes ports.RouteSource, boundaries ports.BoundarySource, proj domain.Projection) *Loader {
	return &Loader{routes: routes, boundaries: boundaries, projection: proj, now: time.Now}
}

// Load fetches both datasets concurrently. It returns a State only when both
// succeed; the first failure cancels the other fetch.
func (l *Loader) Load(ctx context.Context) (*domain.State, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanDatasetLoad)
	defer span.End()
	start := time.Now()

	var (
		routes []domain.Route
		fc     *geojson.FeatureCollection
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		routes, err = l.routes.Routes(gctx)
		if err != nil {
			return fmt.Errorf("load routes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		fc, err = l.boundaries.Boundaries(gctx)
		if err != nil {
			return fmt.Errorf("load boundaries: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.DatasetLoads.WithLabelValues("error").Inc()
		span.RecordError(err)
		return nil, err
	}

	version, err := datasetVersion(routes, fc)
	if err != nil {
		return nil, err
	}

	malformed := countMalformed(routes)
	if malformed > 0 {
		metrics.DatasetMalformedRows.Add(float64(malformed))
		slog.Warn("routes with unparsable coordinates", "rows", malformed, "version", version)
	}

	metrics.DatasetLoads.WithLabelValues("ok").Inc()
	metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	metrics.DatasetRoutes.Set(float64(len(routes)))
	span.SetAttributes(
		attribute.String(telemetry.AttrDatasetVersion, version),
		attribute.Int(telemetry.AttrRouteCount, len(routes)),
	)

	return &domain.State{
		Version:       version,
		LoadedAt:      l.now().UTC(),
		Routes:        routes,
		Boundaries:    fc,
		Projection:    l.projection,
		MalformedRows: malformed,
	}, nil
}

// datasetVersion hashes both datasets so that identical inputs produce the
// same version, which keys rendered documents in the cache. Every route
// field takes part, since names and cities end up in documents too.
func datasetVersion(routes []domain.Route, fc *geojson.FeatureCollection) (string, error) {
	h := sha256.New()
	for _, r := range routes {
		for _, f := range [...]string{
			r.ID, r.AirlineID, r.AirlineName,
			r.SourceAirportID, r.SourceAirport, r.SourceCity, r.SourceCountry,
			r.DestAirportID, r.DestAirport, r.DestCity, r.DestCountry,
		} {
			// Length prefixes keep "ab"+"c" and "a"+"bc" apart.
			fmt.Fprintf(h, "%d:%s", len(f), f)
		}
		for _, v := range [...]float64{r.SourceLatitude, r.SourceLongitude, r.DestLatitude, r.DestLongitude} {
			fmt.Fprintf(h, "|%s", strconv.FormatFloat(v, 'g', -1, 64))
		}
		h.Write([]byte{'\n'})
	}
	if fc != nil {
		raw, err := json.Marshal(fc)
		if err != nil {
			return "", fmt.Errorf("hash boundaries: %w", err)
		}
		h.Write(raw)
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

func countMalformed(routes []domain.Route) int {
	n := 0
	for _, r := range routes {
		if math.IsNaN(r.SourceLatitude) || math.IsNaN(r.SourceLongitude) ||
			math.IsNaN(r.DestLatitude) || math.IsNaN(r.DestLongitude) {
			n++
		}
	}
	return n
}
