package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/routemap/internal/core/domain"
)

const upsertBatchSize = 500

const routeColumns = `id, airline_id, airline_name,
	source_airport_id, source_airport, source_city, source_country, source_latitude, source_longitude,
	dest_airport_id, dest_airport, dest_city, dest_country, dest_latitude, dest_longitude`

// RouteRepo implements ports.RouteRepository.
type RouteRepo struct {
	db *DB
}

func NewRouteRepo(db *DB) *RouteRepo { return &RouteRepo{db: db} }

// UpsertBatch writes routes in batches of upsertBatchSize. Unparsable
// coordinates are stored as NULL.
func (r *RouteRepo) UpsertBatch(ctx context.Context, routes []domain.Route) error {
	for start := 0; start < len(routes); start += upsertBatchSize {
		end := min(start+upsertBatchSize, len(routes))
		if err := r.upsert(ctx, routes[start:end]); err != nil {
			return fmt.Errorf("rows %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func (r *RouteRepo) upsert(ctx context.Context, routes []domain.Route) error {
	batch := &pgx.Batch{}
	for _, rt := range routes {
		batch.Queue(`
			INSERT INTO routes (`+routeColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			ON CONFLICT (id) DO UPDATE
			SET airline_id = EXCLUDED.airline_id, airline_name = EXCLUDED.airline_name,
			    source_airport_id = EXCLUDED.source_airport_id, source_airport = EXCLUDED.source_airport,
			    source_city = EXCLUDED.source_city, source_country = EXCLUDED.source_country,
			    source_latitude = EXCLUDED.source_latitude, source_longitude = EXCLUDED.source_longitude,
			    dest_airport_id = EXCLUDED.dest_airport_id, dest_airport = EXCLUDED.dest_airport,
			    dest_city = EXCLUDED.dest_city, dest_country = EXCLUDED.dest_country,
			    dest_latitude = EXCLUDED.dest_latitude, dest_longitude = EXCLUDED.dest_longitude
		`, rt.ID, rt.AirlineID, rt.AirlineName,
			rt.SourceAirportID, rt.SourceAirport, rt.SourceCity, rt.SourceCountry,
			nullCoord(rt.SourceLatitude), nullCoord(rt.SourceLongitude),
			rt.DestAirportID, rt.DestAirport, rt.DestCity, rt.DestCountry,
			nullCoord(rt.DestLatitude), nullCoord(rt.DestLongitude))
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := range routes {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch item %d: %w", i, err)
		}
	}
	return nil
}

// Routes returns the whole table in load order.
func (r *RouteRepo) Routes(ctx context.Context) ([]domain.Route, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+routeColumns+` FROM routes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	return scanRoutes(rows)
}

// Count returns the number of stored routes.
func (r *RouteRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM routes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count routes: %w", err)
	}
	return n, nil
}

func scanRoutes(rows pgx.Rows) ([]domain.Route, error) {
	defer rows.Close()

	var routes []domain.Route
	for rows.Next() {
		var (
			rt               domain.Route
			srcLat, srcLon   *float64
			destLat, destLon *float64
		)
		if err := rows.Scan(&rt.ID, &rt.AirlineID, &rt.AirlineName,
			&rt.SourceAirportID, &rt.SourceAirport, &rt.SourceCity, &rt.SourceCountry, &srcLat, &srcLon,
			&rt.DestAirportID, &rt.DestAirport, &rt.DestCity, &rt.DestCountry, &destLat, &destLon); err != nil {
			return nil, err
		}
		rt.SourceLatitude, rt.SourceLongitude = coord(srcLat), coord(srcLon)
		rt.DestLatitude, rt.DestLongitude = coord(destLat), coord(destLon)
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

func nullCoord(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func coord(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
