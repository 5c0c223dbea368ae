package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/routemap/internal/pkg/metrics"
)

// DB holds the connection pool shared by the route store and the tools.
type DB struct {
	Pool *pgxpool.Pool
}

// New opens a pool on dsn and checks it with a ping. The route table is
// read in one query per load, so the pool stays small and recycles idle
// connections quickly.
func New(ctx context.Context, dsn string, maxConns int32) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.RuntimeParams["application_name"] = "routemap"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// ReportStats copies pool statistics into the Prometheus gauges.
func (db *DB) ReportStats() {
	metrics.UpdateDBPoolMetrics(db.Pool.Stat())
}

func (db *DB) Close() {
	db.Pool.Close()
}
