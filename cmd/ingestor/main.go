package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/samirrijal/routemap/internal/adapters/dataset"
	"github.com/samirrijal/routemap/internal/adapters/postgres"
	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/core/usecases"
	"github.com/samirrijal/routemap/internal/pkg/config"
	"github.com/samirrijal/routemap/internal/pkg/logging"
)

// ingestor copies the routes table from a CSV file or URL into Postgres.
//
//	ingestor [routes.csv|https://...]
func main() {
	cfg, err := config.Load("routemap-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, logging.FileOptions{})

	location := cfg.Dataset.RoutesURL
	if len(os.Args) > 1 {
		location = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	start := time.Now()
	slog.Info("reading routes", "location", location)
	routes, err := dataset.NewCSVRouteSource(location, dataset.NewClient(cfg.Dataset.Timeout())).Routes(ctx)
	if err != nil {
		log.Fatalf("read routes: %v", err)
	}

	airlines := usecases.GroupByAirline(routes)
	slog.Info("parsed routes", "routes", len(routes), "airlines", len(airlines))

	var repo ports.RouteRepository = postgres.NewRouteRepo(db)
	if err := repo.UpsertBatch(ctx, routes); err != nil {
		log.Fatalf("upsert routes: %v", err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("count routes: %v", err)
	}
	slog.Info("ingestion complete", "upserted", len(routes), "table_rows", total, "took", time.Since(start).String())
}
