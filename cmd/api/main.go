package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/routemap/internal/adapters/cache"
	"github.com/samirrijal/routemap/internal/adapters/dataset"
	"github.com/samirrijal/routemap/internal/adapters/http"
	natsadapter "github.com/samirrijal/routemap/internal/adapters/nats"
	"github.com/samirrijal/routemap/internal/adapters/postgres"
	"github.com/samirrijal/routemap/internal/adapters/spatial"
	"github.com/samirrijal/routemap/internal/adapters/valkey"
	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/core/usecases"
	"github.com/samirrijal/routemap/internal/pkg/config"
	"github.com/samirrijal/routemap/internal/pkg/logging"
	"github.com/samirrijal/routemap/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("routemap-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logFile := logging.Setup(cfg.Log.Level, cfg.Log.Format, logging.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer logFile.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	deps := &http.Dependencies{
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		SpecPath:       http.DefaultSpecPath,
	}

	// Route source
	client := dataset.NewClient(cfg.Dataset.Timeout())
	var routes ports.RouteSource
	switch cfg.Dataset.Source {
	case "postgres":
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		deps.DB = db
		routes = postgres.NewRouteRepo(db)
		go reportPoolStats(ctx, db)
	default:
		routes = dataset.NewCSVRouteSource(cfg.Dataset.RoutesURL, client)
	}
	boundaries := dataset.NewGeoJSONBoundarySource(cfg.Dataset.BoundariesURL, client)

	// Cache: in-process LRU, backed by Valkey when enabled
	var shared ports.CacheService
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr, cfg.Valkey.KeyPrefix)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer vc.Close()
			shared = vc
			deps.Cache = vc
		}
	}
	renderCache := cache.NewTiered(cfg.Cache.Size, cfg.Cache.TTL(), shared)

	// NATS
	var events ports.EventPublisher
	var sub *natsadapter.Subscriber
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			events = pub
			deps.NATS = pub.Conn()
		}
		if sub, err = natsadapter.NewSubscriber(cfg.NATS.URL); err != nil {
			slog.Warn("nats subscriber unavailable", "error", err)
			sub = nil
		} else {
			defer sub.Close()
		}
	}

	chartCfg := cfg.Chart.Render()
	mapCfg := cfg.Map.Render()
	loader := usecases.NewLoader(routes, boundaries, mapCfg.Projection())
	viz := usecases.NewVisualizationService(loader, renderCache, events, spatial.NewAirportIndex(), chartCfg, mapCfg)
	deps.Viz = viz

	// The page is useless without data, so a failed first load is fatal.
	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.Dataset.Timeout())
	status, err := viz.Reload(loadCtx)
	loadCancel()
	if err != nil {
		log.Fatalf("load dataset: %v", err)
	}
	slog.Info("dataset ready", "version", status.Version, "routes", status.Routes, "airlines", status.Airlines)

	if sub != nil {
		err := sub.SubscribeReloads(ctx, func(ctx context.Context, reason string) error {
			slog.Info("reload requested", "reason", reason)
			reloadCtx, cancel := context.WithTimeout(ctx, cfg.Dataset.Timeout())
			defer cancel()
			_, err := viz.Reload(reloadCtx)
			return err
		})
		if err != nil {
			slog.Warn("subscribe reloads", "error", err)
		}
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "routemap",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, If-None-Match",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			db.ReportStats()
		case <-ctx.Done():
			return
		}
	}
}
