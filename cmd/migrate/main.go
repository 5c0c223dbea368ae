package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/samirrijal/routemap/internal/adapters/postgres"
	"github.com/samirrijal/routemap/internal/pkg/config"
	"github.com/samirrijal/routemap/internal/pkg/logging"
)

// migrations are applied in order by up and reverted in reverse by down.
var migrations = []string{
	"001_routes",
}

const migrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    name       TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down> [migrations dir]")
	}
	dir := "migrations"
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	cfg, err := config.Load("routemap-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.ValidateDatabase(); err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, logging.FileOptions{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if _, err := db.Pool.Exec(ctx, migrationsTable); err != nil {
		log.Fatalf("create schema_migrations: %v", err)
	}

	switch os.Args[1] {
	case "up":
		for _, name := range migrations {
			if err := up(ctx, db, dir, name); err != nil {
				log.Fatalf("%s: %v", name, err)
			}
		}
	case "down":
		for i := len(migrations) - 1; i >= 0; i-- {
			if err := down(ctx, db, dir, migrations[i]); err != nil {
				log.Fatalf("%s: %v", migrations[i], err)
			}
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
	slog.Info("migrations done", "direction", os.Args[1])
}

func up(ctx context.Context, db *postgres.DB, dir, name string) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		var applied bool
		err := tx.QueryRow(ctx, `SELECT true FROM schema_migrations WHERE name = $1`, name).Scan(&applied)
		if err == nil {
			slog.Info("already applied", "migration", name)
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if err := exec(ctx, tx, filepath.Join(dir, name+".sql")); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name)
		if err == nil {
			slog.Info("applied", "migration", name)
		}
		return err
	})
}

func down(ctx context.Context, db *postgres.DB, dir, name string) error {
	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE name = $1`, name)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			slog.Info("not applied", "migration", name)
			return nil
		}
		if err := exec(ctx, tx, filepath.Join(dir, name+".down.sql")); err != nil {
			return err
		}
		slog.Info("reverted", "migration", name)
		return nil
	})
}

func exec(ctx context.Context, tx pgx.Tx, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	if _, err := tx.Exec(ctx, string(data)); err != nil {
		return fmt.Errorf("exec %s: %w", file, err)
	}
	return nil
}
