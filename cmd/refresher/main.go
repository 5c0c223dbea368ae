package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/routemap/internal/adapters/dataset"
	natsadapter "github.com/samirrijal/routemap/internal/adapters/nats"
	"github.com/samirrijal/routemap/internal/pkg/config"
	"github.com/samirrijal/routemap/internal/pkg/logging"
	"github.com/samirrijal/routemap/internal/workflows"
)

const refreshWorkflowID = "routemap-refresh"

// refresher runs the Temporal worker for the dataset refresh cron and makes
// sure the cron workflow exists.
func main() {
	cfg, err := config.Load("routemap-refresher")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, logging.FileOptions{})

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    slog.Default(),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.RefreshWorkflow)
	w.RegisterActivity(&workflows.RefreshActivities{
		Client:    dataset.NewClient(cfg.Dataset.Timeout()),
		Publisher: pub,
	})

	// Returns the running execution when the cron is already scheduled.
	run, err := c.ExecuteWorkflow(context.Background(), client.StartWorkflowOptions{
		ID:           refreshWorkflowID,
		TaskQueue:    cfg.Temporal.TaskQueue,
		CronSchedule: cfg.Temporal.Schedule,
	}, workflows.RefreshWorkflow, workflows.RefreshInput{
		RoutesURL:     cfg.Dataset.RoutesURL,
		BoundariesURL: cfg.Dataset.BoundariesURL,
	})
	if err != nil {
		log.Fatalf("start refresh workflow: %v", err)
	}
	slog.Info("refresh workflow scheduled", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "schedule", cfg.Temporal.Schedule)

	slog.Info("refresher worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
