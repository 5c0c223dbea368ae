package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Version is reported by the health endpoint; set at build time with -ldflags.
var Version = "dev"

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": Version,
		})
	}
}

// readinessCheck probes one dependency. A nil probe means the dependency is
// not configured and does not affect readiness.
type readinessCheck struct {
	name  string
	probe func(ctx context.Context) (string, bool)
}

func pingCheck(name string, p Pinger) readinessCheck {
	if p == nil {
		return readinessCheck{name: name}
	}
	return readinessCheck{name: name, probe: func(ctx context.Context) (string, bool) {
		if err := p.Ping(ctx); err != nil {
			return "error: " + err.Error(), false
		}
		return "ok", true
	}}
}

func (d *Dependencies) readinessChecks() []readinessCheck {
	checks := []readinessCheck{
		{name: "dataset", probe: func(context.Context) (string, bool) {
			if d.Viz == nil || !d.Viz.Ready() {
				return "not loaded", false
			}
			return "ok", true
		}},
		pingCheck("database", d.DB),
		pingCheck("cache", d.Cache),
		{name: "nats"},
	}
	if d.NATS != nil {
		checks[3].probe = func(context.Context) (string, bool) {
			if !d.NATS.IsConnected() {
				return "disconnected", false
			}
			return "ok", true
		}
	}
	return checks
}

// ReadyHandler reports ready once a dataset is loaded and every configured
// backend answers. The active dataset version is included when loaded.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		results := make(map[string]string)
		ready := true
		for _, chk := range deps.readinessChecks() {
			if chk.probe == nil {
				results[chk.name] = "not configured"
				continue
			}
			msg, ok := chk.probe(ctx)
			results[chk.name] = msg
			ready = ready && ok
		}

		body := fiber.Map{"status": "ready", "checks": results}
		if deps.Viz != nil {
			if st, err := deps.Viz.Status(); err == nil {
				body["dataset_version"] = st.Version
			}
		}
		if !ready {
			body["status"] = "not ready"
			return c.Status(fiber.StatusServiceUnavailable).JSON(body)
		}
		return c.JSON(body)
	}
}
