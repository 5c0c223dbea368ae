package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/routemap/internal/core/usecases"
)

// Pinger is anything the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Viz  *usecases.VisualizationService
	NATS *nats.Conn
	DB   Pinger
	// Cache is the shared render cache, nil when running without Valkey.
	Cache Pinger

	// RequestTimeout bounds every /v1 handler. Zero means 15s.
	RequestTimeout time.Duration
	// SpecPath locates the OpenAPI document served under /docs.
	SpecPath string
}

func (d *Dependencies) timeout() time.Duration {
	if d.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return d.RequestTimeout
}
