package ports

import (
	"context"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishSelection(ctx context.Context, sessionID string, diff *domain.LineDiff) error
	PublishDatasetLoaded(ctx context.Context, status *domain.DatasetStatus) error
	RequestReload(ctx context.Context, reason string) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeReloads(ctx context.Context, handler func(ctx context.Context, reason string) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
