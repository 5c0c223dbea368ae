// Package cache puts an in-process LRU in front of a shared cache.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/samirrijal/routemap/internal/core/ports"
	"github.com/samirrijal/routemap/internal/pkg/metrics"
)

// ErrMiss is returned when neither tier holds the key.
var ErrMiss = errors.New("cache miss")

// Tiered implements ports.CacheService with a bounded local LRU in front of
// an optional shared cache. Values found only in the shared cache are
// copied into the LRU.
type Tiered struct {
	local  *expirable.LRU[string, []byte]
	shared ports.CacheService
}

// NewTiered creates a cache holding up to size entries locally for ttl.
// shared may be nil.
func NewTiered(size int, ttl time.Duration, shared ports.CacheService) *Tiered {
	return &Tiered{
		local:  expirable.NewLRU[string, []byte](size, nil, ttl),
		shared: shared,
	}
}

// Get looks the key up locally, then in the shared cache.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := t.local.Get(key); ok {
		metrics.CacheHits.WithLabelValues("local").Inc()
		return v, nil
	}
	metrics.CacheMisses.WithLabelValues("local").Inc()
	if t.shared == nil {
		return nil, ErrMiss
	}

	v, err := t.shared.Get(ctx, key)
	if err != nil || v == nil {
		metrics.CacheMisses.WithLabelValues("shared").Inc()
		return nil, ErrMiss
	}
	metrics.CacheHits.WithLabelValues("shared").Inc()
	t.local.Add(key, v)
	return v, nil
}

// Set writes both tiers. A shared cache failure is returned after the
// local write succeeded.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	t.local.Add(key, value)
	if t.shared == nil {
		return nil
	}
	return t.shared.Set(ctx, key, value, ttlSeconds)
}

// Delete removes the key from both tiers.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	t.local.Remove(key)
	if t.shared == nil {
		return nil
	}
	return t.shared.Delete(ctx, key)
}

// Len returns the number of locally held entries.
func (t *Tiered) Len() int { return t.local.Len() }
