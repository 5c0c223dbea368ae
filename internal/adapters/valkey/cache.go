package valkey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = errors.New("cache miss")

// Cache implements ports.CacheService on Valkey. Several deployments can
// share one server; every key is stored under the configured prefix.
type Cache struct {
	client valkey.Client
	prefix string
}

// New connects to addr. Keys are namespaced with prefix.
func New(addr, prefix string) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
		ClientName:  "routemap",
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Cache{client: client, prefix: prefix}, nil
}

func (c *Cache) key(k string) string { return c.prefix + k }

// Get returns the rendered bytes stored under key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Do(ctx, c.client.B().Get().Key(c.key(key)).Build()).AsBytes()
	switch {
	case valkey.IsValkeyNil(err):
		return nil, ErrMiss
	case err != nil:
		return nil, fmt.Errorf("valkey get %s: %w", key, err)
	}
	return b, nil
}

// Set stores value under key. A non-positive ttlSeconds keeps the entry
// until it is deleted; versioned keys make that safe for documents.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	set := c.client.B().Set().Key(c.key(key)).Value(valkey.BinaryString(value))
	var err error
	if ttlSeconds > 0 {
		err = c.client.Do(ctx, set.Ex(time.Duration(ttlSeconds)*time.Second).Build()).Error()
	} else {
		err = c.client.Do(ctx, set.Build()).Error()
	}
	if err != nil {
		return fmt.Errorf("valkey set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Do(ctx, c.client.B().Del().Key(c.key(key)).Build()).Error()
}

// Ping is used by the readiness check.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

func (c *Cache) Close() {
	c.client.Close()
}
