package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapCache struct {
	data map[string][]byte
	gets int
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.gets++
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("miss")
	}
	return v, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	return nil
}

func (m *mapCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestTiered_LocalOnly(t *testing.T) {
	c := NewTiered(2, time.Minute, nil)
	ctx := context.Background()

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 60))
	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, c.Set(ctx, "b", []byte("2"), 60))
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 60))
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Delete(ctx, "c"))
	_, err = c.Get(ctx, "c")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestTiered_PromotesSharedHits(t *testing.T) {
	shared := &mapCache{data: map[string][]byte{"k": []byte("v")}}
	c := NewTiered(10, time.Minute, shared)
	ctx := context.Background()

	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	_, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, shared.gets)
}

func TestTiered_WritesThrough(t *testing.T) {
	shared := &mapCache{data: map[string][]byte{}}
	c := NewTiered(10, time.Minute, shared)
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 60))
	assert.Equal(t, []byte("v"), shared.data["k"])

	require.NoError(t, c.Delete(context.Background(), "k"))
	assert.NotContains(t, shared.data, "k")
}
