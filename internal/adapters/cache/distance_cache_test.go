package cache

import (
	"context"
	"testing"
	"time"
	"waste-sim-service/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseCache(t *testing.T, c ports.DistanceCache) {
	t.Helper()
	ctx := context.Background()

	got, err := c.GetMany(ctx, "o", []string{"a", "b"})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.PutMany(ctx, "o", map[string]ports.DistanceResult{
		"a": {DistanceMeters: 1200, DurationSeconds: 170},
		"b": {DistanceMeters: 300, DurationSeconds: 40},
	}))

	got, err = c.GetMany(ctx, "o", []string{"a", " a ", "c", ""})
	require.NoError(t, err)
	assert.Equal(t, map[string]ports.DistanceResult{
		"a": {DistanceMeters: 1200, DurationSeconds: 170},
	}, got)

	other, err := c.GetMany(ctx, "p", []string{"a"})
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = c.GetMany(ctx, "", []string{"a"})
	assert.Error(t, err)
	assert.Error(t, c.PutMany(ctx, "o", map[string]ports.DistanceResult{" ": {}}))
	assert.NoError(t, c.PutMany(ctx, "o", nil))
}

func TestMemoryDistanceCache(t *testing.T) {
	c := NewMemoryDistanceCache()
	exerciseCache(t, c)
	assert.Equal(t, 2, c.Len())
}

func TestRedisDistanceCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c, err := NewRedisDistanceCache(client, "test:dist", time.Hour)
	require.NoError(t, err)
	exerciseCache(t, c)

	assert.True(t, mr.Exists("test:dist:o"))
	assert.Equal(t, "1200:170", mr.HGet("test:dist:o", "a"))
	assert.Equal(t, time.Hour, mr.TTL("test:dist:o"))
}

func TestRedisDistanceCacheRejectsCorruptEntries(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c, err := NewRedisDistanceCache(client, "", 0)
	require.NoError(t, err)

	mr.HSet("waste:distance:o", "a", "garbage")
	_, err = c.GetMany(context.Background(), "o", []string{"a"})
	assert.Error(t, err)
}

func TestNewRedisDistanceCacheNilClient(t *testing.T) {
	_, err := NewRedisDistanceCache(nil, "x", 0)
	assert.Error(t, err)
}
