package services

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheService_MemoryFallback(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cache := NewCacheService(nil, time.Minute, logger)
	ctx := context.Background()

	_, err := cache.Get(ctx, "W.P.(C)|1|2025")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "W.P.(C)|1|2025", `{"status":"found"}`))
	val, err := cache.Get(ctx, "W.P.(C)|1|2025")
	require.NoError(t, err)
	assert.Equal(t, `{"status":"found"}`, val)

	require.NoError(t, cache.Delete(ctx, "W.P.(C)|1|2025"))
	_, err = cache.Get(ctx, "W.P.(C)|1|2025")
	assert.ErrorIs(t, err, ErrCacheMiss)

	stats := cache.GetStats(ctx)
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(2), stats["misses"])
}

func TestCacheService_Expiry(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cache := NewCacheService(nil, time.Millisecond, logger)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v"))
	time.Sleep(5 * time.Millisecond)

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheService_ClearAndCleanup(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cache := NewCacheService(nil, time.Millisecond, logger)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", "1"))
	require.NoError(t, cache.Set(ctx, "b", "2"))
	time.Sleep(5 * time.Millisecond)
	cache.cleanupExpired()
	assert.Equal(t, 0, cache.GetStats(ctx)["memory"].(map[string]interface{})["size"])

	cache.ttl = time.Minute
	require.NoError(t, cache.Set(ctx, "c", "3"))
	removed, err := cache.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestCacheService_HealthWithoutRedis(t *testing.T) {
	logger, _ := test.NewNullLogger()
	cache := NewCacheService(nil, time.Minute, logger)

	health := cache.Health()
	assert.Equal(t, "disabled", health["redis"].(map[string]interface{})["status"])
	assert.Equal(t, "healthy", health["memory"].(map[string]interface{})["status"])
}
