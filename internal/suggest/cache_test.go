// In file: internal/suggest/cache_test.go
package suggest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"calc-gateway/internal/calc"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests require Redis running on localhost:6379 and skip otherwise.
const testRedisAddr = "localhost:6379"

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: testRedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available at %s: %v", testRedisAddr, err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func calcRegistryForCacheTest(t *testing.T) *calc.Registry {
	t.Helper()
	registry := calc.NewRegistry()
	for _, op := range calc.Builtins() {
		require.NoError(t, registry.Register(op))
	}
	return registry
}

func TestCacheRoundTrip(t *testing.T) {
	client := setupRedis(t)
	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	payload := fmt.Sprintf("cache-test-%d", time.Now().UnixNano())

	_, found := cache.Get(ctx, payload)
	assert.False(t, found)

	cache.Set(ctx, payload, "add")
	got, found := cache.Get(ctx, payload)
	require.True(t, found)
	assert.Equal(t, "add", got)
}

func TestCacheKeysDifferPerPayload(t *testing.T) {
	client := setupRedis(t)
	cache := NewCache(client, time.Minute)
	ctx := context.Background()

	// Same query against a different allowed-name set must miss: a newly
	// registered operation invalidates earlier resolutions.
	cache.Set(ctx, "sum these|add,subtract", "add")
	_, found := cache.Get(ctx, "sum these|add,subtract,power")
	assert.False(t, found)
}

func TestResolverUsesCache(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	stub := &stubClient{reply: "multiply"}
	registry := calcRegistryForCacheTest(t)
	resolver := NewResolver(registry, stub, NewCache(client, time.Minute), nil, time.Second)

	// Unique per run so a cached entry from an earlier run can't interfere.
	query := fmt.Sprintf("cache-resolver-%d", time.Now().UnixNano())

	first, err := resolver.Resolve(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "multiply", first.Operation)
	assert.False(t, first.Cached)
	assert.Equal(t, 1, stub.calls)

	second, err := resolver.Resolve(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, "multiply", second.Operation)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, stub.calls, "a cache hit must skip the model round trip")
}

func TestStatsCounters(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	// The counters live under a single well-known key; reset it so the
	// assertions are deterministic.
	require.NoError(t, client.Del(ctx, statsKey).Err())
	stats := NewStats(client)

	require.NoError(t, stats.RecordSuccess(ctx, 100*time.Millisecond))
	require.NoError(t, stats.RecordSuccess(ctx, 300*time.Millisecond))
	require.NoError(t, stats.RecordFailure(ctx))

	snap, err := stats.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), snap.TotalSuccesses)
	assert.Equal(t, int64(1), snap.TotalFailures)
	assert.Equal(t, int64(200), snap.AvgLatencyMS)
}

func TestStatsEmptySnapshot(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Del(ctx, statsKey).Err())
	stats := NewStats(client)

	snap, err := stats.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.TotalSuccesses)
	assert.Equal(t, int64(0), snap.TotalFailures)
	assert.Equal(t, int64(0), snap.AvgLatencyMS)
}
