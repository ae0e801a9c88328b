// In file: internal/suggest/cache.go
package suggest

import (
	"context"
	"errors"
	"log"
	"time"

	"calc-gateway/internal/version"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "calcsuggest"

// Cache stores successful query→operation resolutions in Redis so repeated
// queries skip the model round trip. Cache faults are logged and otherwise
// ignored: a broken cache degrades to a slower resolver, never to an error.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 1 * time.Hour
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Get looks up a previously cached resolution.
func (c *Cache) Get(ctx context.Context, payload string) (string, bool) {
	key := version.GenerateVersionedCacheKey(cacheKeyPrefix, payload)
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		log.Printf("WARNING: Suggestion cache read failed: %v", err)
		return "", false
	}
	return val, true
}

// Set stores a resolution with the configured TTL.
func (c *Cache) Set(ctx context.Context, payload, operation string) {
	key := version.GenerateVersionedCacheKey(cacheKeyPrefix, payload)
	if err := c.rdb.Set(ctx, key, operation, c.ttl).Err(); err != nil {
		log.Printf("WARNING: Suggestion cache write failed: %v", err)
	}
}
