// Package cache holds the retrieval URL cache used by the blob gateway
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "media:url:"

// redisURLCache stores resolved retrieval URLs keyed by the URL they were resolved from
type redisURLCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisURLCache creates a new Redis backed URL cache
func NewRedisURLCache(client *redis.Client, ttl time.Duration) *redisURLCache {
	return &redisURLCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached value for source, reporting false on a miss
func (c *redisURLCache) Get(ctx context.Context, source string) (string, bool, error) {
	value, err := c.client.Get(ctx, Key(source)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached url: %w", err)
	}
	return value, true, nil
}

// Set caches resolved for source
func (c *redisURLCache) Set(ctx context.Context, source, resolved string) error {
	if err := c.client.Set(ctx, Key(source), resolved, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache url: %w", err)
	}
	return nil
}

// Delete drops the cached values of the given sources
func (c *redisURLCache) Delete(ctx context.Context, sources ...string) error {
	if len(sources) == 0 {
		return nil
	}
	keys := make([]string, len(sources))
	for i, source := range sources {
		keys[i] = Key(source)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cached url: %w", err)
	}
	return nil
}

// NopURLCache never stores anything; used when Redis is not configured
type NopURLCache struct{}

func (NopURLCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (NopURLCache) Set(context.Context, string, string) error { return nil }

func (NopURLCache) Delete(context.Context, ...string) error { return nil }

// Key returns the Redis key for a source URL.
// URLs are hashed since signed URLs can be long.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return keyPrefix + hex.EncodeToString(sum[:])
}
