// Package cache provides a Redis-backed TTL cache for the feed snapshots.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spacemetall/salesboard/internal/config"
	"github.com/spacemetall/salesboard/pkg/logger"
)

// Cache is the subset of cache operations the feed client needs.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
	Health(ctx context.Context) error
	Close() error
}

// RedisCache implements Cache on a Redis connection.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection.
func NewRedisCache(cfg *config.RedisConfig, log *logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Int("db", cfg.DB).
		Msg("Connected to Redis")

	return &RedisCache{client: client}, nil
}

// NewRedisCacheWithClient wraps an existing client (useful for testing).
func NewRedisCacheWithClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached value, or "" when the key is absent.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %q: %w", key, err)
	}
	return val, nil
}

// Set stores a value with the given TTL.
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}
	return nil
}

// Invalidate removes keys.
func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate keys: %w", err)
	}
	return nil
}

// Health checks if the cache is reachable.
func (c *RedisCache) Health(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
