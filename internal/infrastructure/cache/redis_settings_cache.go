package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/billingkit/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const settingsKeyPrefix = "settings:"

// RedisSettingsCache implements SettingsCache using Redis. Suitable for
// distributed deployments where every instance must observe a setting
// change within one TTL.
type RedisSettingsCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisSettingsCache creates a Redis-backed settings cache and
// verifies the connection
func NewRedisSettingsCache(cfg config.RedisConfig) (*RedisSettingsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSettingsCache{
		client:    client,
		keyPrefix: settingsKeyPrefix,
	}, nil
}

// NewRedisSettingsCacheWithClient creates a cache with an existing
// Redis client. Useful for testing or when sharing a client.
func NewRedisSettingsCacheWithClient(client *redis.Client, keyPrefix string) *RedisSettingsCache {
	if keyPrefix == "" {
		keyPrefix = settingsKeyPrefix
	}
	return &RedisSettingsCache{client: client, keyPrefix: keyPrefix}
}

// Get returns the cached value for key
func (c *RedisSettingsCache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, c.keyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read setting from Redis: %w", err)
	}
	return value, true, nil
}

// Set stores the value for key with the given TTL
func (c *RedisSettingsCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write setting to Redis: %w", err)
	}
	return nil
}

// Invalidate removes the cached value for key
func (c *RedisSettingsCache) Invalidate(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate setting in Redis: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSettingsCache) Close() error {
	return c.client.Close()
}

var _ SettingsCache = (*RedisSettingsCache)(nil)
