// ABOUTME: Redis mirror store for installs that share annotations across devices
// ABOUTME: Thin go-redis adapter matching the Cache interface semantics

package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"reader-app-core/pkg/config"
)

// RedisCache implements the Cache interface against a Redis server. Useful
// when several reader installs should see the same mirror.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the configured Redis server and verifies the
// connection before returning.
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

// Get retrieves a value. A missing key is an error, matching the other
// backends.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.New("key not found")
		}
		return nil, err
	}
	return val, nil
}

// Set stores a value. Redis treats a zero TTL as no expiration, which
// matches the mirror contract.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a key. Deleting a missing key is not an error.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	c.client.Del(ctx, key)
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
