// Package cache implements the Redis-backed token store: the latest access
// token issued to each user, keyed by user UID. The store is consulted by the
// authentication middleware, so deleting a record (logout) or overwriting it
// (login, refresh) invalidates every older token before its natural expiry.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hirwa-dev/subscription-manager/internal/config"
)

const tokenKeyPrefix = "user_token:"

// Cache wraps the Redis client.
type Cache struct {
	Db *redis.Client
}

// InitServer connects to Redis and verifies the connection.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Cache, error) {
	const op = "cache.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Cache{Db: db}, nil
}

// SetToken stores the latest access token for a user, replacing any previous
// one. The TTL matches the access-token lifetime.
func (c *Cache) SetToken(ctx context.Context, userUID, token string, ttl time.Duration) error {
	const op = "cache.SetToken"
	if err := c.Db.Set(ctx, tokenKeyPrefix+userUID, token, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetToken returns the stored token for a user and whether one exists.
func (c *Cache) GetToken(ctx context.Context, userUID string) (string, bool, error) {
	const op = "cache.GetToken"
	val, err := c.Db.Get(ctx, tokenKeyPrefix+userUID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return val, true, nil
}

// InvalidateToken removes the stored token for a user.
func (c *Cache) InvalidateToken(ctx context.Context, userUID string) error {
	const op = "cache.InvalidateToken"
	if err := c.Db.Del(ctx, tokenKeyPrefix+userUID).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Ping reports whether the store is reachable, for the health endpoint.
func (c *Cache) Ping(ctx context.Context) error {
	return c.Db.Ping(ctx).Err()
}
