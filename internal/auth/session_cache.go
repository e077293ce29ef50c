package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("session not cached")

// SessionCache remembers which user holds a session token hash
type SessionCache interface {
	Get(ctx context.Context, tokenHash string) (uuid.UUID, error)
	Set(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error
	Delete(ctx context.Context, tokenHash string) error
}

// RedisSessionCache keeps live sessions in Redis, expiring together with the session
type RedisSessionCache struct {
	client *redis.Client
}

func NewRedisSessionCache(client *redis.Client) *RedisSessionCache {
	return &RedisSessionCache{client: client}
}

func sessionKey(tokenHash string) string {
	return fmt.Sprintf("session:%s", tokenHash)
}

// Get returns the user ID cached for the token hash, or ErrCacheMiss
func (c *RedisSessionCache) Get(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	value, err := c.client.Get(ctx, sessionKey(tokenHash)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrCacheMiss
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to read session cache: %w", err)
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, ErrCacheMiss
	}
	return userID, nil
}

// Set caches the session for ttl. Non-positive TTLs are ignored.
func (c *RedisSessionCache) Set(ctx context.Context, tokenHash string, userID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, sessionKey(tokenHash), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to write session cache: %w", err)
	}
	return nil
}

// Delete drops the cached session
func (c *RedisSessionCache) Delete(ctx context.Context, tokenHash string) error {
	if err := c.client.Del(ctx, sessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("failed to delete cached session: %w", err)
	}
	return nil
}
