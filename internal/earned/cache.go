package earned

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("earned amount not cached")

// Cache keeps the last fetched amount per contract
type Cache interface {
	Get(ctx context.Context, contract string) (int64, error)
	Set(ctx context.Context, contract string, dollars int64, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func earnedKey(contract string) string {
	return fmt.Sprintf("earned:%s", contract)
}

func (c *RedisCache) Get(ctx context.Context, contract string) (int64, error) {
	value, err := c.client.Get(ctx, earnedKey(contract)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, ErrCacheMiss
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read earned cache: %w", err)
	}

	dollars, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, ErrCacheMiss
	}
	return dollars, nil
}

func (c *RedisCache) Set(ctx context.Context, contract string, dollars int64, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, earnedKey(contract), strconv.FormatInt(dollars, 10), ttl).Err(); err != nil {
		return fmt.Errorf("failed to write earned cache: %w", err)
	}
	return nil
}
