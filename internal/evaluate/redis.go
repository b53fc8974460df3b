package evaluate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aryanagarwal/guide/internal/verdict"
)

// redisKeyPrefix namespaces verdict entries in a shared Redis instance.
const redisKeyPrefix = "guide:verdict:"

// RedisCache stores verdicts in Redis. Useful when several machines share
// one behavior coach, or when the cache should expire.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration // 0 = no expiry
}

// NewRedisCache wraps an existing client. TTL of 0 stores entries forever.
func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// DialRedisCache connects to addr and verifies the connection with a ping.
func DialRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedisCache(client, ttl), nil
}

func (c *RedisCache) Get(key string) (*verdict.Verdict, error) {
	data, err := c.client.Get(context.Background(), redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var v verdict.Verdict
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, ErrCacheMiss
	}
	return &v, nil
}

func (c *RedisCache) Put(key string, v *verdict.Verdict) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling cache entry: %w", err)
	}
	if err := c.client.Set(context.Background(), redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the underlying client.
func (c *RedisCache) Close() error { return c.client.Close() }
