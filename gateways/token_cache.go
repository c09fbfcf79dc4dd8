package gateways

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenTTLMargin is subtracted from the provider-reported expiry so a token
// is never presented when it is about to lapse mid-call.
const tokenTTLMargin = 60 * time.Second

// TokenCache stores a short-lived gateway auth token. Implementations must
// be safe for concurrent use across multiple server instances.
type TokenCache interface {
	// Get returns the cached token, or "" when absent or expired.
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string, ttl time.Duration) error
}

// RedisTokenCache keeps gateway tokens in redis so every instance behind a
// load balancer shares one grant instead of racing for fresh tokens.
type RedisTokenCache struct {
	client *redis.Client
	key    string
}

// NewRedisTokenCache creates a cache under the given redis key.
func NewRedisTokenCache(client *redis.Client, key string) *RedisTokenCache {
	return &RedisTokenCache{client: client, key: key}
}

func (c *RedisTokenCache) Get(ctx context.Context) (string, error) {
	token, err := c.client.Get(ctx, c.key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (c *RedisTokenCache) Set(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return c.client.Set(ctx, c.key, token, ttl).Err()
}
