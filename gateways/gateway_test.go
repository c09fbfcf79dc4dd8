package gateways

import (
	"context"
	"time"
)

// memoryTokenCache is a test double for the redis-backed cache.
type memoryTokenCache struct {
	token string
	ttl   time.Duration
	sets  int
}

func (m *memoryTokenCache) Get(ctx context.Context) (string, error) {
	return m.token, nil
}

func (m *memoryTokenCache) Set(ctx context.Context, token string, ttl time.Duration) error {
	m.token = token
	m.ttl = ttl
	m.sets++
	return nil
}
