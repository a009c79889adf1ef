package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"smarttalent/pkg/platform/sentinel"
)

// Cache adapts the client to the byte-level cache interface services use.
// Misses surface as sentinel.ErrNotFound.
type Cache struct {
	client *Client
}

// NewCache wraps a client. Returns nil for a nil client so callers can wire
// "cache disabled" without special cases.
func NewCache(client *Client) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	return raw, err
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
