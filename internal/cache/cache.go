package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client wraps redis.Client for the shared cache and counter store.
//
// Unlike a pure read-through cache, callers here depend on Redis for
// correctness (rate counters, OAuth state), so errors are surfaced rather
// than swallowed.
type Client struct {
	client *redis.Client
}

// New parses a Redis connection URL (redis://[:password@]host:port/db) and
// returns a client wrapper. The connection is established lazily; use Ping
// to probe it.
func New(url string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Client{client: redis.NewClient(opts)}, nil
}

// NewFromClient wraps an existing Redis client. Used in tests.
func NewFromClient(client *redis.Client) *Client {
	return &Client{client: client}
}

// Redis exposes the underlying client for components that need Redis
// primitives beyond the key-value surface, such as the rate limiter.
func (c *Client) Redis() *redis.Client {
	return c.client
}

// Ping probes the connection.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Get returns the value for key, or nil if the key does not exist.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return res, nil
}

// GetDel atomically returns and removes the value for key, or nil if the key
// does not exist.
func (c *Client) GetDel(ctx context.Context, key string) ([]byte, error) {
	res, err := c.client.GetDel(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis getdel: %w", err)
	}
	return res, nil
}

// Set stores value under key with a TTL.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes a key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
