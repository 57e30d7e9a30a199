// Package redis provides a Redis-backed response cache for deployments
// where multiple instances should share cached responses.
package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/veldt-io/tabular/pkg/cache"
)

// Config holds Redis cache settings.
type Config struct {
	// Addr is the Redis server address (host:port).
	Addr string

	// DB is the Redis database number.
	DB int

	// Prefix is prepended to every cache key. Default: "tabular:cache:".
	Prefix string

	// DefaultTTL applies when Set is called with a zero ttl.
	// Default: 5 minutes.
	DefaultTTL time.Duration
}

func (c *Config) applyDefaults() {
	if c.Prefix == "" {
		c.Prefix = "tabular:cache:"
	}
	if c.DefaultTTL == 0 {
		c.DefaultTTL = 5 * time.Minute
	}
}

// Cache stores entries as JSON values in Redis with server-side expiry.
type Cache struct {
	client *redis.Client
	config Config
}

// Ensure Cache implements cache.Cache at compile time.
var _ cache.Cache = (*Cache)(nil)

// New creates a Redis cache with the given configuration.
func New(cfg Config) *Cache {
	cfg.applyDefaults()
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB}),
		config: cfg,
	}
}

// Get returns the entry stored under key. Connection errors and decode
// failures are treated as misses: the cache is an optimization, never a
// request-failure source.
func (c *Cache) Get(ctx context.Context, key string) (*cache.Entry, bool) {
	data, err := c.client.Get(ctx, c.config.Prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("redis cache read failed", "error", err)
		}
		return nil, false
	}

	var entry cache.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

// Set stores an entry under key. A zero ttl uses the default TTL.
func (c *Cache) Set(ctx context.Context, key string, entry cache.Entry, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.config.Prefix+key, data, ttl).Err(); err != nil {
		slog.Warn("redis cache write failed", "error", err)
	}
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
