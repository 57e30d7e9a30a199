// Package memory provides an in-process TTL cache for lightweight
// deployments and tests. Entries are lost when the process restarts.
package memory

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/veldt-io/tabular/pkg/cache"
)

// Cache is an in-memory TTL cache with bounded capacity.
type Cache struct {
	items      *ttlcache.Cache[string, cache.Entry]
	defaultTTL time.Duration
}

// Ensure Cache implements cache.Cache at compile time.
var _ cache.Cache = (*Cache)(nil)

// New creates a memory cache. defaultTTL applies when Set is called with
// a zero ttl. capacity of 0 means unbounded.
func New(defaultTTL time.Duration, capacity uint64) *Cache {
	opts := []ttlcache.Option[string, cache.Entry]{
		ttlcache.WithTTL[string, cache.Entry](defaultTTL),
		// Reads must not extend an entry's lifetime: entries are
		// invalidated by expiry only.
		ttlcache.WithDisableTouchOnHit[string, cache.Entry](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, cache.Entry](capacity))
	}

	c := &Cache{
		items:      ttlcache.New(opts...),
		defaultTTL: defaultTTL,
	}
	go c.items.Start()
	return c
}

// Get returns the entry stored under key, or false on miss or expiry.
func (c *Cache) Get(ctx context.Context, key string) (*cache.Entry, bool) {
	item := c.items.Get(key)
	if item == nil {
		return nil, false
	}
	entry := item.Value()
	return &entry, true
}

// Set stores an entry under key. A zero ttl uses the default TTL.
func (c *Cache) Set(ctx context.Context, key string, entry cache.Entry, ttl time.Duration) {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	c.items.Set(key, entry, ttl)
}

// Stop terminates the background expiry loop.
func (c *Cache) Stop() {
	c.items.Stop()
}
