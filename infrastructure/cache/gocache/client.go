// ABOUTME: go-cache backed store for process-lifetime data such as translations and audio clips
// ABOUTME: Expired entries are purged by go-cache's janitor

package gocache

import (
	"context"
	"time"

	"paperread-app/core/interfaces"

	"github.com/patrickmn/go-cache"
)

// Cache implements interfaces.Cache on top of patrickmn/go-cache
type Cache struct {
	c *cache.Cache
}

// New creates a cache whose janitor runs every cleanupInterval
func New(cleanupInterval time.Duration) *Cache {
	return &Cache{c: cache.New(cache.NoExpiration, cleanupInterval)}
}

// Get returns the value for key or interfaces.ErrCacheMiss
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, found := c.c.Get(key)
	if !found {
		return nil, interfaces.ErrCacheMiss
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, interfaces.ErrCacheMiss
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// Set stores value; a zero ttl never expires
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	c.c.Set(key, stored, ttl)
	return nil
}

// Delete removes key
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.c.Delete(key)
	return nil
}

// Len returns the number of stored items, including expired ones not yet purged
func (c *Cache) Len() int {
	return c.c.ItemCount()
}
