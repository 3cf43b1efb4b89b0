// Package interfaces defines the contracts between the reading core and its
// adapters: article backend, key-value storage, outbound HTTP, speech and
// logging.
package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist or has expired
var ErrCacheMiss = errors.New("key not found")

// Cache is the key-value store behind per-user reading state: progress,
// sentence annotations, preferences, the catalog snapshot and synthesized
// audio. Memory, go-cache, Redis and SQLite implementations exist.
//
//	err := cache.Set(ctx, "maxParagraphs", []byte("8"), 0)
//	data, err := cache.Get(ctx, "maxParagraphs")
//	if errors.Is(err, interfaces.ErrCacheMiss) {
//		// fall back to the default page size
//	}
type Cache interface {
	// Get returns ErrCacheMiss when key is absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete is a no-op for missing keys
	Delete(ctx context.Context, key string) error
}
