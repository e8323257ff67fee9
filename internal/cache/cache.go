// Package cache holds a generic in-memory TTL cache used to memoize
// per-user analytics between writes.
package cache

import (
	"context"
	"time"
)

// Cache is a generic keyed cache.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)

	// DeletePrefix drops every entry whose key starts with prefix.
	DeletePrefix(prefix string)

	Len() int
}

// Sweeper interface for caches that can drop expired entries in bulk.
type Sweeper interface {
	Sweep() int
}

// RunSweeper sweeps the given caches on every tick until ctx is done.
func RunSweeper(ctx context.Context, interval time.Duration, caches ...Sweeper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, c := range caches {
				c.Sweep()
			}
		}
	}
}
