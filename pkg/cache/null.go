package cache

import (
	"context"
	"time"
)

// NullCache is the "none" backend: every lookup misses, so each pipeline run
// recomputes its frame and renders. It is also what --no-cache and a missing
// cache directory fall back to.
type NullCache struct{}

// NewNullCache returns a Cache that stores nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards data.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
