// Package cache stores computed frames and rendered artifacts.
//
// Frames are derived data: the same snapshot and configuration always lay
// out the same way, so a frame can be keyed by hashes of its inputs and
// reused across CLI runs ([FileCache]) or between server replicas
// ([RedisCache]). [NullCache] disables caching.
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cache entries.
const (
	TTLFrame    = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
