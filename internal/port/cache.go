package port

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired. A miss is
// always valid; callers recompute from the durable store.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the advisory key/value layer in front of the durable stores. Its
// unavailability degrades performance, never correctness.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for at most ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes one or more keys in a single batched call. Deleting an
	// absent key is not an error.
	Delete(ctx context.Context, keys ...string) error
}
