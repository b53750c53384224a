// Package cache provides the short-lived byte cache used to keep
// recommendation panels snappy between refreshes. Two implementations
// exist: an in-process map for single-instance deployments and a Redis
// client for shared ones.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with a TTL. A miss
// is (nil, false, nil); errors are reserved for infrastructure failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
