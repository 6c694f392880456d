// Package cache provides cross-request caching for expensive collaborator
// calls, keyed by stable content fingerprints.
//
// The primary consumer is the image-sourcing stage: generation results are
// cached by a hash of the normalized prompt plus the platform target, so
// identical requests reuse one Nova Canvas call. Backends:
//   - FileCache: JSON entries under a directory, for the CLI
//   - RedisCache: shared cache for multi-instance deployments
//   - NullCache: caching disabled
//
// [Group] layers a single-flight discipline on top of any backend: at most
// one in-flight computation per key, with other requests for that key
// awaiting its result and all other keys proceeding unimpeded.
package cache

import (
	"context"
	"time"
)

// TTLs per cached artifact class.
const (
	// TTLImage is how long generated images are reusable.
	TTLImage = 24 * time.Hour
)

// Cache is the backend interface. Get returns (data, hit, error); a miss is
// not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
