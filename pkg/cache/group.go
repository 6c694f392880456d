package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ddrutch/AWSInfoGraphic/pkg/observability"
)

// Group wraps a Cache with a single-flight discipline: for any key, at most
// one computation runs at a time and concurrent callers for that key share
// its result. Computations for different keys never block each other.
type Group struct {
	cache Cache
	sf    singleflight.Group
}

// NewGroup wraps the given backend. A nil backend gets a NullCache, which
// still provides request deduplication without persistence.
func NewGroup(c Cache) *Group {
	if c == nil {
		c = NewNullCache()
	}
	return &Group{cache: c}
}

// GetOrCompute returns the cached value for key, or runs compute exactly
// once across concurrent callers, caching its result with the given ttl.
// The boolean reports whether the value came from cache.
//
// Compute errors are not cached; the next caller retries.
func (g *Group) GetOrCompute(ctx context.Context, key string, ttl time.Duration, compute func(ctx context.Context) ([]byte, error)) ([]byte, bool, error) {
	if data, hit, err := g.cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnHit(ctx, key)
		return data, true, nil
	}
	observability.Cache().OnMiss(ctx, key)

	v, err, _ := g.sf.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have populated the
		// backend while this one was waiting to lead.
		if data, hit, err := g.cache.Get(ctx, key); err == nil && hit {
			return data, nil
		}
		data, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := g.cache.Set(ctx, key, data, ttl); err == nil {
			observability.Cache().OnSet(ctx, key, len(data))
		}
		return data, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

// Close releases the underlying backend.
func (g *Group) Close() error {
	return g.cache.Close()
}
