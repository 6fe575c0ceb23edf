// Package memo provides a single-entry expiring cache for expensive
// read-only aggregate computations.
package memo

import (
	"context"
	"sync"
	"time"
)

// Clock supplies the current time. Injected so expiry is testable.
type Clock func() time.Time

// Cache holds one value of type T alongside the time it was fetched.
// The value expires purely by elapsed wall-clock age; there is no
// keyed storage. Construct one Cache per endpoint that needs it.
type Cache[T any] struct {
	mu        sync.Mutex
	data      T
	fetchedAt time.Time
	valid     bool
	ttl       time.Duration
	now       Clock
}

// New creates a Cache with the given time-to-live. A nil clock defaults
// to time.Now.
func New[T any](ttl time.Duration, now Clock) *Cache[T] {
	if now == nil {
		now = time.Now
	}
	return &Cache[T]{ttl: ttl, now: now}
}

// Get returns the cached value when it is younger than the TTL, otherwise
// it invokes fetch, stores the result, and returns it. A fetch error is
// returned without disturbing any previously cached value.
func (c *Cache[T]) Get(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.data, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	c.data = data
	c.fetchedAt = c.now()
	c.valid = true
	return c.data, nil
}

// Invalidate discards any cached value.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}
