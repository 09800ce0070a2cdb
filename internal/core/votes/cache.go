package votes

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache memoizes expensive reads behind a TTL and a capacity-bounded LRU.
// One generic structure backs identity resolution, aggregate reads, and
// ledger reads, each with its own TTL. Entries leave the cache only through
// TTL expiry or LRU eviction; there is no explicit invalidation.
type Cache[K comparable, V any] struct {
	lru *expirable.LRU[K, V]
}

// NewCache creates a cache holding at most capacity entries, each valid for ttl
func NewCache[K comparable, V any](capacity int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		lru: expirable.NewLRU[K, V](capacity, nil, ttl),
	}
}

// GetOrCompute returns the cached value for key, computing and storing it on a
// miss. Only successful computations are stored, so a not-found or transient
// failure is re-attempted on the next call rather than cached as a negative
// result. Concurrent misses on the same key may each run compute; the reads
// being memoized are idempotent, so the duplicate work is accepted instead of
// serializing callers behind a single flight.
func (c *Cache[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if v, ok := c.lru.Get(key); ok {
		return v, nil
	}

	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	c.lru.Add(key, v)
	return v, nil
}

// Len returns the number of live entries
func (c *Cache[K, V]) Len() int {
	return c.lru.Len()
}
