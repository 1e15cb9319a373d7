package cache

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/IvanBrykalov/memokit/internal/singleflight"
	"github.com/IvanBrykalov/memokit/internal/util"
)

// Values is a sharded, unbounded cache keyed by value equality.
// All methods are safe for concurrent use by multiple goroutines.
type Values[K comparable, V any] struct {
	shards []*shard[K, V]
	hash   util.Hasher[K]
	size   atomic.Int64

	opt Options

	// singleflight group for coalescing concurrent misses in GetOrCompute.
	sf singleflight.Group[K, V]
}

// NewValues constructs a value-keyed cache with the provided Options.
func NewValues[K comparable, V any](opt Options) *Values[K, V] {
	opt = opt.withDefaults()
	n := util.ShardCount(opt.Shards)
	shards := make([]*shard[K, V], n)
	for i := range shards {
		shards[i] = newShard[K, V]()
	}
	return &Values[K, V]{
		shards: shards,
		hash:   util.NewHasher[K](),
		opt:    opt,
	}
}

// Has reports whether an entry exists for k.
func (c *Values[K, V]) Has(k K) bool {
	_, ok := c.getShard(k).peek(k)
	return ok
}

// Get returns the value for k or an error wrapping ErrNotFound.
func (c *Values[K, V]) Get(k K) (V, error) {
	v, ok := c.getShard(k).peek(k)
	if !ok {
		return v, fmt.Errorf("%w: %v", ErrNotFound, k)
	}
	return v, nil
}

// Set inserts or overwrites k→v.
func (c *Values[K, V]) Set(k K, v V) {
	if c.getShard(k).set(k, v) {
		c.opt.Metrics.Size(int(c.size.Add(1)))
	}
}

// Delete removes k if present and returns true on success.
func (c *Values[K, V]) Delete(k K) bool {
	if !c.getShard(k).remove(k) {
		return false
	}
	c.opt.Metrics.Evict(EvictCleared)
	c.opt.Metrics.Size(int(c.size.Add(-1)))
	return true
}

// Clear drops every entry.
func (c *Values[K, V]) Clear() {
	total := 0
	for _, s := range c.shards {
		n := s.clear()
		total += n
		for i := 0; i < n; i++ {
			c.opt.Metrics.Evict(EvictCleared)
		}
		c.opt.Metrics.Size(int(c.size.Add(int64(-n))))
	}
	c.opt.Logger.Debug("cache cleared", zap.Int("entries", total))
}

// Len returns the total number of resident entries across all shards.
func (c *Values[K, V]) Len() int {
	total := 0
	for _, s := range c.shards {
		total += s.len()
	}
	return total
}

// Stats sums the per-shard GetOrCompute counters.
func (c *Values[K, V]) Stats() Stats {
	var st Stats
	for _, s := range c.shards {
		st.Hits += s.hits.Load()
		st.Misses += s.misses.Load()
	}
	return st
}

// GetOrCompute returns the value for k; on miss it runs fn, coalescing
// concurrent misses for the same key (singleflight). A failed fn leaves
// no entry.
func (c *Values[K, V]) GetOrCompute(k K, fn func(K) (V, error)) (V, bool, error) {
	s := c.getShard(k)
	// fast path
	if v, ok := s.lookup(k); ok {
		c.opt.Metrics.Hit()
		return v, true, nil
	}
	c.opt.Metrics.Miss()

	computed := false
	v, err, _ := c.sf.Do(k, func() (V, error) {
		// double-check after flight join
		if v, ok := s.peek(k); ok {
			return v, nil
		}
		computed = true
		v, err := fn(k)
		if err == nil {
			c.Set(k, v)
		}
		return v, err
	})
	return v, !computed && err == nil, err
}

// getShard picks a shard by hashing the key and masking with len-1.
// len(c.shards) is guaranteed to be a power of two.
func (c *Values[K, V]) getShard(k K) *shard[K, V] {
	h := c.hash.Sum64(k)
	return c.shards[h&uint64(len(c.shards)-1)]
}

// Compile-time check: Values implements Keyed.
var _ Keyed[string, int] = (*Values[string, int])(nil)
