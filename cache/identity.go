package cache

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"go.uber.org/zap"

	"github.com/IvanBrykalov/memokit/internal/singleflight"
)

// Identity is a cache keyed by pointer identity that holds its keys weakly.
//
// Entries are indexed by weak.Pointer[T]; two weak pointers compare equal
// exactly when they were made from the same pointer, so structurally equal
// but distinct objects are separate keys. A cleanup attached to each key
// removes its entry after the key has been garbage collected.
//
// Identity deliberately exposes no enumeration and no size query.
type Identity[T any, V any] struct {
	mu sync.RWMutex
	m  map[weak.Pointer[T]]identityEntry[V]

	opt Options
	sf  singleflight.Group[weak.Pointer[T], V]

	hits   atomic.Int64
	misses atomic.Int64
}

// NewIdentity constructs an identity-keyed cache. Options.Shards is ignored.
func NewIdentity[T any, V any](opt Options) *Identity[T, V] {
	return &Identity[T, V]{
		m:   make(map[weak.Pointer[T]]identityEntry[V]),
		opt: opt.withDefaults(),
	}
}

// Has reports whether an entry exists for k. Invalid keys are never present.
func (c *Identity[T, V]) Has(k *T) bool {
	if CheckKey(k) != nil {
		return false
	}
	_, ok := c.peek(weak.Make(k))
	return ok
}

// Get returns the value for k. It fails with ErrInvalidKeyType for keys
// that cannot be tracked and with ErrNotFound when there is no entry.
func (c *Identity[T, V]) Get(k *T) (V, error) {
	var zero V
	if err := CheckKey(k); err != nil {
		return zero, fmt.Errorf("%w: %T", err, k)
	}
	v, ok := c.peek(weak.Make(k))
	if !ok {
		return zero, fmt.Errorf("%w: %p", ErrNotFound, k)
	}
	return v, nil
}

// Set inserts or overwrites the entry for k. It fails with
// ErrInvalidKeyType for keys that cannot be tracked.
func (c *Identity[T, V]) Set(k *T, v V) error {
	if err := CheckKey(k); err != nil {
		return fmt.Errorf("%w: %T", err, k)
	}
	c.store(k, weak.Make(k), v)
	return nil
}

// Delete removes the entry for k and reports whether it existed.
func (c *Identity[T, V]) Delete(k *T) bool {
	if CheckKey(k) != nil {
		return false
	}
	wp := weak.Make(k)
	c.mu.Lock()
	e, ok := c.m[wp]
	delete(c.m, wp)
	c.mu.Unlock()
	if ok {
		e.stop.Stop()
		c.opt.Metrics.Evict(EvictCleared)
	}
	return ok
}

// Stats returns the GetOrCompute hit/miss counters.
func (c *Identity[T, V]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// GetOrCompute returns the value for k; on miss it runs fn, coalescing
// concurrent misses for the same key. A failed fn leaves no entry.
func (c *Identity[T, V]) GetOrCompute(k *T, fn func(*T) (V, error)) (V, bool, error) {
	var zero V
	if err := CheckKey(k); err != nil {
		return zero, false, fmt.Errorf("%w: %T", err, k)
	}
	wp := weak.Make(k)
	if v, ok := c.peek(wp); ok {
		c.hits.Add(1)
		c.opt.Metrics.Hit()
		return v, true, nil
	}
	c.misses.Add(1)
	c.opt.Metrics.Miss()

	computed := false
	v, err, _ := c.sf.Do(wp, func() (V, error) {
		if v, ok := c.peek(wp); ok {
			return v, nil
		}
		computed = true
		v, err := fn(k)
		if err == nil {
			c.store(k, wp, v)
		}
		return v, err
	})
	runtime.KeepAlive(k)
	return v, !computed && err == nil, err
}

// identityEntry pairs a value with the cleanup registered for its key.
// Delete stops the cleanup so Set/Delete cycles on a live key do not pile
// up registrations.
type identityEntry[V any] struct {
	v    V
	stop runtime.Cleanup
}

func (c *Identity[T, V]) peek(wp weak.Pointer[T]) (V, bool) {
	c.mu.RLock()
	e, ok := c.m[wp]
	c.mu.RUnlock()
	return e.v, ok
}

// store writes the entry. An overwrite keeps the existing cleanup; a new
// entry gets one that drops it once k is unreachable. The cleanup only
// captures wp, never k.
func (c *Identity[T, V]) store(k *T, wp weak.Pointer[T], v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.m[wp]; ok {
		e.v = v
		c.m[wp] = e
		return
	}
	c.m[wp] = identityEntry[V]{v: v, stop: runtime.AddCleanup(k, c.collect, wp)}
}

// collect runs on the cleanup goroutine after the key was reclaimed.
func (c *Identity[T, V]) collect(wp weak.Pointer[T]) {
	c.mu.Lock()
	_, ok := c.m[wp]
	delete(c.m, wp)
	c.mu.Unlock()
	if ok {
		c.opt.Metrics.Evict(EvictCollected)
		c.opt.Logger.Debug("identity entry reclaimed", zap.String("key_type", fmt.Sprintf("%T", (*T)(nil))))
	}
}

// Compile-time check: Identity implements Keyed over pointer keys.
var _ Keyed[*int, int] = (*Identity[int, int])(nil)
