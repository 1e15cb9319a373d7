// Package singleflight coalesces concurrent computations of the same key.
package singleflight

import "sync"

// Group coalesces concurrent function calls for the same key K so that
// the supplied fn is executed at most once per flight. Other concurrent
// callers wait for the shared result.
//
// Concurrency notes:
//   - The first caller for a given key becomes the leader and runs fn.
//   - Followers wait on c.done. Publishing (val, err, panicked) happens-before
//     close(c.done), so reads after <-done observe the final values.
//   - If fn panics, the leader and every follower re-panic with the value
//     recovered from fn, unwrapped. No caller ever blocks forever.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	done chan struct{} // closed when the result is published
	val  V
	err  error

	panicked bool
	pv       any
}

// Do runs fn once for the given key. Concurrent calls with the same key
// wait for the shared result. shared reports whether the caller received
// a result computed by another goroutine.
func (g *Group[K, V]) Do(key K, fn func() (V, error)) (v V, err error, shared bool) {
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		<-c.done
		if c.panicked {
			panic(c.pv)
		}
		return c.val, c.err, true
	}

	// We are the leader for this key.
	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	g.run(key, c, fn)
	if c.panicked {
		panic(c.pv)
	}
	return c.val, c.err, false
}

// run executes fn outside the lock and always publishes, even on panic.
func (g *Group[K, V]) run(key K, c *call[V], fn func() (V, error)) {
	defer func() {
		if r := recover(); r != nil {
			c.panicked = true
			c.pv = r
		}
		g.mu.Lock()
		if g.m[key] == c {
			delete(g.m, key)
		}
		g.mu.Unlock()
		close(c.done)
	}()
	c.val, c.err = fn()
}
