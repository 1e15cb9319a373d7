package cache

import (
	"sync"

	"github.com/IvanBrykalov/memokit/internal/util"
)

// shard is an independent partition of a Values cache with its own lock
// and map. There is no ordering list: entries are never evicted.
type shard[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu sync.RWMutex
	m  map[K]V

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
}

func newShard[K comparable, V any]() *shard[K, V] {
	return &shard[K, V]{m: make(map[K]V)}
}

// lookup returns the value for k and records a hit or a miss.
func (s *shard[K, V]) lookup(k K) (V, bool) {
	v, ok := s.peek(k)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return v, ok
}

// peek returns the value for k without touching counters.
func (s *shard[K, V]) peek(k K) (V, bool) {
	s.mu.RLock()
	v, ok := s.m[k]
	s.mu.RUnlock()
	return v, ok
}

// set inserts or overwrites k→v and reports whether the key is new.
func (s *shard[K, V]) set(k K, v V) bool {
	s.mu.Lock()
	_, exists := s.m[k]
	s.m[k] = v
	s.mu.Unlock()
	return !exists
}

// remove deletes k and reports whether it was present.
func (s *shard[K, V]) remove(k K) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.m[k]; !ok {
		return false
	}
	delete(s.m, k)
	return true
}

// clear drops every entry and returns how many were removed.
func (s *shard[K, V]) clear() int {
	s.mu.Lock()
	n := len(s.m)
	s.m = make(map[K]V)
	s.mu.Unlock()
	return n
}

func (s *shard[K, V]) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
