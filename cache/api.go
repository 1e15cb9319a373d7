package cache

// Keyed is the lookup/insert contract shared by Values and Identity.
// All methods are safe for concurrent use by multiple goroutines.
type Keyed[K any, V any] interface {
	// Has reports whether an entry exists for k.
	Has(k K) bool

	// Get returns the value for k, or ErrNotFound if there is none.
	// Identity caches return ErrInvalidKeyType for keys they cannot track.
	Get(k K) (V, error)

	// GetOrCompute returns the cached value for k, or runs fn, stores its
	// result and returns it. hit reports whether fn was skipped for this
	// caller. Concurrent misses on the same key run fn once. If fn fails,
	// its error is returned unchanged and nothing is stored.
	GetOrCompute(k K, fn func(K) (V, error)) (v V, hit bool, err error)

	// Delete removes the entry for k and reports whether it existed.
	Delete(k K) bool
}

// Stats is a snapshot of GetOrCompute lookups.
type Stats struct {
	Hits   int64
	Misses int64
}
