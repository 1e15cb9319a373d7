// Package cache provides the keyed caches behind memoized functions and
// selectors.
//
// Two variants are offered:
//
//   - Values[K, V] maps comparable keys to values by value equality. Entries
//     live until Delete or Clear; there is no eviction policy. The map is
//     split into power-of-two shards, each protected by an RWMutex.
//
//   - Identity[T, V] maps *T keys to values by pointer identity and holds
//     keys weakly: the cache never keeps a key alive. Once the key becomes
//     unreachable, the garbage collector reclaims it and a cleanup drops the
//     entry. Only non-nil pointers to non-zero-sized types are valid keys;
//     anything else is rejected with ErrInvalidKeyType (see CheckKey).
//
// Both variants implement Keyed and offer GetOrCompute, which coalesces
// concurrent misses on the same key so the computation runs once and a
// failed computation leaves no entry behind.
//
// # Basic usage
//
//	c := cache.NewValues[int, string](cache.Options{})
//	v, hit, err := c.GetOrCompute(11, func(k int) (string, error) {
//	    return strconv.Itoa(k + 5), nil
//	})
//
// # Identity keys
//
//	type doc struct{ body string }
//	c := cache.NewIdentity[doc, int](cache.Options{})
//	d := &doc{body: "hello"}
//	_ = c.Set(d, len(d.body))
//	n, _ := c.Get(d) // 5; a structurally equal &doc{"hello"} is a different key
//
// A value stored in Identity must not reference its own key, or the key
// stays reachable through the cache and is never reclaimed.
//
// # Thread-safety
//
// All methods are safe for concurrent use. Reclamation of identity entries
// is driven by the garbage collector and is not synchronously observable.
package cache
