package memo

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/IvanBrykalov/memokit/cache"
)

// keyed runs a computation through any Keyed cache and traces the outcome.
type keyed[K any, V any] struct {
	c        cache.Keyed[K, V]
	compute  func(K) (V, error)
	name     string
	log      *zap.Logger
	keyField func(K) zap.Field
}

func (m *keyed[K, V]) call(k K) (V, error) {
	v, hit, err := m.c.GetOrCompute(k, m.compute)
	if err != nil {
		return v, err
	}
	trace(m.log, hit, m.name, func() zap.Field { return m.keyField(k) })
	return v, nil
}

// Func memoizes a single-argument function by key value.
type Func[K comparable, V any] struct {
	keyed[K, V]
	values *cache.Values[K, V]
}

// New wraps compute in a value-keyed memo.
func New[K comparable, V any](compute func(K) (V, error), opt Options) *Func[K, V] {
	opt = opt.withDefaults()
	values := cache.NewValues[K, V](opt.cacheOptions())
	return &Func[K, V]{
		keyed: keyed[K, V]{
			c:        values,
			compute:  compute,
			name:     opt.Name,
			log:      opt.Logger,
			keyField: func(k K) zap.Field { return zap.Any("key", k) },
		},
		values: values,
	}
}

// Call returns the memoized result for k, computing it on first use.
// If the computation panics, nothing is cached and the caller that ran it,
// along with every caller coalesced onto it, panics with the recovered value.
func (f *Func[K, V]) Call(k K) (V, error) { return f.call(k) }

// Has reports whether a result for k is cached.
func (f *Func[K, V]) Has(k K) bool { return f.values.Has(k) }

// Forget drops the cached result for k.
func (f *Func[K, V]) Forget(k K) bool { return f.values.Delete(k) }

// Reset drops every cached result.
func (f *Func[K, V]) Reset() { f.values.Clear() }

// Len returns the number of cached results.
func (f *Func[K, V]) Len() int { return f.values.Len() }

// Stats returns hit/miss counters.
func (f *Func[K, V]) Stats() cache.Stats { return f.values.Stats() }

// Ref memoizes a function of *T by pointer identity. Results are dropped
// once their key is garbage collected; they must not reference the key.
type Ref[T any, V any] struct {
	keyed[*T, V]
	ids *cache.Identity[T, V]
}

// NewRef wraps compute in an identity-keyed memo. Options.Shards is ignored.
func NewRef[T any, V any](compute func(*T) (V, error), opt Options) *Ref[T, V] {
	opt = opt.withDefaults()
	ids := cache.NewIdentity[T, V](opt.cacheOptions())
	return &Ref[T, V]{
		keyed: keyed[*T, V]{
			c:        ids,
			compute:  compute,
			name:     opt.Name,
			log:      opt.Logger,
			keyField: func(k *T) zap.Field { return zap.String("key", fmt.Sprintf("%p", k)) },
		},
		ids: ids,
	}
}

// Call returns the memoized result for k. It fails with
// cache.ErrInvalidKeyType if k is nil or points to a zero-sized type.
func (r *Ref[T, V]) Call(k *T) (V, error) { return r.call(k) }

// Has reports whether a result for k is cached.
func (r *Ref[T, V]) Has(k *T) bool { return r.ids.Has(k) }

// Forget drops the cached result for k.
func (r *Ref[T, V]) Forget(k *T) bool { return r.ids.Delete(k) }

// Stats returns hit/miss counters.
func (r *Ref[T, V]) Stats() cache.Stats { return r.ids.Stats() }
