package selector

import (
	"errors"
	"fmt"
	"reflect"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/IvanBrykalov/memokit/cache"
	"github.com/IvanBrykalov/memokit/memo"
)

// ErrUnserializable is returned by Serialized.Select when the state cannot
// be encoded as a cache key.
var ErrUnserializable = errors.New("selector: state cannot be serialized")

// json encodes with sorted map keys so equal maps produce equal keys.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Selector memoizes the combiner against the last derived argument tuple.
type Selector[S any, R any] struct {
	inputs []Input[S]
	memo   *memo.LastCall[R]
}

// NewLastCall builds a last-call selector. It panics if Combine is nil.
func NewLastCall[S any, R any](opt Options[S, R]) *Selector[S, R] {
	opt = opt.withDefaults()
	return &Selector[S, R]{
		inputs: opt.Inputs,
		memo:   memo.NewLastCall[R](opt.Combine, opt.memoOptions()),
	}
}

// Select runs every extractor on state and combines the results unless
// they are shallowly equal to the previous call's.
func (s *Selector[S, R]) Select(state S) (R, error) {
	return s.memo.Call(derive(s.inputs, state)...)
}

// Reset forgets the previous call.
func (s *Selector[S, R]) Reset() { s.memo.Reset() }

// Ref memoizes the combined result per state object, holding the state
// weakly. The result must not reference the state.
type Ref[T any, R any] struct {
	inputs  []Input[*T]
	combine Combiner[R]
	freeze  func(any) any
	memo    *memo.Ref[T, R]
}

// NewIdentity builds an identity-keyed selector. It panics if Combine is nil.
func NewIdentity[T any, R any](opt Options[*T, R]) *Ref[T, R] {
	opt = opt.withDefaults()
	r := &Ref[T, R]{
		inputs:  opt.Inputs,
		combine: opt.Combine,
		freeze:  opt.Freeze,
	}
	r.memo = memo.NewRef[T, R](r.compute, opt.memoOptions())
	return r
}

// Select returns the cached result for state, or derives, freezes and
// combines on a miss. It fails with cache.ErrInvalidKeyType for nil state.
func (r *Ref[T, R]) Select(state *T) (R, error) { return r.memo.Call(state) }

// Has reports whether a result for state is cached.
func (r *Ref[T, R]) Has(state *T) bool { return r.memo.Has(state) }

// Forget drops the cached result for state.
func (r *Ref[T, R]) Forget(state *T) bool { return r.memo.Forget(state) }

func (r *Ref[T, R]) compute(state *T) (R, error) {
	return r.combine(freezeAll(r.freeze, derive(r.inputs, state))...)
}

// Serialized memoizes the combined result by the JSON encoding of the state.
type Serialized[S any, R any] struct {
	inputs  []Input[S]
	combine Combiner[R]
	freeze  func(any) any
	values  *cache.Values[string, R]

	name string
	log  *zap.Logger
}

// NewSerialized builds a selector keyed by the state's JSON encoding.
// It panics if Combine is nil, or if S has an unexported or `json:"-"`
// field, since states differing only there would share a cache entry.
func NewSerialized[S any, R any](opt Options[S, R]) *Serialized[S, R] {
	opt = opt.withDefaults()
	if field, ok := droppedField(reflect.TypeFor[S]()); ok {
		panic(fmt.Sprintf("selector: %s is left out of the JSON key", field))
	}
	return &Serialized[S, R]{
		inputs:  opt.Inputs,
		combine: opt.Combine,
		freeze:  opt.Freeze,
		values: cache.NewValues[string, R](cache.Options{
			Shards:  opt.Shards,
			Metrics: opt.Metrics,
			Logger:  opt.Logger,
		}),
		name: opt.Name,
		log:  opt.Logger,
	}
}

// Select returns the cached result for any state with the same encoding,
// or derives, freezes and combines on a miss.
func (s *Serialized[S, R]) Select(state S) (R, error) {
	key, err := s.key(state)
	if err != nil {
		var zero R
		return zero, err
	}
	v, hit, err := s.values.GetOrCompute(key, func(string) (R, error) {
		return s.combine(freezeAll(s.freeze, derive(s.inputs, state))...)
	})
	if err != nil {
		return v, err
	}
	msg := "memo miss"
	if hit {
		msg = "memo hit"
	}
	if ce := s.log.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(zap.String("name", s.name), zap.String("key", key))
	}
	return v, nil
}

// Has reports whether a result for state's encoding is cached.
func (s *Serialized[S, R]) Has(state S) bool {
	key, err := s.key(state)
	return err == nil && s.values.Has(key)
}

// Reset drops every cached result.
func (s *Serialized[S, R]) Reset() { s.values.Clear() }

// Len returns the number of cached results.
func (s *Serialized[S, R]) Len() int { return s.values.Len() }

func (s *Serialized[S, R]) key(state S) (string, error) {
	key, err := json.MarshalToString(state)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnserializable, err)
	}
	return key, nil
}
