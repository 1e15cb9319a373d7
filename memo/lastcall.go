package memo

import (
	"sync"

	"go.uber.org/zap"

	"github.com/IvanBrykalov/memokit/equal"
)

// LastCall memoizes a multi-argument function against its most recent call.
// It holds at most one entry; this is not an LRU.
type LastCall[V any] struct {
	compute func(args ...any) (V, error)
	opt     Options

	// ---- guarded by mu; held across compute so callers never interleave ----
	mu         sync.Mutex
	lastArgs   []any // nil until the first successful call
	lastResult V
}

// NewLastCall wraps compute in a last-call memo.
func NewLastCall[V any](compute func(args ...any) (V, error), opt Options) *LastCall[V] {
	return &LastCall[V]{compute: compute, opt: opt.withDefaults()}
}

// Call returns the previous result if args are shallowly equal to the
// previous call's arguments; otherwise it recomputes and replaces the entry.
func (m *LastCall[V]) Call(args ...any) (V, error) {
	if args == nil {
		args = []any{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if equal.Args(m.opt.Equal, m.lastArgs, args) {
		m.opt.Metrics.Hit()
		trace(m.opt.Logger, true, m.opt.Name, func() zap.Field { return zap.Any("args", args) })
		return m.lastResult, nil
	}
	m.opt.Metrics.Miss()

	v, err := m.compute(args...)
	if err != nil {
		return v, err
	}
	m.lastArgs = snapshot(args)
	m.lastResult = v
	trace(m.opt.Logger, false, m.opt.Name, func() zap.Field { return zap.Any("args", args) })
	return v, nil
}

// Reset forgets the stored call.
func (m *LastCall[V]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero V
	m.lastArgs, m.lastResult = nil, zero
}

// snapshot copies args so a caller reusing its slice cannot alias the entry.
// The copy is never nil, even for zero arguments.
func snapshot(args []any) []any {
	out := make([]any, len(args))
	copy(out, args)
	return out
}

// LastCall1 returns a typed last-call memo of a one-argument function.
func LastCall1[A, R any](fn func(A) (R, error), opt Options) func(A) (R, error) {
	m := NewLastCall(func(args ...any) (R, error) {
		return fn(as[A](args[0]))
	}, opt)
	return func(a A) (R, error) { return m.Call(a) }
}

// LastCall2 returns a typed last-call memo of a two-argument function.
func LastCall2[A, B, R any](fn func(A, B) (R, error), opt Options) func(A, B) (R, error) {
	m := NewLastCall(func(args ...any) (R, error) {
		return fn(as[A](args[0]), as[B](args[1]))
	}, opt)
	return func(a A, b B) (R, error) { return m.Call(a, b) }
}

// as converts an argument back to its static type; a nil interface becomes
// the zero value instead of panicking.
func as[T any](v any) T {
	t, _ := v.(T)
	return t
}
