package selector

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrArgument is returned by combiners built with Combine1 and Combine2 when
// the derived arguments do not match the combiner's parameters.
var ErrArgument = errors.New("selector: combiner argument mismatch")

// Extractor derives one argument for the combiner from the shared state.
type Extractor[S any] func(S) any

// Combiner computes the selector's result from the derived arguments.
type Combiner[R any] func(args ...any) (R, error)

// Input is one element of a selector chain: either a single extractor or a
// group of extractors. Build it with One or Group.
type Input[S any] struct {
	fns []Extractor[S]
}

// One wraps a single typed extractor.
func One[S, D any](fn func(S) D) Input[S] {
	return Input[S]{fns: []Extractor[S]{Extract(fn)}}
}

// Group bundles several extractors whose outputs are spliced into the
// argument list in order.
func Group[S any](fns ...Extractor[S]) Input[S] {
	return Input[S]{fns: append([]Extractor[S](nil), fns...)}
}

// Extract adapts a typed extractor for use in Group.
func Extract[S, D any](fn func(S) D) Extractor[S] {
	if fn == nil {
		panic("selector: nil extractor")
	}
	return func(s S) any { return fn(s) }
}

// derive applies every input to s, flattening groups one level.
func derive[S any](inputs []Input[S], s S) []any {
	args := make([]any, 0, len(inputs))
	for _, in := range inputs {
		for _, fn := range in.fns {
			args = append(args, fn(s))
		}
	}
	return args
}

// Combine1 adapts a typed one-argument combiner.
func Combine1[A, R any](fn func(A) R) Combiner[R] {
	return func(args ...any) (R, error) {
		var zero R
		a, err := arg[A](args, 0)
		if err != nil {
			return zero, err
		}
		return fn(a), nil
	}
}

// Combine2 adapts a typed two-argument combiner.
func Combine2[A, B, R any](fn func(A, B) R) Combiner[R] {
	return func(args ...any) (R, error) {
		var zero R
		a, err := arg[A](args, 0)
		if err != nil {
			return zero, err
		}
		b, err := arg[B](args, 1)
		if err != nil {
			return zero, err
		}
		return fn(a, b), nil
	}
}

// arg converts args[i] back to its static type. A nil interface becomes the
// zero value; any other mismatch is an ErrArgument.
func arg[T any](args []any, i int) (T, error) {
	var zero T
	if i >= len(args) {
		return zero, fmt.Errorf("%w: argument %d missing, got %d arguments", ErrArgument, i, len(args))
	}
	if args[i] == nil {
		return zero, nil
	}
	t, ok := args[i].(T)
	if !ok {
		return zero, fmt.Errorf("%w: argument %d is %T, want %v", ErrArgument, i, args[i], reflect.TypeFor[T]())
	}
	return t, nil
}
