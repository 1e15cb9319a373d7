// Package equal provides pluggable equality strategies used to decide
// whether a memoized call can be answered from its cache.
package equal

import (
	"reflect"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Func reports whether a and b should be treated as the same argument.
// Implementations must be total: they terminate and never panic.
type Func func(a, b any) bool

// Identity is the default strategy. It compares without recursing:
//   - nil equals only nil, and values of different dynamic types never match;
//   - slices match when they share the backing array and length;
//   - maps and funcs match when they are the same pointer;
//   - other comparable values use ==;
//   - anything else (e.g. a struct holding a slice) is never equal.
func Identity(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Map, reflect.Func:
		return va.UnsafePointer() == vb.UnsafePointer()
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return va.Equal(vb)
}

// Deep compares a and b structurally with go-cmp, treating nil and empty
// slices/maps alike. Types that cmp refuses (unexported fields) fall back
// to reflect.DeepEqual.
func Deep(a, b any) (eq bool) {
	defer func() {
		if r := recover(); r != nil {
			eq = reflect.DeepEqual(a, b)
		}
	}()
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// Args reports whether two argument lists are shallowly equal under eq.
// A nil list means "no previous call" and never matches. Lists of
// different length never match; elements are compared in order and the
// check stops at the first mismatch.
func Args(eq Func, prev, next []any) bool {
	if prev == nil || next == nil || len(prev) != len(next) {
		return false
	}
	for i := range prev {
		if !eq(prev[i], next[i]) {
			return false
		}
	}
	return true
}

// OrDefault returns eq, or Identity when eq is nil.
func OrDefault(eq Func) Func {
	if eq == nil {
		return Identity
	}
	return eq
}
