package cache

import (
	"errors"
	"reflect"
)

var (
	// ErrNotFound is returned by Get when there is no entry for the key.
	ErrNotFound = errors.New("cache: key not found")

	// ErrInvalidKeyType is returned when a key cannot be tracked by identity:
	// it is not a pointer, is nil, or points to a zero-sized type.
	ErrInvalidKeyType = errors.New("cache: key must be a non-nil pointer to a non-zero-sized value")
)

// CheckKey reports whether key can serve as an identity-cache key.
// Primitives (numbers, strings, booleans), nil and non-pointer values are
// rejected with ErrInvalidKeyType, as are pointers to zero-sized types,
// whose distinct allocations may share an address.
func CheckKey(key any) error {
	if key == nil {
		return ErrInvalidKeyType
	}
	v := reflect.ValueOf(key)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrInvalidKeyType
	}
	if v.Type().Elem().Size() == 0 {
		return ErrInvalidKeyType
	}
	return nil
}
