// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"encoding/binary"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
)

// Hasher spreads keys of type K across shards.
// Strings and integer kinds go through xxhash; every other comparable key
// falls back to maphash.Comparable with a per-hasher seed.
type Hasher[K comparable] struct {
	seed maphash.Seed
}

// NewHasher returns a Hasher with a fresh random seed.
func NewHasher[K comparable]() Hasher[K] {
	return Hasher[K]{seed: maphash.MakeSeed()}
}

// Sum64 returns the 64-bit hash of k.
func (h Hasher[K]) Sum64(k K) uint64 {
	switch v := any(k).(type) {
	case string:
		return xxhash.Sum64String(v)
	case int:
		return sumUint64(uint64(v))
	case int64:
		return sumUint64(uint64(v))
	case int32:
		return sumUint64(uint64(uint32(v)))
	case uint:
		return sumUint64(uint64(v))
	case uint64:
		return sumUint64(v)
	case uint32:
		return sumUint64(uint64(v))
	case uintptr:
		return sumUint64(uint64(v))
	default:
		return maphash.Comparable(h.seed, k)
	}
}

// sumUint64 hashes the 8 little-endian bytes of u without allocating.
func sumUint64(u uint64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], u)
	return xxhash.Sum64(b[:])
}
