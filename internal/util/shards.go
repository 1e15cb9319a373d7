package util

import "runtime"

// maxShards bounds the automatic shard count.
const maxShards = 256

// NextPow2 returns the smallest power of two >= x (1 for x <= 1).
// The result is clamped to 1<<63 when the next power would overflow.
func NextPow2(x uint64) uint64 {
	if x <= 1 {
		return 1
	}
	x--
	x |= x >> 1
	x |= x >> 2
	x |= x >> 4
	x |= x >> 8
	x |= x >> 16
	x |= x >> 32
	x++
	if x == 0 {
		return 1 << 63
	}
	return x
}

// ShardCount normalizes a requested shard count.
// n <= 0 picks nextPow2(2*GOMAXPROCS); the result is always a power of two
// in [1..256], so callers can map a hash to a shard with a mask.
func ShardCount(n int) int {
	if n <= 0 {
		n = 2 * runtime.GOMAXPROCS(0)
	}
	s := int(NextPow2(uint64(n)))
	if s > maxShards {
		s = maxShards
	}
	return s
}
