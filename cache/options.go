package cache

import "go.uber.org/zap"

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCleared — removed explicitly via Delete or Clear.
	EvictCleared EvictReason = iota
	// EvictCollected — the key was garbage collected (Identity only).
	EvictCollected
)

// String returns a stable label for the reason.
func (r EvictReason) String() string {
	switch r {
	case EvictCollected:
		return "collected"
	default:
		return "cleared"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// Options configures a cache. Zero values are safe;
// defaults are applied by the constructors:
//   - Shards <= 0  => auto (nextPow2(2*GOMAXPROCS), capped at 256)
//   - nil Metrics  => NoopMetrics
//   - nil Logger   => zap.NewNop()
type Options struct {
	// Shards defines the number of shards of a Values cache, rounded up to
	// a power of two. Identity caches are not sharded and ignore it.
	Shards int

	// Metrics receives Hit/Miss/Evict/Size signals.
	Metrics Metrics

	// Logger receives debug traces (clears, reclaimed entries).
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
