package memo

import (
	"go.uber.org/zap"

	"github.com/IvanBrykalov/memokit/cache"
	"github.com/IvanBrykalov/memokit/equal"
)

// Options configures a memoized function. Zero values are safe:
//   - empty Name    => "memo"
//   - nil Equal     => equal.Identity (LastCall only)
//   - nil Metrics   => cache.NoopMetrics
//   - nil Logger    => zap.NewNop()
type Options struct {
	// Name labels trace lines.
	Name string

	// Shards is passed to the underlying value cache (Func only).
	Shards int

	// Equal compares positional arguments in LastCall.
	Equal equal.Func

	Metrics cache.Metrics
	Logger  *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Name == "" {
		o.Name = "memo"
	}
	o.Equal = equal.OrDefault(o.Equal)
	if o.Metrics == nil {
		o.Metrics = cache.NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func (o Options) cacheOptions() cache.Options {
	return cache.Options{Shards: o.Shards, Metrics: o.Metrics, Logger: o.Logger}
}

// trace writes a hit/miss line if Debug is enabled; fields are built lazily.
func trace(log *zap.Logger, hit bool, name string, fields func() zap.Field) {
	msg := "memo miss"
	if hit {
		msg = "memo hit"
	}
	if ce := log.Check(zap.DebugLevel, msg); ce != nil {
		ce.Write(zap.String("name", name), fields())
	}
}
