package selector

import (
	"go.uber.org/zap"

	"github.com/IvanBrykalov/memokit/cache"
	"github.com/IvanBrykalov/memokit/equal"
	"github.com/IvanBrykalov/memokit/memo"
)

// Options configures a selector. Inputs and Combine are required; the
// remaining zero values are safe:
//   - empty Name    => "selector"
//   - nil Equal     => equal.Identity (NewLastCall only)
//   - nil Freeze    => Shallow (NewIdentity, NewSerialized)
//   - nil Metrics   => cache.NoopMetrics
//   - nil Logger    => zap.NewNop()
type Options[S any, R any] struct {
	Name string

	// Inputs derive the combiner's arguments; the chain is copied at
	// construction, so later changes to the slice have no effect.
	Inputs  []Input[S]
	Combine Combiner[R]

	Equal  equal.Func
	Freeze func(any) any

	// Shards is passed to the value cache of NewSerialized.
	Shards int

	Metrics cache.Metrics
	Logger  *zap.Logger
}

func (o Options[S, R]) withDefaults() Options[S, R] {
	if o.Combine == nil {
		panic("selector: Combine must be set")
	}
	inputs := make([]Input[S], len(o.Inputs))
	for i, in := range o.Inputs {
		for _, fn := range in.fns {
			if fn == nil {
				panic("selector: nil extractor")
			}
		}
		inputs[i] = Input[S]{fns: append([]Extractor[S](nil), in.fns...)}
	}
	o.Inputs = inputs
	if o.Name == "" {
		o.Name = "selector"
	}
	if o.Freeze == nil {
		o.Freeze = Shallow
	}
	if o.Metrics == nil {
		o.Metrics = cache.NoopMetrics{}
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func (o Options[S, R]) memoOptions() memo.Options {
	return memo.Options{
		Name:    o.Name,
		Shards:  o.Shards,
		Equal:   o.Equal,
		Metrics: o.Metrics,
		Logger:  o.Logger,
	}
}
