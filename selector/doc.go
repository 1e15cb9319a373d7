// Package selector composes extractor functions with a combiner and
// memoizes the combined result.
//
// A selector is built from an ordered list of inputs and a combiner. Each
// input is either a single extractor (One) or a group of extractors
// (Group). Deriving arguments for a state value runs the inputs in order:
// a single extractor contributes one argument, a group contributes each of
// its outputs as separate arguments. Groups cannot nest, so arguments are
// flattened exactly one level. The output of a single extractor is never
// inspected: a slice returned by One stays one argument.
//
// Three caching strategies are available:
//
//   - NewLastCall: extractors always run; the combiner is skipped while the
//     derived tuple is shallowly equal to the previous one.
//   - NewIdentity: the state pointer itself is the key of a weak identity
//     cache. On a miss the arguments are derived, frozen and combined.
//   - NewSerialized: the JSON encoding of the state is the key of a value
//     cache, so structurally equal states share one result.
//
// # Example
//
//	type State struct{ Numbers []int }
//
//	sum := selector.NewLastCall(selector.Options[State, int]{
//	    Inputs: []selector.Input[State]{
//	        selector.One(func(s State) []int { return s.Numbers }),
//	    },
//	    Combine: selector.Combine1(func(xs []int) int {
//	        total := 0
//	        for _, x := range xs {
//	            total += x
//	        }
//	        return total
//	    }),
//	})
//	v, _ := sum.Select(State{Numbers: []int{1, 2, 3, 4, 5}}) // 15
package selector
