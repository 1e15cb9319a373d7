// Package memo wraps pure functions with a cache.
//
// Three forms are provided:
//
//   - Func[K, V] memoizes a single-argument function by key value. Each
//     distinct key is computed at most once; entries live until Forget or
//     Reset.
//
//   - Ref[T, V] memoizes a function of *T by pointer identity. Entries are
//     held weakly and disappear once the key is garbage collected.
//
//   - LastCall[V] memoizes a multi-argument function against its most recent
//     call only. Arguments are compared positionally with an equal.Func
//     (equal.Identity by default); any mismatch replaces the single entry.
//     A hit returns the stored result without looking further, so values the
//     function reads through closures are not re-examined until the
//     arguments change.
//
// A computation that returns an error (or panics) is propagated unchanged
// and leaves the memo exactly as it was before the call.
//
// Every call emits a Debug-level zap trace ("memo hit" / "memo miss") on
// Options.Logger and the matching Hit/Miss signal on Options.Metrics.
//
//	double := memo.New(func(x int) (int, error) { return x * 2, nil }, memo.Options{Name: "double"})
//	v, _ := double.Call(21) // computes
//	v, _ = double.Call(21)  // cached
package memo
