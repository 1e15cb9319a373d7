package memo

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/memokit/cache"
)

type result struct{ Data int }

func observed() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}

// memoize(11) with x => {data: x+5}: the first call misses and returns
// {data: 16}; the second returns the same value without another miss.
func TestFunc_ComputesOncePerKey(t *testing.T) {
	t.Parallel()

	log, logs := observed()
	calls := 0
	f := New(func(x int) (*result, error) {
		calls++
		return &result{Data: x + 5}, nil
	}, Options{Name: "plus5", Logger: log})

	first, err := f.Call(11)
	require.NoError(t, err)
	assert.Equal(t, 16, first.Data)
	assert.Equal(t, 1, logs.FilterMessage("memo miss").Len())

	second, err := f.Call(11)
	require.NoError(t, err)
	assert.Same(t, first, second, "a hit returns the stored value")
	assert.Equal(t, 1, logs.FilterMessage("memo miss").Len())
	assert.Equal(t, 1, logs.FilterMessage("memo hit").Len())
	assert.Equal(t, 1, calls)

	entry := logs.FilterMessage("memo hit").All()[0]
	assert.Equal(t, "plus5", entry.ContextMap()["name"])
}

func TestFunc_DistinctKeys(t *testing.T) {
	t.Parallel()

	calls := map[string]int{}
	f := New(func(s string) (int, error) {
		calls[s]++
		return len(s), nil
	}, Options{})

	a, _ := f.Call("a")
	bb, _ := f.Call("bb")
	a2, _ := f.Call("a")

	assert.Equal(t, 1, a)
	assert.Equal(t, 2, bb)
	assert.Equal(t, 1, a2)
	assert.Equal(t, map[string]int{"a": 1, "bb": 1}, calls)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, cache.Stats{Hits: 1, Misses: 2}, f.Stats())
}

func TestFunc_FailureIsNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	fail := true
	f := New(func(k int) (int, error) {
		if fail {
			return 0, boom
		}
		return k, nil
	}, Options{})

	_, err := f.Call(3)
	assert.Same(t, boom, err)
	assert.False(t, f.Has(3), "no cache poisoning on failure")

	fail = false
	v, err := f.Call(3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.True(t, f.Has(3))
}

func TestFunc_PanicIsNotCached(t *testing.T) {
	t.Parallel()

	f := New(func(int) (int, error) { panic("kaboom") }, Options{})
	assert.PanicsWithValue(t, "kaboom", func() { _, _ = f.Call(1) })
	assert.False(t, f.Has(1))
}

func TestFunc_ForgetAndReset(t *testing.T) {
	t.Parallel()

	calls := 0
	f := New(func(k int) (int, error) {
		calls++
		return k, nil
	}, Options{})

	_, _ = f.Call(1)
	_, _ = f.Call(2)
	assert.True(t, f.Forget(1))
	_, _ = f.Call(1)
	assert.Equal(t, 3, calls)

	f.Reset()
	assert.Zero(t, f.Len())
	_, _ = f.Call(2)
	assert.Equal(t, 4, calls)
}

func TestFunc_ConcurrentMissComputesOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	f := New(func(k string) (string, error) {
		calls.Add(1)
		time.Sleep(5 * time.Millisecond)
		return "v:" + k, nil
	}, Options{})

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		g.Go(func() error {
			v, err := f.Call("k")
			if err != nil {
				return err
			}
			if v != "v:k" {
				return fmt.Errorf("got %q", v)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.EqualValues(t, 1, calls.Load())
}

type state struct {
	Value int
	pad   [24]byte
}

func TestRef_IdentityKeys(t *testing.T) {
	t.Parallel()

	log, logs := observed()
	calls := 0
	r := NewRef(func(s *state) (int, error) {
		calls++
		return s.Value + 5, nil
	}, Options{Name: "ref", Logger: log})

	a, b := &state{Value: 1}, &state{Value: 1}
	va, err := r.Call(a)
	require.NoError(t, err)
	vb, err := r.Call(b)
	require.NoError(t, err)
	_, _ = r.Call(a)

	assert.Equal(t, 6, va)
	assert.Equal(t, 6, vb)
	assert.Equal(t, 2, calls, "structurally equal but distinct keys are separate entries")
	assert.Equal(t, 2, logs.FilterMessage("memo miss").Len())
	assert.True(t, r.Has(a))
	assert.True(t, r.Forget(a))
	assert.False(t, r.Has(a))
	assert.Equal(t, cache.Stats{Hits: 1, Misses: 2}, r.Stats())
}

func TestRef_RejectsNil(t *testing.T) {
	t.Parallel()

	r := NewRef(func(s *state) (int, error) { return s.Value, nil }, Options{})
	_, err := r.Call(nil)
	assert.ErrorIs(t, err, cache.ErrInvalidKeyType)
}

func TestRef_FailureIsNotCached(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := NewRef(func(*state) (int, error) { return 0, boom }, Options{})
	k := &state{}
	_, err := r.Call(k)
	assert.ErrorIs(t, err, boom)
	assert.False(t, r.Has(k))
}
