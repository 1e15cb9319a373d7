package cache

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// countingMetrics records every signal; safe for concurrent use.
type countingMetrics struct {
	hits, misses, cleared, collected atomic.Int64
	size                             atomic.Int64
}

func (m *countingMetrics) Hit()  { m.hits.Add(1) }
func (m *countingMetrics) Miss() { m.misses.Add(1) }
func (m *countingMetrics) Evict(r EvictReason) {
	if r == EvictCollected {
		m.collected.Add(1)
		return
	}
	m.cleared.Add(1)
}
func (m *countingMetrics) Size(n int) { m.size.Store(int64(n)) }

func TestValues_HasGetSetDelete(t *testing.T) {
	t.Parallel()

	c := NewValues[string, int](Options{})

	assert.False(t, c.Has("a"))
	_, err := c.Get("a")
	require.ErrorIs(t, err, ErrNotFound)

	c.Set("a", 1)
	assert.True(t, c.Has("a"))
	v, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	c.Set("a", 11) // overwrite
	v, _ = c.Get("a")
	assert.Equal(t, 11, v)
	assert.Equal(t, 1, c.Len())

	assert.True(t, c.Delete("a"))
	assert.False(t, c.Delete("a"))
	assert.False(t, c.Has("a"))
}

func TestValues_DistinctKeysAreIndependent(t *testing.T) {
	t.Parallel()

	c := NewValues[int, string](Options{Shards: 4})
	c.Set(1, "one")
	c.Set(2, "two")

	v1, _ := c.Get(1)
	v2, _ := c.Get(2)
	assert.Equal(t, "one", v1)
	assert.Equal(t, "two", v2)

	c.Delete(1)
	assert.True(t, c.Has(2))
}

func TestValues_StructKeysCompareByValue(t *testing.T) {
	t.Parallel()

	type key struct {
		a int
		b string
	}
	c := NewValues[key, int](Options{})
	c.Set(key{1, "x"}, 5)
	assert.True(t, c.Has(key{1, "x"}), "equal struct keys share an entry")
	assert.False(t, c.Has(key{1, "y"}))
}

func TestValues_ClearAndMetrics(t *testing.T) {
	t.Parallel()

	m := &countingMetrics{}
	c := NewValues[int, int](Options{Metrics: m})
	for i := 0; i < 10; i++ {
		c.Set(i, i)
	}
	assert.EqualValues(t, 10, m.size.Load())

	c.Clear()
	assert.Zero(t, c.Len())
	assert.EqualValues(t, 10, m.cleared.Load())
	assert.EqualValues(t, 0, m.size.Load())
}

func TestValues_GetOrCompute_RunsOncePerKey(t *testing.T) {
	t.Parallel()

	m := &countingMetrics{}
	c := NewValues[int, int](Options{Metrics: m})
	calls := 0
	fn := func(k int) (int, error) {
		calls++
		return k + 5, nil
	}

	v, hit, err := c.GetOrCompute(11, fn)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 16, v)

	v, hit, err = c.GetOrCompute(11, fn)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 16, v)

	assert.Equal(t, 1, calls)
	assert.Equal(t, Stats{Hits: 1, Misses: 1}, c.Stats())
	assert.EqualValues(t, 1, m.hits.Load())
	assert.EqualValues(t, 1, m.misses.Load())
}

func TestValues_GetOrCompute_FailureLeavesNoEntry(t *testing.T) {
	t.Parallel()

	c := NewValues[string, int](Options{})
	boom := errors.New("boom")

	_, hit, err := c.GetOrCompute("k", func(string) (int, error) { return 0, boom })
	assert.Same(t, boom, err, "computation errors are returned unchanged")
	assert.False(t, hit)
	assert.False(t, c.Has("k"))

	assert.Panics(t, func() {
		c.GetOrCompute("p", func(string) (int, error) { panic("kaboom") })
	})
	assert.False(t, c.Has("p"))
}

// Concurrent misses on the same key are coalesced into one computation.
func TestValues_GetOrCompute_Concurrent(t *testing.T) {
	t.Parallel()

	c := NewValues[string, string](Options{})
	var calls atomic.Int64

	var g errgroup.Group
	for i := 0; i < 64; i++ {
		g.Go(func() error {
			v, _, err := c.GetOrCompute("k", func(k string) (string, error) {
				calls.Add(1)
				time.Sleep(5 * time.Millisecond)
				return "v:" + k, nil
			})
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
