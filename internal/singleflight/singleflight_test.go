package singleflight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestGroup_Coalesces(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	var calls atomic.Int64
	release := make(chan struct{})

	var eg errgroup.Group
	var ready sync.WaitGroup
	const n = 32
	ready.Add(n)
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			ready.Done()
			v, err, _ := g.Do("k", func() (int, error) {
				calls.Add(1)
				<-release
				return 7, nil
			})
			if err != nil {
				return err
			}
			if v != 7 {
				return errors.New("unexpected value")
			}
			return nil
		})
	}
	ready.Wait()
	time.Sleep(10 * time.Millisecond) // let followers join the flight
	close(release)
	require.NoError(t, eg.Wait())
	assert.LessOrEqual(t, calls.Load(), int64(n))
	assert.GreaterOrEqual(t, calls.Load(), int64(1))
}

func TestGroup_ErrorIsReturned(t *testing.T) {
	t.Parallel()

	var g Group[int, int]
	boom := errors.New("boom")
	_, err, shared := g.Do(1, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, shared)

	// a failed flight is not remembered
	v, err, _ := g.Do(1, func() (int, error) { return 5, nil })
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestGroup_PanicReleasesFollowers(t *testing.T) {
	t.Parallel()

	var g Group[string, int]
	started := make(chan struct{})
	release := make(chan struct{})

	followerDone := make(chan any, 1)
	go func() {
		defer func() { followerDone <- recover() }()
		<-started
		close(release)
		g.Do("k", func() (int, error) { panic("follower ran its own flight") })
	}()

	leader := func() (r any) {
		defer func() { r = recover() }()
		g.Do("k", func() (int, error) {
			close(started)
			<-release
			time.Sleep(50 * time.Millisecond)
			panic("kaboom")
		})
		return nil
	}()
	assert.Equal(t, "kaboom", leader)

	select {
	case r := <-followerDone:
		// leader and follower observe the same unwrapped value
		assert.Equal(t, "kaboom", r)
	case <-time.After(2 * time.Second):
		t.Fatal("follower blocked after leader panic")
	}
}

func TestGroup_PanicValueIsNotWrapped(t *testing.T) {
	t.Parallel()

	var g Group[int, int]
	boom := errors.New("boom")
	r := func() (r any) {
		defer func() { r = recover() }()
		g.Do(1, func() (int, error) { panic(boom) })
		return nil
	}()
	assert.Same(t, boom, r)

	// the panicked flight is released, the next call runs fresh
	v, err, shared := g.Do(1, func() (int, error) { return 3, nil })
	require.NoError(t, err)
	assert.Equal(t, 3, v)
	assert.False(t, shared)
}
