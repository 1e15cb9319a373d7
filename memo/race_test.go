package memo

import (
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// A mixed workload of concurrent Call/Forget/Reset on random keys.
// Should pass under `-race` without detector reports.
func TestRace_Func(t *testing.T) {
	f := New(func(k string) (int, error) { return len(k), nil }, Options{Shards: 8})

	workers := 4 * runtime.GOMAXPROCS(0)
	deadline := time.Now().Add(500 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(1_000))
				switch r.Intn(100) {
				case 0: // ~1% — Reset
					f.Reset()
				case 1, 2, 3, 4, 5: // ~5% — Forget
					f.Forget(k)
				default:
					v, err := f.Call(k)
					if err != nil || v != len(k) {
						t.Errorf("Call(%q) = %d, %v", k, v, err)
						return
					}
				}
			}
		}(w)
	}
	wg.Wait()
}

// Concurrent LastCall callers never observe a result for other arguments.
func TestRace_LastCall(t *testing.T) {
	m := NewLastCall(func(args ...any) (int, error) {
		return args[0].(int) * 2, nil
	}, Options{})

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1_000; i++ {
				x := (id + i) % 3
				v, err := m.Call(x)
				assert.NoError(t, err)
				assert.Equal(t, x*2, v)
			}
		}(w)
	}
	wg.Wait()
}
