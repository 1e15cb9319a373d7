package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShallow(t *testing.T) {
	t.Parallel()

	xs := []int{1, 2, 3}
	cp := Shallow(xs).([]int)
	cp[0] = 9
	assert.Equal(t, 1, xs[0])

	m := map[string]int{"a": 1}
	mc := Shallow(m).(map[string]int)
	mc["a"] = 2
	assert.Equal(t, 1, m["a"])

	var nilSlice []int
	assert.Nil(t, Shallow(nilSlice))
	assert.Nil(t, Shallow(nil))
	assert.Equal(t, 7, Shallow(7))

	// copies are one level deep only
	nested := [][]int{{1}}
	nc := Shallow(nested).([][]int)
	nc[0][0] = 5
	assert.Equal(t, 5, nested[0][0])
}
