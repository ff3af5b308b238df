package stablevec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddRemoveReuse(t *testing.T) {
	v := New[int]()
	i0 := v.Add(10)
	i1 := v.Add(20)
	i2 := v.Add(30)
	assert.Equal(t, 0, i0)
	assert.Equal(t, 1, i1)
	assert.Equal(t, 2, i2)
	assert.Equal(t, 3, v.ActiveSize())

	assert.True(t, v.Remove(i1))
	assert.False(t, v.CheckIfActive(i1))
	assert.Equal(t, 2, v.ActiveSize())

	i3 := v.Add(40)
	assert.Equal(t, i1, i3, "freed index should be reused")
	assert.Equal(t, 3, v.ActiveSize())
}

func TestAddAtSplicesMidChain(t *testing.T) {
	v := New[int]()
	v.Add(1)
	v.Add(2)
	v.Add(3)
	assert.True(t, v.Remove(0))
	assert.True(t, v.Remove(1))
	assert.True(t, v.Remove(2))

	// Free list head is now 2 -> 1 -> 0. Splice out the middle entry.
	assert.True(t, v.AddAt(1, 99))
	val, ok := v.At(1)
	assert.True(t, ok)
	assert.Equal(t, 99, val)

	// Remaining free indices (2 and 0) must still be usable.
	a := v.Add(7)
	b := v.Add(8)
	assert.ElementsMatch(t, []int{0, 2}, []int{a, b})
}

func TestExpandThreadsAscendingOrder(t *testing.T) {
	v := New[int]()
	v.Expand(3)
	assert.Equal(t, 3, v.TotalSize())
	assert.Equal(t, 0, v.ActiveSize())

	i0 := v.Add(1)
	i1 := v.Add(2)
	i2 := v.Add(3)
	assert.ElementsMatch(t, []int{0, 1, 2}, []int{i0, i1, i2})
}

func TestRemoveInvalidIndex(t *testing.T) {
	v := New[int]()
	v.Add(1)
	assert.False(t, v.Remove(5))
	assert.False(t, v.Remove(0+1))
}

func TestClear(t *testing.T) {
	v := New[string]()
	v.Add("a")
	v.Add("b")
	v.Clear()
	assert.Equal(t, 0, v.ActiveSize())
	assert.Equal(t, 0, v.TotalSize())
}
