package framecomp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type creation struct{ size int }

func TestActiveFrameStartsAtFramesMinusOne(t *testing.T) {
	c := New[creation](3, func(int, creation) (any, error) { return "r", nil }, func(int, int) error { return nil })
	assert.Equal(t, 2, c.ActiveFrame())
	require.NoError(t, c.SwapFrame())
	assert.Equal(t, 0, c.ActiveFrame())
}

func TestCreateReplaysAcrossFrames(t *testing.T) {
	var created []int
	c := New[creation](3,
		func(frame int, cr creation) (any, error) { created = append(created, frame); return frame, nil },
		func(int, int) error { return nil },
	)
	_, err := c.Create(creation{size: 4})
	require.NoError(t, err)
	assert.Equal(t, []int{2}, created)

	require.NoError(t, c.SwapFrame())
	assert.Equal(t, []int{2, 0}, created)

	require.NoError(t, c.SwapFrame())
	assert.Equal(t, []int{2, 0, 1}, created)

	// After Frames-1 replays, the stored op is consumed: a third swap
	// must not replay it again.
	created = nil
	require.NoError(t, c.SwapFrame())
	assert.Empty(t, created)
}

func TestRemoveAppliesImmediatelyAndReplays(t *testing.T) {
	var removedOn []int
	c := New[creation](2,
		func(int, creation) (any, error) { return "r", nil },
		func(frame int, idx int) error { removedOn = append(removedOn, frame); return nil },
	)
	require.NoError(t, c.RemoveComponent(5))
	assert.Equal(t, []int{1}, removedOn) // active frame starts at Frames-1 = 1

	require.NoError(t, c.SwapFrame())
	assert.Equal(t, []int{1, 0}, removedOn)
}

func TestInitializationBarriersDrain(t *testing.T) {
	c := New[creation](1, func(int, creation) (any, error) { return "res", nil }, func(int, int) error { return nil })
	_, err := c.Create(creation{})
	require.NoError(t, err)
	barriers := c.GetInitializationBarriers()
	assert.Len(t, barriers, 1)
	assert.Empty(t, c.GetInitializationBarriers())
}
