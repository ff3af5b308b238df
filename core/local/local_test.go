package local

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gamewolf3000/steelgear/core/heap"
	"github.com/Gamewolf3000/steelgear/core/suballoc"
	"github.com/Gamewolf3000/steelgear/core/transient"
	"github.com/Gamewolf3000/steelgear/driver"
	"github.com/Gamewolf3000/steelgear/internal/arena"
)

type fakeHeap struct{ size int64 }

func (h *fakeHeap) Destroy()         {}
func (h *fakeHeap) Size() int64      { return h.size }
func (h *fakeHeap) Alignment() int64 { return 256 }
func (h *fakeHeap) Visible() bool    { return false }
func (h *fakeHeap) NewPlacedBuffer(offset, size int64, usg driver.Usage) (driver.Buffer, error) {
	return nil, nil
}
func (h *fakeHeap) NewPlacedImage(offset int64, pf driver.PixelFmt, size driver.Dim3D, layers, levels, samples int, usg driver.Usage) (driver.Image, error) {
	return nil, nil
}

type fakeGPU struct{ driver.GPU }

func (g *fakeGPU) NewHeap(info driver.MemoryInfo) (driver.Heap, error) {
	return &fakeHeap{size: info.Size}, nil
}

func newInner(t *testing.T) (*transient.Allocator, error) {
	t.Helper()
	p, err := heap.New(&fakeGPU{}, heap.Config{BlockSize: 1024}, nil)
	require.NoError(t, err)
	pool, err := suballoc.New(p, arena.FirstFit, nil)
	require.NoError(t, err)
	return transient.New(pool), nil
}

func TestActiveFrameStartsAtFramesMinusOne(t *testing.T) {
	a, err := New(3, func(int) (*transient.Allocator, error) { return newInner(t) })
	require.NoError(t, err)
	assert.Equal(t, 2, a.ActiveFrame())
}

func TestSlotsDoNotShareAllocations(t *testing.T) {
	a, err := New(2, func(int) (*transient.Allocator, error) { return newInner(t) })
	require.NoError(t, err)

	p1, err := a.Allocate(512, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p1.Offset)

	a.SwapFrame()
	p2, err := a.Allocate(512, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p2.Offset)
	assert.NotEqual(t, p1.Heap, p2.Heap, "each frame slot has its own backing pool")
}
