package suballoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gamewolf3000/steelgear/core/heap"
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

func newTestAllocator(t *testing.T, blockSize int64) *Allocator {
	t.Helper()
	p, err := heap.New(&fakeGPU{}, heap.Config{BlockSize: blockSize}, nil)
	require.NoError(t, err)
	a, err := New(p, arena.FirstFit, nil)
	require.NoError(t, err)
	return a
}

func TestAllocateWithinOneSlab(t *testing.T) {
	a := newTestAllocator(t, 1024)
	p1, err := a.Allocate(256, 16)
	require.NoError(t, err)
	p2, err := a.Allocate(256, 16)
	require.NoError(t, err)
	assert.Equal(t, p1.Heap, p2.Heap)
	assert.Equal(t, 1, a.SlabCount())
}

func TestAllocateGrowsToNewSlab(t *testing.T) {
	a := newTestAllocator(t, 128)
	p1, err := a.Allocate(128, 1)
	require.NoError(t, err)
	p2, err := a.Allocate(128, 1)
	require.NoError(t, err)
	assert.NotEqual(t, p1.Heap, p2.Heap)
	assert.Equal(t, 2, a.SlabCount())
}

func TestFreeReleasesBackToArena(t *testing.T) {
	a := newTestAllocator(t, 256)
	p, err := a.Allocate(128, 1)
	require.NoError(t, err)
	require.NoError(t, a.Free(p))

	p2, err := a.Allocate(256, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p2.Offset)
}

func TestFreeUnknownPlacement(t *testing.T) {
	a := newTestAllocator(t, 256)
	err := a.Free(Placement{Heap: &fakeHeap{size: 256}, Offset: 0, Size: 1})
	assert.Error(t, err)
}

func TestResetAll(t *testing.T) {
	a := newTestAllocator(t, 256)
	_, err := a.Allocate(256, 1)
	require.NoError(t, err)
	a.ResetAll()
	p, err := a.Allocate(256, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Offset)
}
