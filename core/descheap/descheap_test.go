package descheap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gamewolf3000/steelgear/core/category"
	"github.com/Gamewolf3000/steelgear/core/descalloc"
)

type fakeComponent struct {
	n         int
	kinds     map[descalloc.Kind]bool
}

func (f fakeComponent) NrOfDescriptors() int { return f.n }
func (f fakeComponent) HasDescriptorsOfType(k descalloc.Kind) bool { return f.kinds[k] }

type noopWriter struct{ calls int }

func (w *noopWriter) Copy(dstOffset int64, src any, count int64) { w.calls++ }

func TestActiveFrameStartsAtFramesMinusOne(t *testing.T) {
	h, err := New(3, 64, &noopWriter{}, nil)
	require.NoError(t, err)
	// Slot 2 of 3 is active before the first swap: its slab starts at 2*64.
	h.AddGlobalDescriptors("samplers", 1)
	assert.Equal(t, int64(128), h.GetGlobalOffset())
	h.SwapFrame()
	h.AddGlobalDescriptors("samplers", 1)
	assert.Equal(t, int64(0), h.GetGlobalOffset())
}

func TestAddCategoryDescriptorsRecordsOffsets(t *testing.T) {
	w := &noopWriter{}
	h, err := New(2, 64, w, nil)
	require.NoError(t, err)

	id := category.NewIdentifier(category.Texture, "gbuffer")
	comp := fakeComponent{n: 4, kinds: map[descalloc.Kind]bool{descalloc.SRV: true}}
	h.AddCategoryDescriptors(id, comp, "src")

	off, err := h.GetCategoryHeapOffset(id, descalloc.SRV)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, off, int64(0))

	_, err = h.GetCategoryHeapOffset(id, descalloc.CBV)
	assert.Error(t, err)

	// The copy into the GPU-visible slab is deferred until the frame's
	// staged descriptors are explicitly uploaded.
	assert.Equal(t, 0, w.calls)
	assert.Equal(t, 1, h.PendingUploadCount())
	h.UploadCurrentFrameHeap()
	assert.Equal(t, 1, w.calls)
	assert.Equal(t, 0, h.PendingUploadCount())
}

func TestUploadCurrentFrameHeapBatchesMultipleStagedRanges(t *testing.T) {
	w := &noopWriter{}
	h, err := New(2, 64, w, nil)
	require.NoError(t, err)

	id := category.NewIdentifier(category.Texture, "gbuffer")
	comp := fakeComponent{n: 4, kinds: map[descalloc.Kind]bool{descalloc.SRV: true, descalloc.UAV: true}}
	h.AddCategoryDescriptors(id, comp, "src")
	h.AddGlobalDescriptors("samplers", 2)

	require.Equal(t, 3, h.PendingUploadCount())
	assert.Equal(t, 0, w.calls)

	h.UploadCurrentFrameHeap()
	assert.Equal(t, 3, w.calls)
	assert.Equal(t, 0, h.PendingUploadCount())

	// A second call with nothing newly staged is a no-op.
	h.UploadCurrentFrameHeap()
	assert.Equal(t, 3, w.calls)
}

func TestGrowthRetiresOldRange(t *testing.T) {
	w := &noopWriter{}
	h, err := New(3, 4, w, nil)
	require.NoError(t, err)

	id := category.NewIdentifier(category.Texture, "big")
	comp := fakeComponent{n: 8, kinds: map[descalloc.Kind]bool{descalloc.SRV: true}}
	h.AddCategoryDescriptors(id, comp, "src")

	assert.Equal(t, 1, h.RetiringCount())
	assert.Equal(t, int64(8), h.DescriptorsPerFrame())
}

func TestSwapFrameAgesOutRetiredRanges(t *testing.T) {
	w := &noopWriter{}
	h, err := New(2, 2, w, nil)
	require.NoError(t, err)

	id := category.NewIdentifier(category.Texture, "big")
	comp := fakeComponent{n: 4, kinds: map[descalloc.Kind]bool{descalloc.SRV: true}}
	h.AddCategoryDescriptors(id, comp, "src")
	require.Equal(t, 1, h.RetiringCount())

	h.SwapFrame()
	assert.Equal(t, 1, h.RetiringCount())
	h.SwapFrame()
	assert.Equal(t, 0, h.RetiringCount())
}
