package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateDeallocateCoalesce(t *testing.T) {
	a := New(1024, FirstFit)
	alloc1, err := a.Allocate(256, 16)
	require.NoError(t, err)
	assert.Equal(t, int64(0), alloc1.Offset)

	alloc2, err := a.Allocate(256, 16)
	require.NoError(t, err)
	assert.Equal(t, int64(256), alloc2.Offset)

	require.NoError(t, a.Deallocate(alloc1.Offset))
	require.NoError(t, a.Deallocate(alloc2.Offset))

	// Both neighboring frees should have coalesced back into one chunk.
	chunks := a.Chunks()
	require.Len(t, chunks, 1)
	assert.True(t, chunks[0].Free)
	assert.Equal(t, int64(1024), chunks[0].Size)
}

func TestAllocateRespectsAlignment(t *testing.T) {
	a := New(1024, FirstFit)
	_, err := a.Allocate(10, 16)
	require.NoError(t, err)
	alloc, err := a.Allocate(32, 64)
	require.NoError(t, err)
	assert.Equal(t, int64(0), alloc.Offset%64)
}

func TestAllocateOutOfSpace(t *testing.T) {
	a := New(128, FirstFit)
	_, err := a.Allocate(128, 1)
	require.NoError(t, err)
	_, err = a.Allocate(1, 1)
	assert.Error(t, err)
}

func TestBestFitPrefersTightestChunk(t *testing.T) {
	a := New(1024, BestFit)
	big, err := a.Allocate(512, 1)
	require.NoError(t, err)
	small, err := a.Allocate(64, 1)
	require.NoError(t, err)
	require.NoError(t, a.Deallocate(big.Offset))
	// Free chunks now: [0,512) free, then occupied small, then [576,1024) free.
	alloc, err := a.Allocate(400, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), alloc.Offset, "best fit should choose the exact-ish leading chunk")
	_ = small
}

func TestWorstFitPrefersLargestChunk(t *testing.T) {
	a := New(1024, WorstFit)
	first, err := a.Allocate(100, 1)
	require.NoError(t, err)
	require.NoError(t, a.Deallocate(first.Offset))
	alloc, err := a.Allocate(50, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), alloc.Offset)
	assert.Equal(t, int64(924), a.LargestFree())
}

func TestDeallocateInvalidOffset(t *testing.T) {
	a := New(256, FirstFit)
	err := a.Deallocate(128)
	assert.Error(t, err)
}

func TestDeallocateAlreadyFree(t *testing.T) {
	a := New(256, FirstFit)
	alloc, err := a.Allocate(64, 1)
	require.NoError(t, err)
	require.NoError(t, a.Deallocate(alloc.Offset))
	err = a.Deallocate(alloc.Offset)
	assert.Error(t, err)
}
