package descalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	srv, uav, rtv, dsv, cbv int
	lastResource            any
}

func (w *recordingWriter) WriteSRV(slot int, resource any, desc any) {
	w.srv++
	w.lastResource = resource
}
func (w *recordingWriter) WriteUAV(slot int, resource any, desc any, counter any) { w.uav++ }
func (w *recordingWriter) WriteRTV(slot int, resource any, desc any)              { w.rtv++ }
func (w *recordingWriter) WriteDSV(slot int, resource any, desc any)              { w.dsv++ }
func (w *recordingWriter) WriteCBV(slot int, desc any)                           { w.cbv++ }

func TestAllocateAndReallocate(t *testing.T) {
	w := &recordingWriter{}
	a, err := New(w)
	require.NoError(t, err)

	idx, err := a.AllocateSRV("resourceA", "descA", -1)
	require.NoError(t, err)
	assert.Equal(t, 1, w.srv)

	require.NoError(t, a.ReallocateView(idx, "resourceB"))
	assert.Equal(t, 2, w.srv)
	assert.Equal(t, "resourceB", w.lastResource)
	assert.Equal(t, 1, a.NrOfStoredDescriptors())
}

func TestForcedSlotAlignment(t *testing.T) {
	w := &recordingWriter{}
	a, err := New(w)
	require.NoError(t, err)

	idx, err := a.AllocateSRV("r", nil, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, idx)
}

func TestDeallocateThenReuse(t *testing.T) {
	w := &recordingWriter{}
	a, err := New(w)
	require.NoError(t, err)

	idx, err := a.AllocateCBV(nil, -1)
	require.NoError(t, err)
	require.NoError(t, a.DeallocateDescriptor(idx))
	assert.Equal(t, 0, a.NrOfStoredDescriptors())

	idx2, err := a.AllocateCBV(nil, -1)
	require.NoError(t, err)
	assert.Equal(t, idx, idx2)
}

func TestReallocateCBVUnsupported(t *testing.T) {
	w := &recordingWriter{}
	a, err := New(w)
	require.NoError(t, err)

	idx, err := a.AllocateCBV(nil, -1)
	require.NoError(t, err)
	err = a.ReallocateView(idx, "anything")
	assert.Error(t, err)
}

func TestGetDescriptorHandleNotFound(t *testing.T) {
	w := &recordingWriter{}
	a, err := New(w)
	require.NoError(t, err)
	_, err = a.GetDescriptorHandle(42)
	assert.Error(t, err)
}
