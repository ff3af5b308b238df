// Package descheap implements the managed descriptor heap: a
// CPU-staging range of size P paired with a GPU-visible range of size
// N*P (one P-sized slab per frame in flight), growing by doubling when
// a category's descriptors no longer fit, and retiring the superseded
// GPU-visible range for exactly N SwapFrame calls before it is safe to
// release.
package descheap

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Gamewolf3000/steelgear/core/category"
	"github.com/Gamewolf3000/steelgear/core/descalloc"
	"github.com/Gamewolf3000/steelgear/core/errs"
)

// Writer performs the actual descriptor copy backing
// UploadCurrentFrameHeap;
// src is whatever the caller's descriptor source representation is
// (e.g. a CPU descriptor range handle).
type Writer interface {
	Copy(dstOffset int64, src any, count int64)
}

// ComponentOffset records where, within the per-frame descriptor range,
// a category's views of each kind begin. A field holds NoOffset if the
// category has no views of that kind.
type ComponentOffset struct {
	CBVOffset int64
	SRVOffset int64
	UAVOffset int64
}

// NoOffset marks a view kind the category does not use.
const NoOffset int64 = -1

type retiredRange struct {
	framesLeft int
}

// pendingWrite is one descriptor range staged into the CPU range by
// storeDescriptors, waiting for UploadCurrentFrameHeap to copy it into
// the current frame's GPU-visible slab.
type pendingWrite struct {
	dstOffset int64
	src       any
	n         int64
}

// ManagedHeap is a frame-multiplexed, growable descriptor range.
type ManagedHeap struct {
	writer Writer
	log    *zap.SugaredLogger

	frames      int
	activeFrame int

	descriptorsPerFrame int64
	currentOffset       int64
	globalOffset        int64

	componentOffsets map[category.Identifier]ComponentOffset
	retiring         []retiredRange
	pending          []pendingWrite
}

// New creates a ManagedHeap with the given number of frame slots and
// starting per-frame descriptor capacity.
func New(frames int, startDescriptorsPerFrame int64, w Writer, log *zap.SugaredLogger) (*ManagedHeap, error) {
	if frames <= 0 {
		return nil, errors.Wrap(errs.InvalidConfiguration, "descheap: frames must be positive")
	}
	if startDescriptorsPerFrame <= 0 {
		return nil, errors.Wrap(errs.InvalidConfiguration, "descheap: startDescriptorsPerFrame must be positive")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ManagedHeap{
		writer:              w,
		log:                 log,
		frames:              frames,
		activeFrame:         frames - 1,
		descriptorsPerFrame: startDescriptorsPerFrame,
		componentOffsets:    make(map[category.Identifier]ComponentOffset),
	}, nil
}

// storeDescriptors stages n descriptors from src into the CPU range at
// the current write cursor, doubling descriptorsPerFrame first (and
// retiring the GPU-visible range that sizing superseded) if there is
// not enough room left in the current frame's slab. The actual copy
// into the GPU-visible slab is deferred to UploadCurrentFrameHeap,
// which makes one Writer.Copy call per range staged since the last
// upload.
func (m *ManagedHeap) storeDescriptors(src any, n int64) {
	if m.descriptorsPerFrame-m.currentOffset < n {
		m.retiring = append(m.retiring, retiredRange{framesLeft: m.frames})
		m.descriptorsPerFrame *= 2
		m.log.Debugw("descriptor heap grew", "descriptorsPerFrame", m.descriptorsPerFrame)
	}
	m.pending = append(m.pending, pendingWrite{dstOffset: m.currentOffset, src: src, n: n})
	m.currentOffset += n
}

// UploadCurrentFrameHeap copies every descriptor range staged since the
// last upload from the CPU range into the current frame's GPU-visible
// slab, one Writer.Copy call per staged range, in staging order, then
// clears the staged set. It is a no-op if nothing was staged. Callers
// are expected to call this once per frame, after every
// AddCategoryDescriptors/AddGlobalDescriptors call for the frame has
// been made and before the frame's copy command list is submitted.
func (m *ManagedHeap) UploadCurrentFrameHeap() {
	if m.writer != nil {
		for _, w := range m.pending {
			m.writer.Copy(w.dstOffset, w.src, w.n)
		}
	}
	m.pending = nil
}

// PendingUploadCount returns the number of staged descriptor ranges not
// yet applied by UploadCurrentFrameHeap, for diagnostics and tests.
func (m *ManagedHeap) PendingUploadCount() int { return len(m.pending) }

// AddCategoryDescriptors copies every view kind component exposes into
// the current frame's CPU range, recording the offset each kind landed
// at. Matching the original implementation, the frame-start offset
// used for the recorded ComponentOffset is computed once, before any
// growth that this call might trigger; only the GPU-visible heap size
// (descriptorsPerFrame) reflects the growth, so a grow that happens
// mid-call does not retroactively change offsets already handed out
// this frame.
func (m *ManagedHeap) AddCategoryDescriptors(id category.Identifier, comp category.Component, src any) {
	heapStartCurrentFrame := m.descriptorsPerFrame * int64(m.activeFrame)
	off := ComponentOffset{CBVOffset: NoOffset, SRVOffset: NoOffset, UAVOffset: NoOffset}
	n := int64(comp.NrOfDescriptors())

	if comp.HasDescriptorsOfType(descalloc.CBV) {
		off.CBVOffset = m.currentOffset + heapStartCurrentFrame
		m.storeDescriptors(src, n)
	}
	if comp.HasDescriptorsOfType(descalloc.SRV) {
		off.SRVOffset = m.currentOffset + heapStartCurrentFrame
		m.storeDescriptors(src, n)
	}
	if comp.HasDescriptorsOfType(descalloc.UAV) {
		off.UAVOffset = m.currentOffset + heapStartCurrentFrame
		m.storeDescriptors(src, n)
	}
	m.componentOffsets[id] = off
}

// GetCategoryHeapOffset returns the GPU-visible heap offset for
// category id's view of the given kind, or a NotFound error if the
// category has no views of that kind.
func (m *ManagedHeap) GetCategoryHeapOffset(id category.Identifier, kind descalloc.Kind) (int64, error) {
	off, ok := m.componentOffsets[id]
	if !ok {
		return 0, errors.Wrapf(errs.NotFound, "descheap: no descriptors registered for category %q", id.Name)
	}
	var v int64
	switch kind {
	case descalloc.CBV:
		v = off.CBVOffset
	case descalloc.SRV:
		v = off.SRVOffset
	case descalloc.UAV:
		v = off.UAVOffset
	default:
		return 0, errors.Wrap(errs.Unsupported, "descheap: offset requested for unsupported view kind")
	}
	if v == NoOffset {
		return 0, errors.Wrapf(errs.NotFound, "descheap: category %q has no views of the requested kind", id.Name)
	}
	return v, nil
}

// AddGlobalDescriptors copies n descriptors not tied to any category
// (e.g. samplers, a per-pass constant buffer) into the current frame's
// range.
func (m *ManagedHeap) AddGlobalDescriptors(src any, n int64) {
	heapStartCurrentFrame := m.descriptorsPerFrame * int64(m.activeFrame)
	m.globalOffset = m.currentOffset + heapStartCurrentFrame
	m.storeDescriptors(src, n)
}

// GetGlobalOffset returns the offset recorded by the most recent
// AddGlobalDescriptors call.
func (m *ManagedHeap) GetGlobalOffset() int64 { return m.globalOffset }

// DescriptorsPerFrame returns the current per-frame slab size.
func (m *ManagedHeap) DescriptorsPerFrame() int64 { return m.descriptorsPerFrame }

// GPUHeapSize returns the total size of the GPU-visible range
// (descriptorsPerFrame * frame count).
func (m *ManagedHeap) GPUHeapSize() int64 { return m.descriptorsPerFrame * int64(m.frames) }

// SwapFrame advances to the next frame slot, resets the per-frame write
// cursor, and ages out any retired GPU-visible ranges that have now
// survived the full N-frame grace period.
func (m *ManagedHeap) SwapFrame() {
	m.activeFrame = (m.activeFrame + 1) % m.frames
	m.currentOffset = 0
	m.globalOffset = 0

	for i := 0; i < len(m.retiring); i++ {
		m.retiring[i].framesLeft--
		if m.retiring[i].framesLeft == 0 {
			m.retiring[i] = m.retiring[len(m.retiring)-1]
			m.retiring = m.retiring[:len(m.retiring)-1]
			i--
		}
	}
}

// RetiringCount returns the number of superseded GPU-visible ranges
// still within their grace period, for diagnostics and tests.
func (m *ManagedHeap) RetiringCount() int { return len(m.retiring) }
