// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// MemoryInfo describes the properties of a Heap to be
// created.
type MemoryInfo struct {
	// Size is the size of the heap in bytes.
	Size int64
	// Visible indicates whether the heap's memory must be
	// host visible. Non-visible heaps may only back
	// resources accessed exclusively by the GPU.
	Visible bool
	// Alignment is the minimum alignment, in bytes, that
	// the implementation requires for resources placed in
	// the heap. It is read back after creation since some
	// drivers round it up to a hardware-mandated value.
	Alignment int64
}

// Heap is the interface that defines an explicit memory
// heap. A Heap has a fixed size set at creation time;
// resources are placed at caller-chosen offsets within it
// (see the suballoc package, which tracks free space).
// Multiple placed resources may alias the same heap bytes
// only if the caller has itself ensured their lifetimes do
// not overlap; the driver does not validate this.
type Heap interface {
	Destroyer

	// Size returns the size of the heap in bytes.
	Size() int64

	// Alignment returns the minimum placement alignment
	// required by the implementation.
	Alignment() int64

	// Visible returns whether the heap is host visible.
	Visible() bool

	// NewPlacedBuffer creates a buffer whose storage is the
	// byte range [offset, offset+size) of the heap.
	NewPlacedBuffer(offset, size int64, usg Usage) (Buffer, error)

	// NewPlacedImage creates an image whose storage begins
	// at the given offset within the heap.
	NewPlacedImage(offset int64, pf PixelFmt, size Dim3D, layers, levels, samples int, usg Usage) (Image, error)
}

// PlacedResource is implemented by resources created
// through Heap.NewPlacedBuffer/NewPlacedImage. It exposes
// the placement that backs the resource, so that a
// suballocator can be told to reclaim it on Destroy.
type PlacedResource interface {
	// HeapOffset returns the byte offset of the resource
	// within its backing heap.
	HeapOffset() int64

	// HeapSize returns the number of bytes the resource
	// occupies within its backing heap.
	HeapSize() int64
}
