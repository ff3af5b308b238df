// Package descalloc implements a stable-index descriptor allocator over
// a CPU-visible descriptor range. Each slot remembers the view
// description it was created with, so ReallocateView can rebuild the view
// against a new underlying resource without the caller re-supplying the
// description.
package descalloc

import (
	"github.com/pkg/errors"

	"github.com/Gamewolf3000/steelgear/core/errs"
	"github.com/Gamewolf3000/steelgear/internal/stablevec"
)

// Kind identifies the type of view stored in a descriptor slot.
type Kind int

const (
	None Kind = iota
	SRV
	UAV
	RTV
	DSV
	CBV
)

// Writer is implemented by the backing descriptor heap (CPU-visible,
// owned either by a descalloc.Allocator or supplied externally). It
// performs the actual view write for a slot; descalloc only tracks
// which slots are occupied and what they were created with.
type Writer interface {
	// WriteSRV writes a shader-resource view of resource into slot,
	// using desc (which may be nil for a default view).
	WriteSRV(slot int, resource any, desc any)
	// WriteUAV writes an unordered-access view, optionally paired
	// with a counter resource.
	WriteUAV(slot int, resource any, desc any, counter any)
	// WriteRTV writes a render-target view.
	WriteRTV(slot int, resource any, desc any)
	// WriteDSV writes a depth-stencil view.
	WriteDSV(slot int, resource any, desc any)
	// WriteCBV writes a constant-buffer view. CBVs are not tied to a
	// specific resource reference at write time.
	WriteCBV(slot int, desc any)
}

type stored struct {
	kind     Kind
	desc     any
	resource any
	counter  any
}

// Handle references a single descriptor slot.
type Handle struct {
	Index int
}

// Allocator assigns stable indices to descriptor slots backed by a
// Writer, replaying a slot's stored description whenever the slot is
// reallocated against a different resource.
type Allocator struct {
	writer      Writer
	descriptors *stablevec.StableVec[stored]
}

// New creates an Allocator that writes views through w.
func New(w Writer) (*Allocator, error) {
	if w == nil {
		return nil, errors.Wrap(errs.InvalidConfiguration, "descalloc: nil Writer")
	}
	return &Allocator{writer: w, descriptors: stablevec.New[stored]()}, nil
}

func (a *Allocator) allocate(kind Kind, indexInHeap int, entry stored, write func(slot int)) (int, error) {
	var slot int
	if indexInHeap >= 0 {
		if !a.descriptors.AddAt(indexInHeap, entry) {
			// Slot may not exist yet; expand and retry.
			if indexInHeap >= a.descriptors.TotalSize() {
				a.descriptors.Expand(indexInHeap - a.descriptors.TotalSize() + 1)
			}
			if !a.descriptors.AddAt(indexInHeap, entry) {
				return 0, errors.Wrapf(errs.InvalidConfiguration, "descalloc: slot %d is already occupied", indexInHeap)
			}
		}
		slot = indexInHeap
	} else {
		slot = a.descriptors.Add(entry)
	}
	write(slot)
	return slot, nil
}

// AllocateSRV creates a shader-resource view of resource, optionally at
// a forced slot (indexInHeap >= 0) to keep descriptor indices aligned
// with a component's logical resource indices.
func (a *Allocator) AllocateSRV(resource any, desc any, indexInHeap int) (int, error) {
	return a.allocate(SRV, indexInHeap, stored{kind: SRV, desc: desc, resource: resource},
		func(slot int) { a.writer.WriteSRV(slot, resource, desc) })
}

// AllocateUAV creates an unordered-access view of resource, optionally
// paired with a counter resource.
func (a *Allocator) AllocateUAV(resource any, desc any, counter any, indexInHeap int) (int, error) {
	return a.allocate(UAV, indexInHeap, stored{kind: UAV, desc: desc, resource: resource, counter: counter},
		func(slot int) { a.writer.WriteUAV(slot, resource, desc, counter) })
}

// AllocateRTV creates a render-target view of resource.
func (a *Allocator) AllocateRTV(resource any, desc any, indexInHeap int) (int, error) {
	return a.allocate(RTV, indexInHeap, stored{kind: RTV, desc: desc, resource: resource},
		func(slot int) { a.writer.WriteRTV(slot, resource, desc) })
}

// AllocateDSV creates a depth-stencil view of resource.
func (a *Allocator) AllocateDSV(resource any, desc any, indexInHeap int) (int, error) {
	return a.allocate(DSV, indexInHeap, stored{kind: DSV, desc: desc, resource: resource},
		func(slot int) { a.writer.WriteDSV(slot, resource, desc) })
}

// AllocateCBV creates a constant-buffer view.
func (a *Allocator) AllocateCBV(desc any, indexInHeap int) (int, error) {
	return a.allocate(CBV, indexInHeap, stored{kind: CBV, desc: desc},
		func(slot int) { a.writer.WriteCBV(slot, desc) })
}

// ReallocateView rebuilds the view at index against a new resource,
// reusing the description the slot was originally created with. It
// reports an error if index does not hold a resource-bound view (CBVs
// cannot be reallocated this way, since they carry no resource).
func (a *Allocator) ReallocateView(index int, resource any) error {
	s, ok := a.descriptors.At(index)
	if !ok {
		return errors.Wrapf(errs.NotFound, "descalloc: no descriptor at index %d", index)
	}
	switch s.kind {
	case SRV:
		a.writer.WriteSRV(index, resource, s.desc)
	case UAV:
		a.writer.WriteUAV(index, resource, s.desc, s.counter)
	case RTV:
		a.writer.WriteRTV(index, resource, s.desc)
	case DSV:
		a.writer.WriteDSV(index, resource, s.desc)
	default:
		return errors.Wrapf(errs.Unsupported, "descalloc: cannot reallocate view of kind %d", s.kind)
	}
	s.resource = resource
	a.descriptors.Set(index, s)
	return nil
}

// DeallocateDescriptor frees the slot at index for reuse.
func (a *Allocator) DeallocateDescriptor(index int) error {
	if !a.descriptors.Remove(index) {
		return errors.Wrapf(errs.NotFound, "descalloc: no descriptor at index %d", index)
	}
	return nil
}

// GetDescriptorHandle returns a Handle identifying the slot at index.
func (a *Allocator) GetDescriptorHandle(index int) (Handle, error) {
	if !a.descriptors.CheckIfActive(index) {
		return Handle{}, errors.Wrapf(errs.NotFound, "descalloc: no descriptor at index %d", index)
	}
	return Handle{Index: index}, nil
}

// NrOfStoredDescriptors returns the number of active descriptor slots.
func (a *Allocator) NrOfStoredDescriptors() int { return a.descriptors.ActiveSize() }

// Reset discards every slot, freeing all storage.
func (a *Allocator) Reset() { a.descriptors.Clear() }
