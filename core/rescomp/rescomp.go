// Package rescomp implements the resource component: a stable-index
// collection of GPU resources, each placed within a heap via suballoc
// and optionally exposed through one or more descalloc descriptor
// allocators (one per view kind). Add allocates no descriptors: a view
// allocated by the caller at the resource's Index (a forced slot) keeps
// the descriptor index equal to the resource index, and Remove frees
// the slot at that index in every registered allocator.
package rescomp

import (
	"github.com/pkg/errors"

	"github.com/Gamewolf3000/steelgear/core/descalloc"
	"github.com/Gamewolf3000/steelgear/core/errs"
	"github.com/Gamewolf3000/steelgear/core/suballoc"
	"github.com/Gamewolf3000/steelgear/driver"
	"github.com/Gamewolf3000/steelgear/internal/stablevec"
)

// Index identifies a resource within a Component. Indices are stable:
// they never change for the lifetime of the resource they refer to.
type Index int

type entry struct {
	placement suballoc.Placement
	resource  any
	state     driver.Layout
}

// Component is a stable-index collection of placed GPU resources of a
// single kind (e.g. all Texture2D resources used by one system), with
// up to one descriptor allocator per view kind.
type Component struct {
	allocator   *suballoc.Allocator
	resources   *stablevec.StableVec[entry]
	descriptors map[descalloc.Kind]*descalloc.Allocator
}

// New creates a Component that sub-allocates placements through
// allocator.
func New(allocator *suballoc.Allocator) (*Component, error) {
	if allocator == nil {
		return nil, errors.Wrap(errs.InvalidConfiguration, "rescomp: nil allocator")
	}
	return &Component{
		allocator:   allocator,
		resources:   stablevec.New[entry](),
		descriptors: make(map[descalloc.Kind]*descalloc.Allocator),
	}, nil
}

// AddDescriptorKind registers a descriptor allocator for the given view
// kind. Add does not allocate slots in it; a resource's CBV/SRV/UAV/
// RTV/DSV slots are addressable by its single Index only where the
// caller allocates each view at that Index.
func (c *Component) AddDescriptorKind(kind descalloc.Kind, a *descalloc.Allocator) {
	c.descriptors[kind] = a
}

// Add places resource using size/alignment bytes from the component's
// allocator, records initialState as its current resource state, and
// returns its stable Index.
func (c *Component) Add(resource any, size, alignment int64, initialState driver.Layout) (Index, error) {
	placement, err := c.allocator.Allocate(size, alignment)
	if err != nil {
		return 0, err
	}
	idx := c.resources.Add(entry{placement: placement, resource: resource, state: initialState})
	return Index(idx), nil
}

// Remove frees the placement backing index and every descriptor slot
// registered for it, across all registered view kinds.
func (c *Component) Remove(index Index) error {
	e, ok := c.resources.At(int(index))
	if !ok {
		return errors.Wrapf(errs.NotFound, "rescomp: no resource at index %d", index)
	}
	if err := c.allocator.Free(e.placement); err != nil {
		return err
	}
	for _, d := range c.descriptors {
		// A resource need not have every registered view kind; ignore
		// NotFound for kinds it was never allocated in.
		_ = d.DeallocateDescriptor(int(index))
	}
	c.resources.Remove(int(index))
	return nil
}

// Resource returns the underlying driver resource stored at index.
func (c *Component) Resource(index Index) (any, error) {
	e, ok := c.resources.At(int(index))
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "rescomp: no resource at index %d", index)
	}
	return e.resource, nil
}

// Placement returns the heap placement backing index.
func (c *Component) Placement(index Index) (suballoc.Placement, error) {
	e, ok := c.resources.At(int(index))
	if !ok {
		return suballoc.Placement{}, errors.Wrapf(errs.NotFound, "rescomp: no resource at index %d", index)
	}
	return e.placement, nil
}

// CurrentState returns the resource's last-recorded state.
func (c *Component) CurrentState(index Index) (driver.Layout, error) {
	e, ok := c.resources.At(int(index))
	if !ok {
		return 0, errors.Wrapf(errs.NotFound, "rescomp: no resource at index %d", index)
	}
	return e.state, nil
}

// SetCurrentState overwrites the resource's recorded state.
func (c *Component) SetCurrentState(index Index, state driver.Layout) error {
	e, ok := c.resources.At(int(index))
	if !ok {
		return errors.Wrapf(errs.NotFound, "rescomp: no resource at index %d", index)
	}
	e.state = state
	c.resources.Set(int(index), e)
	return nil
}

// DescriptorHandle returns the descriptor handle of the given kind for
// index, if that kind has been registered for this component.
func (c *Component) DescriptorHandle(index Index, kind descalloc.Kind) (descalloc.Handle, error) {
	d, ok := c.descriptors[kind]
	if !ok {
		return descalloc.Handle{}, errors.Wrapf(errs.NotFound, "rescomp: component has no descriptor kind %d", kind)
	}
	return d.GetDescriptorHandle(int(index))
}

// HasDescriptorsOfType reports whether this component has any
// descriptor allocator registered for kind.
func (c *Component) HasDescriptorsOfType(kind descalloc.Kind) bool {
	_, ok := c.descriptors[kind]
	return ok
}

// NrOfDescriptors returns the number of active resources. It does not
// count descriptor slots; it equals the slots in use per registered
// kind only where a view has been allocated at every active resource's
// Index.
func (c *Component) NrOfDescriptors() int { return c.resources.ActiveSize() }

// ActiveCount returns the number of active resources in the component.
func (c *Component) ActiveCount() int { return c.resources.ActiveSize() }
