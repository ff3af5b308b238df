package renderer

import (
	"github.com/Gamewolf3000/steelgear/core/category"
	"github.com/Gamewolf3000/steelgear/core/framecomp"
	"github.com/Gamewolf3000/steelgear/core/rescomp"
	"github.com/Gamewolf3000/steelgear/core/suballoc"
	"github.com/Gamewolf3000/steelgear/driver"
)

// categoryCreation is the payload framecomp replays against every
// frame slot's rescomp.Component when a resource is added to a
// Category.
type categoryCreation struct {
	resource  any
	size      int64
	alignment int64
	state     driver.Layout
}

// Category is a category registered through Renderer.CreateCategory: N
// frame-multiplexed copies of a rescomp.Component, one per frame slot,
// advanced together by a framecomp.Component so a resource added while
// frame i is active is replayed into every other slot as SwapFrame
// advances, matching the frame-multiplexed component model every other
// per-frame resource in this module follows.
type Category struct {
	identifier category.Identifier
	comps      []*rescomp.Component
	fc         *framecomp.Component[categoryCreation]
}

// CreateCategory builds a Category backed by allocator (the Renderer's
// local persistent suballocator if allocator is nil), registers its
// currently active copy under identifier in the Renderer's category
// registry, and returns it so the caller can add resources and,
// through the Renderer's per-frame Hooks, have it advanced and
// re-registered automatically on every SwapFrame.
func (r *Renderer) CreateCategory(identifier category.Identifier, allocator *suballoc.Allocator) (*Category, error) {
	if allocator == nil {
		allocator = r.localPool
	}
	comps := make([]*rescomp.Component, r.frames)
	for i := range comps {
		comp, err := rescomp.New(allocator)
		if err != nil {
			return nil, err
		}
		comps[i] = comp
	}

	cat := &Category{identifier: identifier, comps: comps}
	cat.fc = framecomp.New[categoryCreation](r.frames,
		func(frameIndex int, creation categoryCreation) (any, error) {
			return comps[frameIndex].Add(creation.resource, creation.size, creation.alignment, creation.state)
		},
		func(frameIndex int, index int) error {
			return comps[frameIndex].Remove(rescomp.Index(index))
		},
	)

	r.categories.Register(identifier, cat.Active())
	r.frameCategories = append(r.frameCategories, cat)
	return cat, nil
}

// Add places resource in the active frame slot's copy (queuing the
// same placement to be replayed into the other slots), returning the
// index it was created at.
func (c *Category) Add(resource any, size, alignment int64, state driver.Layout) (rescomp.Index, error) {
	idx, err := c.fc.Create(categoryCreation{resource: resource, size: size, alignment: alignment, state: state})
	if err != nil {
		return 0, err
	}
	return idx.(rescomp.Index), nil
}

// Remove frees index from the active frame slot's copy, queuing the
// same removal for the other slots.
func (c *Category) Remove(index rescomp.Index) error {
	return c.fc.RemoveComponent(int(index))
}

// Active returns the rescomp.Component backing the currently active
// frame slot — the same instance registered under c.identifier in the
// category registry.
func (c *Category) Active() *rescomp.Component { return c.comps[c.fc.ActiveFrame()] }

// swapFrame advances the category to the next frame slot and
// re-registers the new active copy under its identifier, so registry
// lookups always resolve to the slot the render queue is about to
// record against.
func (c *Category) swapFrame(registry *category.Registry) error {
	if err := c.fc.SwapFrame(); err != nil {
		return err
	}
	registry.Register(c.identifier, c.Active())
	return nil
}
