// Package suballoc sub-allocates placed resources out of a growable set
// of explicit GPU heaps, using internal/arena to track free space within
// each heap.
package suballoc

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Gamewolf3000/steelgear/core/errs"
	"github.com/Gamewolf3000/steelgear/core/heap"
	"github.com/Gamewolf3000/steelgear/driver"
	"github.com/Gamewolf3000/steelgear/internal/arena"
)

// Placement is a region of a specific heap handed out by Allocate.
type Placement struct {
	Heap   driver.Heap
	Offset int64
	Size   int64
}

type slab struct {
	h driver.Heap
	a *arena.Arena
}

// Allocator hands out Placements from a growable pool of heaps obtained
// from a heap.Provider.
type Allocator struct {
	provider *heap.Provider
	strategy arena.Strategy
	slabs    []slab
	log      *zap.SugaredLogger
}

// New creates an Allocator that pulls heaps from provider, using
// strategy to pick among free chunks within a heap.
func New(provider *heap.Provider, strategy arena.Strategy, log *zap.SugaredLogger) (*Allocator, error) {
	if provider == nil {
		return nil, errors.Wrap(errs.InvalidConfiguration, "suballoc: nil provider")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Allocator{provider: provider, strategy: strategy, log: log}, nil
}

// Allocate reserves size bytes aligned to alignment, growing the pool
// with a new heap from the provider if no existing slab has room.
func (a *Allocator) Allocate(size, alignment int64) (Placement, error) {
	for i := range a.slabs {
		if alloc, err := a.slabs[i].a.Allocate(size, alignment); err == nil {
			return Placement{Heap: a.slabs[i].h, Offset: alloc.Offset, Size: alloc.Size}, nil
		}
	}
	h, err := a.provider.Acquire(size)
	if err != nil {
		return Placement{}, err
	}
	s := slab{h: h, a: arena.New(h.Size(), a.strategy)}
	alloc, err := s.a.Allocate(size, alignment)
	if err != nil {
		return Placement{}, errors.Wrapf(errs.OutOfResources, "suballoc: new heap of %d bytes cannot hold %d byte allocation: %v", h.Size(), size, err)
	}
	a.slabs = append(a.slabs, s)
	a.log.Debugw("suballoc grew pool", "slabs", len(a.slabs), "heapSize", h.Size())
	return Placement{Heap: h, Offset: alloc.Offset, Size: alloc.Size}, nil
}

// Free releases a Placement previously returned by Allocate. It reports
// an error if p does not refer to an occupied region of one of the
// allocator's slabs.
func (a *Allocator) Free(p Placement) error {
	for i := range a.slabs {
		if a.slabs[i].h == p.Heap {
			if err := a.slabs[i].a.Deallocate(p.Offset); err != nil {
				return errors.Wrap(errs.NotFound, err.Error())
			}
			return nil
		}
	}
	return errors.Wrap(errs.NotFound, "suballoc: placement does not belong to any tracked heap")
}

// SlabCount returns the number of heaps currently backing the
// allocator, for diagnostics and tests.
func (a *Allocator) SlabCount() int { return len(a.slabs) }

// ResetAll clears every slab's arena back to a single free chunk,
// discarding all outstanding allocations at once. It is used by
// allocators whose allocations are reclaimed wholesale at a fixed
// cadence (e.g. once per frame) rather than individually freed.
func (a *Allocator) ResetAll() {
	for i := range a.slabs {
		a.slabs[i].a.Reset()
	}
}
