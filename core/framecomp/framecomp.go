// Package framecomp implements the frame-multiplexed component: N
// per-frame copies of an underlying resource component, where create
// and remove operations apply immediately to the active frame's copy
// and are replayed against the other N-1 copies as SwapFrame advances,
// so that every frame slot eventually converges to the same logical
// contents.
package framecomp

import "github.com/Gamewolf3000/steelgear/core/barrier"

type opKind int

const (
	opCreate opKind = iota
	opRemove
)

type storedOp[C any] struct {
	kind         opKind
	framesLeft   int
	creation     C
	removalIndex int
}

// CreateFunc applies a creation operation against the copy living in
// frame slot frameIndex, returning the resource handle that was
// created (used to build the initialization barrier).
type CreateFunc[C any] func(frameIndex int, creation C) (resource any, err error)

// RemoveFunc applies a removal operation against the copy living in
// frame slot frameIndex.
type RemoveFunc func(frameIndex int, index int) error

// Component is a frame-multiplexed resource component parameterized by
// the creation-operation payload type C.
type Component[C any] struct {
	frames      int
	activeFrame int

	onCreate CreateFunc[C]
	onRemove RemoveFunc

	storedOps    []storedOp[C]
	initBarriers []barrier.Barrier
}

// New creates a Component with the given number of frame slots. Per
// FrameBased semantics, the active frame starts at frames-1, so the
// first SwapFrame call lands on slot 0.
func New[C any](frames int, onCreate CreateFunc[C], onRemove RemoveFunc) *Component[C] {
	return &Component[C]{
		frames:      frames,
		activeFrame: frames - 1,
		onCreate:    onCreate,
		onRemove:    onRemove,
	}
}

// ActiveFrame returns the currently active frame slot index.
func (c *Component[C]) ActiveFrame() int { return c.activeFrame }

// Create applies creation against the active frame's copy immediately,
// and — unless the component has only one frame slot — queues the same
// creation to be replayed against every other slot as frames advance.
func (c *Component[C]) Create(creation C) (any, error) {
	resource, err := c.onCreate(c.activeFrame, creation)
	if err != nil {
		return nil, err
	}
	if c.frames != 1 {
		c.storedOps = append(c.storedOps, storedOp[C]{
			kind:       opCreate,
			framesLeft: c.frames - 1,
			creation:   creation,
		})
	}
	c.initBarriers = append(c.initBarriers, barrier.NewAliasing(resource))
	return resource, nil
}

// RemoveComponent applies a removal against the active frame's copy
// immediately, and queues the same removal to be replayed against
// every other slot, symmetric with Create.
func (c *Component[C]) RemoveComponent(index int) error {
	if err := c.onRemove(c.activeFrame, index); err != nil {
		return err
	}
	if c.frames != 1 {
		c.storedOps = append(c.storedOps, storedOp[C]{
			kind:         opRemove,
			framesLeft:   c.frames - 1,
			removalIndex: index,
		})
	}
	return nil
}

// GetInitializationBarriers drains and returns every aliasing barrier
// queued by Create calls since the last drain.
func (c *Component[C]) GetInitializationBarriers() []barrier.Barrier {
	out := c.initBarriers
	c.initBarriers = nil
	return out
}

// SwapFrame advances to the next frame slot and replays any stored
// creation/removal operations whose turn has come for that slot,
// discarding an operation once it has been replayed against every
// other slot (framesLeft reaches zero).
func (c *Component[C]) SwapFrame() error {
	c.activeFrame = (c.activeFrame + 1) % c.frames

	erase := 0
	for i := range c.storedOps {
		op := &c.storedOps[i]
		switch op.kind {
		case opCreate:
			resource, err := c.onCreate(c.activeFrame, op.creation)
			if err != nil {
				return err
			}
			c.initBarriers = append(c.initBarriers, barrier.NewAliasing(resource))
		case opRemove:
			if err := c.onRemove(c.activeFrame, op.removalIndex); err != nil {
				return err
			}
		}
		op.framesLeft--
		if op.framesLeft == 0 {
			erase++
		}
	}
	c.storedOps = c.storedOps[erase:]
	return nil
}
