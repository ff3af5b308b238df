// Package local implements the local resource allocator: one
// transient.Allocator per frame slot, so that a frame's local
// allocations never contend with another frame still in flight on the
// GPU. The active slot is reset when it comes back around, by which
// point the GPU is guaranteed to be done with its previous contents.
package local

import (
	"github.com/pkg/errors"

	"github.com/Gamewolf3000/steelgear/core/errs"
	"github.com/Gamewolf3000/steelgear/core/suballoc"
	"github.com/Gamewolf3000/steelgear/core/transient"
)

// Allocator is a frame-multiplexed transient allocator.
type Allocator struct {
	frames      int
	activeFrame int
	inner       []*transient.Allocator
}

// New creates an Allocator with one inner transient.Allocator per frame
// slot, built by calling makeInner once per slot. Per FrameBased
// semantics, the active frame starts at frames-1.
func New(frames int, makeInner func(slot int) (*transient.Allocator, error)) (*Allocator, error) {
	if frames <= 0 {
		return nil, errors.Wrap(errs.InvalidConfiguration, "local: frames must be positive")
	}
	inner := make([]*transient.Allocator, frames)
	for i := 0; i < frames; i++ {
		a, err := makeInner(i)
		if err != nil {
			return nil, err
		}
		inner[i] = a
	}
	return &Allocator{frames: frames, activeFrame: frames - 1, inner: inner}, nil
}

// ActiveFrame returns the currently active frame slot.
func (a *Allocator) ActiveFrame() int { return a.activeFrame }

// Allocate reserves size bytes aligned to alignment from the active
// frame slot's inner allocator.
func (a *Allocator) Allocate(size, alignment int64) (suballoc.Placement, error) {
	return a.inner[a.activeFrame].Allocate(size, alignment)
}

// SwapFrame advances to the next frame slot and resets its inner
// allocator, reclaiming whatever it held from its last use N frames
// ago.
func (a *Allocator) SwapFrame() {
	a.activeFrame = (a.activeFrame + 1) % a.frames
	a.inner[a.activeFrame].Reset()
}
