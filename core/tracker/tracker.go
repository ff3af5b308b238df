// Package tracker implements the per-resource frame-resource state
// machine: given a requested state, it decides whether a new transition
// barrier is needed, tracking enough history that the planner (package
// queue) can merge consecutive read requests into one barrier.
package tracker

import (
	"github.com/Gamewolf3000/steelgear/core/barrier"
	"github.com/Gamewolf3000/steelgear/driver"
)

const writeMask = driver.LColorTarget | driver.LDSTarget | driver.LCopyDst |
	driver.LResolveDst | driver.LUnorderedAccess

func isWriteState(s driver.Layout) bool { return s&writeMask != 0 }

// FrameResource tracks the current D3D12-style resource state of a
// single resource (transient or category) across a render queue's
// lifetime.
type FrameResource struct {
	resource     any
	initialState driver.Layout
	currentState driver.Layout
	initialized  bool
}

// New creates a FrameResource that starts in initialState. The first
// call to UpdateState with a different state produces a transition
// barrier from initialState.
func New(resource any, initialState driver.Layout) *FrameResource {
	return &FrameResource{resource: resource, initialState: initialState, currentState: initialState}
}

// UpdateState requests that the resource be usable in neededState. It
// returns a transition barrier when the state actually changes; it
// returns (nil barrier, false) when the resource was already in a
// compatible state and no barrier is needed.
func (f *FrameResource) UpdateState(neededState driver.Layout) (barrier.Barrier, bool) {
	if f.currentState == neededState {
		return barrier.Barrier{}, false
	}
	b := barrier.NewTransition(f.resource, f.currentState, neededState)
	f.currentState = neededState
	f.initialized = true
	return b, true
}

// GetInitialState returns the state the resource started in.
func (f *FrameResource) GetInitialState() driver.Layout { return f.initialState }

// GetCurrentState returns the resource's current state.
func (f *FrameResource) GetCurrentState() driver.Layout { return f.currentState }

// IsInWriteState reports whether the resource currently sits in a
// write state (render target, depth/stencil target, or copy/resolve
// destination).
func (f *FrameResource) IsInWriteState() bool { return isWriteState(f.currentState) }
