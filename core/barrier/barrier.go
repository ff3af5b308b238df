// Package barrier defines the resource-state barrier type shared by the
// frame-multiplexed component, the render queue, and the barrier
// planner (queue.Context in package queue).
package barrier

import (
	"github.com/pkg/errors"

	"github.com/Gamewolf3000/steelgear/core/errs"
	"github.com/Gamewolf3000/steelgear/driver"
)

// Kind identifies the kind of barrier a Barrier represents.
type Kind int

const (
	// Transition barriers move a resource from one state to another.
	Transition Kind = iota
	// Aliasing barriers mark a resource as newly valid within memory
	// that may have previously backed a different resource (or none,
	// when created with a nil "before" resource, as happens at
	// resource creation time).
	Aliasing
	// UAV barriers order read-after-write/write-after-write access
	// to the same unordered-access resource. They are recognized but
	// not planned by queue.Context (see Unsupported below).
	UAV
)

// Barrier describes a single synchronization point for one resource.
type Barrier struct {
	Kind Kind

	// Resource identifies the affected resource. For Aliasing
	// barriers at resource creation time, ResourceBefore is nil.
	Resource       any
	ResourceBefore any

	StateBefore driver.Layout
	StateAfter  driver.Layout
}

// readMask is the union of every bit that identifies a read-only
// state; any combination of these bits can be merged into a single
// barrier's "after" mask, but a write state never merges with another
// state. Layout values are orthogonal bit flags, so a state already
// merged from several reads (e.g. LPixelShaderRead|LNonPixelShaderRead)
// is itself still a valid read state to merge further.
const readMask = driver.LPixelShaderRead | driver.LNonPixelShaderRead |
	driver.LCopySrc | driver.LDSRead | driver.LResolveSrc

func isReadState(s driver.Layout) bool { return s != 0 && s & ^readMask == 0 }

// MergeTransitionAfterState folds an additional read state into a
// transition barrier's "after" state. It is a no-op (returns an error)
// if either state involved is a write state, since write states must
// never be merged.
func (b *Barrier) MergeTransitionAfterState(state driver.Layout) error {
	if b.Kind != Transition {
		return errors.Wrap(errs.Unsupported, "barrier: cannot merge into a non-transition barrier")
	}
	if !isReadState(b.StateAfter) || !isReadState(state) {
		return errors.Wrap(errs.Unsupported, "barrier: cannot merge a write state into a transition")
	}
	b.StateAfter |= state
	return nil
}

// NewAliasing builds an initialization aliasing barrier for a resource
// freshly created within a heap; resourceBefore is nil.
func NewAliasing(resource any) Barrier {
	return Barrier{Kind: Aliasing, Resource: resource, ResourceBefore: nil}
}

// NewTransition builds a state-transition barrier.
func NewTransition(resource any, before, after driver.Layout) Barrier {
	return Barrier{Kind: Transition, Resource: resource, StateBefore: before, StateAfter: after}
}

// Validate reports an Unsupported error for barrier kinds the planner in package queue
// does not know how to execute: category aliasing barriers issued
// outside of initialization, UAV barriers, and any other unknown kind.
func Validate(b Barrier) error {
	switch b.Kind {
	case Transition:
		return nil
	case Aliasing:
		if b.ResourceBefore != nil {
			return errors.Wrap(errs.Unsupported, "barrier: category aliasing barriers are not supported")
		}
		return nil
	case UAV:
		return errors.Wrap(errs.Unsupported, "barrier: UAV barriers are not supported")
	default:
		return errors.Wrap(errs.Unsupported, "barrier: unknown barrier kind")
	}
}
