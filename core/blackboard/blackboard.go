// Package blackboard implements the blackboard: the shared registry
// through which render-queue jobs reach the subsystems they need
// (the local and transient allocators, the managed descriptor heap, the
// category registry) without every job type needing its own bespoke
// wiring, plus a generic typed slot store for ad hoc shared state.
package blackboard

import (
	"github.com/pkg/errors"

	"github.com/Gamewolf3000/steelgear/core/category"
	"github.com/Gamewolf3000/steelgear/core/descheap"
	"github.com/Gamewolf3000/steelgear/core/errs"
	"github.com/Gamewolf3000/steelgear/core/local"
	"github.com/Gamewolf3000/steelgear/core/transient"
)

// Blackboard holds the subsystems every render-queue job may need, plus
// an open-ended typed slot store for values specific to a particular
// set of job types.
type Blackboard struct {
	local       *local.Allocator
	transientAl *transient.Allocator
	descHeap    *descheap.ManagedHeap
	categories  *category.Registry

	slots map[string]any
}

// New creates a Blackboard wired to the given subsystems. Any of them
// may be nil if the caller does not use that subsystem.
func New(localAlloc *local.Allocator, transientAlloc *transient.Allocator, descHeap *descheap.ManagedHeap, categories *category.Registry) *Blackboard {
	return &Blackboard{
		local:       localAlloc,
		transientAl: transientAlloc,
		descHeap:    descHeap,
		categories:  categories,
		slots:       make(map[string]any),
	}
}

// Local returns the local resource allocator.
func (b *Blackboard) Local() *local.Allocator { return b.local }

// Transient returns the transient allocator.
func (b *Blackboard) Transient() *transient.Allocator { return b.transientAl }

// DescriptorHeap returns the managed descriptor heap.
func (b *Blackboard) DescriptorHeap() *descheap.ManagedHeap { return b.descHeap }

// Categories returns the category registry.
func (b *Blackboard) Categories() *category.Registry { return b.categories }

// Put stores value under key, for job types that need to share
// ad hoc state the fixed accessors above don't cover.
func Put[T any](b *Blackboard, key string, value T) {
	b.slots[key] = value
}

// Fetch retrieves the value stored under key, reporting an error if
// nothing is stored there or if it cannot be asserted to T.
func Fetch[T any](b *Blackboard, key string) (T, error) {
	var zero T
	raw, ok := b.slots[key]
	if !ok {
		return zero, errors.Wrapf(errs.NotFound, "blackboard: no value stored under %q", key)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, errors.Wrapf(errs.InvalidConfiguration, "blackboard: value stored under %q has the wrong type", key)
	}
	return v, nil
}
