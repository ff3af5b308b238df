// Package transient implements the transient allocator: a suballoc
// pool whose allocations are all reclaimed at once at a fixed cadence
// (typically once per frame) rather than freed individually, for
// resources whose entire lifetime is a single render queue.
package transient

import "github.com/Gamewolf3000/steelgear/core/suballoc"

// Allocator hands out placements from a pool that is reset wholesale
// rather than tracked per-allocation.
type Allocator struct {
	pool *suballoc.Allocator
}

// New wraps pool as a transient allocator.
func New(pool *suballoc.Allocator) *Allocator {
	return &Allocator{pool: pool}
}

// Allocate reserves size bytes aligned to alignment. Individual
// allocations are never freed; call Reset once all consumers of this
// frame's allocations have finished with them.
func (a *Allocator) Allocate(size, alignment int64) (suballoc.Placement, error) {
	return a.pool.Allocate(size, alignment)
}

// Reset reclaims every outstanding allocation at once.
func (a *Allocator) Reset() { a.pool.ResetAll() }
