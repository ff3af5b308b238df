// Package staging implements the staging/upload ring buffer: a
// bitmap-tracked byte range used to reserve space for pending CPU-to-GPU
// copies. Reservations are tracked at page granularity; the buffer
// grows (by doubling, committing pending copies first) when a
// reservation cannot currently be satisfied, and is reclaimed wholesale
// once per frame rather than per allocation.
package staging

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Gamewolf3000/steelgear/core/errs"
	"github.com/Gamewolf3000/steelgear/internal/bitm"
)

// Copy is a reserved byte range awaiting an upload.
type Copy struct {
	Offset int64
	Size   int64
}

// Ring is a page-granularity staging buffer.
type Ring struct {
	pageSize int64
	bm       bitm.Bitm[uint32]
	pending  []Copy
	log      *zap.SugaredLogger
}

// New creates a Ring with the given page size and initial capacity in
// pages. A nil logger disables logging.
func New(pageSize int64, initialPages int, log *zap.SugaredLogger) (*Ring, error) {
	if pageSize <= 0 {
		return nil, errors.Wrap(errs.InvalidConfiguration, "staging: pageSize must be positive")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := &Ring{pageSize: pageSize, log: log}
	if initialPages > 0 {
		r.bm.Grow(initialPages)
	}
	return r, nil
}

func pagesFor(size, pageSize int64) int {
	return int((size + pageSize - 1) / pageSize)
}

// Reserve finds (or grows to make) room for size bytes and returns the
// byte offset of the reservation. It grows the ring by committing the
// currently pending copies through commitUpload and doubling capacity
// until the request fits.
func (r *Ring) Reserve(size int64, commitUpload func(Copy) error) (int64, error) {
	if size <= 0 {
		return 0, errors.Wrap(errs.InvalidConfiguration, "staging: reservation size must be positive")
	}
	need := pagesFor(size, r.pageSize)

	for {
		if idx, ok := r.bm.SearchRange(need); ok {
			for i := idx; i < idx+need; i++ {
				r.bm.Set(i)
			}
			offset := int64(idx) * r.pageSize
			c := Copy{Offset: offset, Size: size}
			r.pending = append(r.pending, c)
			return offset, nil
		}

		if len(r.pending) > 0 {
			if err := r.flush(commitUpload); err != nil {
				return 0, err
			}
			continue
		}

		grow := r.bm.Len()
		if grow == 0 {
			grow = need
		}
		r.bm.Grow(grow)
		r.log.Debugw("staging ring grew", "pages", r.bm.Len())
	}
}

func (r *Ring) flush(commitUpload func(Copy) error) error {
	for _, c := range r.pending {
		if commitUpload != nil {
			if err := commitUpload(c); err != nil {
				return errors.Wrap(err, "staging: commit upload failed")
			}
		}
	}
	r.pending = r.pending[:0]
	return nil
}

// Commit flushes every pending copy through commitUpload, without
// freeing the bitmap's reserved space (that only happens on
// RestoreUsedMemory).
func (r *Ring) Commit(commitUpload func(Copy) error) error {
	return r.flush(commitUpload)
}

// RestoreUsedMemory reclaims the entire ring at once, as happens once
// all of a frame's staged uploads have been consumed by the GPU. It
// does not track individual allocations for free; the whole bitmap is
// cleared together.
func (r *Ring) RestoreUsedMemory() {
	r.bm.Clear()
}

// PendingBytes returns the total size, in bytes, of reservations not
// yet committed.
func (r *Ring) PendingBytes() int64 {
	var total int64
	for _, c := range r.pending {
		total += c.Size
	}
	return total
}

// Capacity returns the ring's current capacity in bytes.
func (r *Ring) Capacity() int64 { return int64(r.bm.Len()) * r.pageSize }
