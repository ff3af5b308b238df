// Package mirror implements the component data mirror: a CPU-side
// staging queue for writes meant for GPU-resident resources. Writes are
// batched by index and flushed in two phases — PrepareUpdates (so the
// caller can emit the barriers needed to make every touched resource a
// copy destination) followed by PerformUpdates (which hands each
// pending write to an uploader callback) — rather than touching GPU
// memory on every SetUpdateData call.
package mirror

// Update is a single pending CPU-side write targeting the resource at
// Index.
type Update struct {
	Index       int
	Data        []byte
	Subresource uint8
}

// Mirror batches updates per resource index; a second SetUpdateData
// call for the same index before a flush replaces the first.
type Mirror struct {
	pending map[int]Update
	order   []int
}

// New creates an empty Mirror.
func New() *Mirror {
	return &Mirror{pending: make(map[int]Update)}
}

// SetUpdateData queues data to be written to the resource at index,
// subresource. It overwrites any not-yet-flushed update for the same
// index.
func (m *Mirror) SetUpdateData(index int, data []byte, subresource uint8) {
	if _, exists := m.pending[index]; !exists {
		m.order = append(m.order, index)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.pending[index] = Update{Index: index, Data: cp, Subresource: subresource}
}

// PrepareUpdates returns the set of pending updates, in the order
// their indices were first queued, without clearing them. Callers use
// this to plan the barriers needed before the data actually moves.
func (m *Mirror) PrepareUpdates() []Update {
	out := make([]Update, 0, len(m.order))
	for _, idx := range m.order {
		out = append(out, m.pending[idx])
	}
	return out
}

// PerformUpdates hands each pending update to upload, in the same
// order PrepareUpdates returned them, then clears the queue. If upload
// returns an error the remaining updates are left queued for a future
// flush attempt.
func (m *Mirror) PerformUpdates(upload func(Update) error) error {
	for i, idx := range m.order {
		u := m.pending[idx]
		if err := upload(u); err != nil {
			m.order = m.order[i:]
			return err
		}
		delete(m.pending, idx)
	}
	m.order = nil
	return nil
}

// Pending returns the number of updates currently queued.
func (m *Mirror) Pending() int { return len(m.order) }
