package world

import (
	"slices"

	"mirgo/internal/engine"
)

// Batches collects render batch invalidations raised by reflective writes.
// A renderer drains it once per frame; NoID stands for the global lighting batch.
type Batches struct {
	dirty map[engine.ID]struct{}
}

func NewBatches() *Batches {
	return &Batches{dirty: make(map[engine.ID]struct{})}
}

func (b *Batches) MarkBatchDirty(id engine.ID) {
	b.dirty[id] = struct{}{}
}

func (b *Batches) IsDirty(id engine.ID) bool {
	_, ok := b.dirty[id]
	return ok
}

// Drain returns the dirty ids in ascending order and clears the set.
func (b *Batches) Drain() []engine.ID {
	out := make([]engine.ID, 0, len(b.dirty))
	for id := range b.dirty {
		out = append(out, id)
	}
	slices.Sort(out)
	clear(b.dirty)
	return out
}

func (b *Batches) Reset() {
	clear(b.dirty)
}
