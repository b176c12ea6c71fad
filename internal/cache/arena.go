package cache

import "github.com/hupe1980/buffile/internal/slab"

// Arena is the resident slab set, indexed by slab start offset.
// It is not safe for concurrent use.
type Arena struct {
	slabs []*slab.Slab
	index map[uint64]int
}

// NewArena creates an arena sized for capacity slabs.
func NewArena(capacity int) *Arena {
	return &Arena{
		slabs: make([]*slab.Slab, 0, capacity),
		index: make(map[uint64]int, capacity),
	}
}

// Len returns the number of resident slabs.
func (a *Arena) Len() int {
	return len(a.slabs)
}

// Lookup returns the arena position of the slab starting at start.
func (a *Arena) Lookup(start uint64) (int, bool) {
	i, ok := a.index[start]
	return i, ok
}

// At returns the slab at position i.
func (a *Arena) At(i int) *slab.Slab {
	return a.slabs[i]
}

// Insert appends s and returns its position. The caller guarantees no slab
// with the same start is resident.
func (a *Arena) Insert(s *slab.Slab) int {
	a.slabs = append(a.slabs, s)
	i := len(a.slabs) - 1
	a.index[s.Start] = i
	return i
}

// Replace puts s at position i, dropping the slab that was there.
func (a *Arena) Replace(i int, s *slab.Slab) {
	delete(a.index, a.slabs[i].Start)
	a.slabs[i] = s
	a.index[s.Start] = i
}

// Remove drops the slab at position i. The last slab moves into its place.
func (a *Arena) Remove(i int) {
	delete(a.index, a.slabs[i].Start)

	last := len(a.slabs) - 1
	if i != last {
		a.slabs[i] = a.slabs[last]
		a.index[a.slabs[i].Start] = i
	}
	a.slabs[last] = nil
	a.slabs = a.slabs[:last]
}

// Slabs returns the resident slabs in arena order. The slice is shared with
// the arena and must not be modified.
func (a *Arena) Slabs() []*slab.Slab {
	return a.slabs
}

// Dirty returns the number of dirty resident slabs.
func (a *Arena) Dirty() int {
	n := 0
	for _, s := range a.slabs {
		if s.Dirty {
			n++
		}
	}
	return n
}
