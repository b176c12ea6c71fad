package cache

import "github.com/hupe1980/buffile/internal/slab"

// Policy selects an eviction victim.
type Policy interface {
	// Victim returns the position of the slab to evict. slabs is never empty.
	Victim(slabs []*slab.Slab) int
}

// LFU evicts the least used slab. Ties go to the lowest position.
type LFU struct{}

func (LFU) Victim(slabs []*slab.Slab) int {
	victim := 0
	for i, s := range slabs {
		if s.Uses < slabs[victim].Uses {
			victim = i
		}
		if slabs[victim].Uses == 0 {
			break
		}
	}
	return victim
}

// FirstSingleUse evicts the first slab used exactly once. Without one it
// falls back to LFU.
type FirstSingleUse struct{}

func (FirstSingleUse) Victim(slabs []*slab.Slab) int {
	for i, s := range slabs {
		if s.Uses == 1 {
			return i
		}
	}
	return LFU{}.Victim(slabs)
}
