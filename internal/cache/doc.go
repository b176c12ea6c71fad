// Package cache holds the resident slabs of a buffered file.
//
// # Arena
//
// [Arena] keeps slabs in a growable array and indexes them by start offset,
// so a lookup is one map probe and a victim scan is a linear pass over
// contiguous pointers. Replacing a victim reuses its array position.
//
// # Policies
//
// A [Policy] picks the slab to evict when the arena is at capacity:
//   - [LFU]: least used slab, ties to the lowest arena position
//   - [FirstSingleUse]: first slab used exactly once, else LFU
package cache
