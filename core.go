package buffile

import (
	"context"
	"io"
	"slices"
	"time"

	"github.com/hupe1980/buffile/internal/cache"
	"github.com/hupe1980/buffile/internal/conv"
	"github.com/hupe1980/buffile/internal/slab"
	"github.com/hupe1980/buffile/medium"
)

// Stats is a snapshot of cache activity.
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	WriteBacks int64
	Extensions int64
	Resident   int
	Dirty      int
}

// core is the state of a File. It is split from File so the cleanup
// registered on File can reach it without keeping File alive.
type core struct {
	m      medium.Medium
	arena  *cache.Arena
	policy cache.Policy

	slabSize int
	mask     uint64
	capacity int

	// cursor is the logical position, end the logical length. persisted is
	// the length the medium itself has reached.
	cursor    uint64
	end       uint64
	persisted uint64

	shortReads bool
	closed     bool

	logger  *Logger
	metrics MetricsCollector
	stats   Stats
}

func policyFor(p EvictionPolicy) cache.Policy {
	if p == EvictFirstSingleUse {
		return cache.FirstSingleUse{}
	}
	return cache.LFU{}
}

// fetch returns the resident slab covering off, loading it (and evicting a
// victim) if needed. grow allows zero-filling the medium up to the slab when
// the slab lies past the persisted length.
func (c *core) fetch(off uint64, grow bool) (*slab.Slab, error) {
	ctx := context.Background()
	start := off &^ c.mask

	if i, ok := c.arena.Lookup(start); ok {
		c.stats.Hits++
		c.metrics.RecordFetch(true)
		c.logger.LogFetch(ctx, start, true, nil)
		return c.arena.At(i), nil
	}
	c.stats.Misses++
	c.metrics.RecordFetch(false)

	if grow && start > c.persisted {
		if err := c.extend(start); err != nil {
			return nil, err
		}
	}

	victim := -1
	if c.arena.Len() >= c.capacity {
		victim = c.policy.Victim(c.arena.Slabs())
		if err := c.release(victim); err != nil {
			return nil, err
		}
	}

	s, err := slab.Load(c.m, start, c.slabSize)
	if err != nil {
		err = ioError("load", start, err)
		c.logger.LogFetch(ctx, start, false, err)
		return nil, err
	}

	if victim >= 0 {
		c.arena.Replace(victim, s)
	} else {
		c.arena.Insert(s)
	}
	c.logger.LogFetch(ctx, start, false, nil)
	return s, nil
}

// release persists the slab at arena position i ahead of its removal and
// puts the medium back at the cursor. The caller removes the slab.
func (c *core) release(i int) error {
	ctx := context.Background()
	s := c.arena.At(i)
	dirty := s.Dirty

	if err := c.writeBack(s); err != nil {
		c.logger.LogEvict(ctx, s.Start, s.Uses, dirty, err)
		return err
	}
	if dirty {
		if _, err := c.m.Seek(int64(c.cursor), io.SeekStart); err != nil {
			err = ioError("reposition", c.cursor, err)
			c.logger.LogEvict(ctx, s.Start, s.Uses, dirty, err)
			return err
		}
	}

	c.stats.Evictions++
	c.metrics.RecordEviction(dirty)
	c.logger.LogEvict(ctx, s.Start, s.Uses, dirty, nil)
	return nil
}

// extend zero-fills the medium from its persisted length up to to.
func (c *core) extend(to uint64) error {
	ctx := context.Background()
	from := c.persisted
	if to <= from {
		return nil
	}

	if _, err := c.m.Seek(int64(from), io.SeekStart); err != nil {
		err = ioError("extend", from, err)
		c.logger.LogExtend(ctx, from, to, err)
		return err
	}

	zeros := make([]byte, min(uint64(c.slabSize), to-from))
	for c.persisted < to {
		n := min(uint64(len(zeros)), to-c.persisted)
		written, err := c.m.Write(zeros[:n])
		c.persisted += uint64(written)
		if err == nil && uint64(written) != n {
			err = io.ErrShortWrite
		}
		if err != nil {
			err = ioError("extend", from, err)
			c.logger.LogExtend(ctx, from, to, err)
			return err
		}
	}

	c.end = max(c.end, to)
	c.stats.Extensions++
	c.metrics.RecordExtend(int(to - from))
	c.logger.LogExtend(ctx, from, to, nil)
	return nil
}

// writeBack persists a dirty slab up to the logical end.
func (c *core) writeBack(s *slab.Slab) error {
	if !s.Dirty {
		return nil
	}

	n := 0
	if c.end > s.Start {
		n = int(min(uint64(c.slabSize), c.end-s.Start))
	}
	if n > 0 && s.Start > c.persisted {
		if err := c.extend(s.Start); err != nil {
			return err
		}
	}

	begin := time.Now()
	err := s.WriteBack(c.m, n)
	c.metrics.RecordWriteBack(n, time.Since(begin), err)
	if err != nil {
		return ioError("write-back", s.Start, err)
	}

	c.stats.WriteBacks++
	c.persisted = max(c.persisted, s.Start+uint64(n))
	return nil
}

// transfer copies between p and the cache at the cursor, slab by slab. It
// returns the bytes moved before any failure.
func (c *core) transfer(p []byte, write bool) (int, error) {
	if _, err := conv.Advance(c.cursor, len(p)); err != nil {
		return 0, ErrOffsetOverflow
	}

	done := 0
	for done < len(p) {
		off := int(c.cursor & c.mask)
		n := min(c.slabSize-off, len(p)-done)
		pieceEnd := c.cursor + uint64(n)

		s, err := c.fetch(c.cursor, pieceEnd > c.end)
		if err != nil {
			return done, err
		}

		if write {
			copy(s.Data[off:], p[done:done+n])
			s.Dirty = true
		} else {
			copy(p[done:done+n], s.Data[off:off+n])
			if pieceEnd > c.end {
				// The read materialized bytes past the end; persist them.
				s.Dirty = true
			}
		}
		s.Touch()

		done += n
		c.cursor = pieceEnd
		c.end = max(c.end, c.cursor)
	}
	return done, nil
}

// dirtySlabs returns the dirty resident slabs ordered by offset.
func (c *core) dirtySlabs() []*slab.Slab {
	var dirty []*slab.Slab
	for _, s := range c.arena.Slabs() {
		if s.Dirty {
			dirty = append(dirty, s)
		}
	}
	slices.SortFunc(dirty, func(a, b *slab.Slab) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
	return dirty
}

func (c *core) snapshot() Stats {
	s := c.stats
	s.Resident = c.arena.Len()
	s.Dirty = c.arena.Dirty()
	return s
}
