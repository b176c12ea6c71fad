// Package slab implements the in-memory copy of one aligned chunk of a medium.
//
// A Slab always holds exactly the configured slab size in bytes, even when the
// medium ends inside (or before) the chunk; bytes the medium does not supply
// are zero.
package slab

import (
	"errors"
	"io"
	"math"

	"github.com/hupe1980/buffile/medium"
)

// MaxTransientRetries bounds the number of consecutive transient read
// failures Load absorbs. Interruptions are otherwise invisible to callers;
// past this bound Load reports the interruption so a medium that never
// makes progress cannot hang the cache.
const MaxTransientRetries = 64

// Slab is an aligned, fixed-length copy of one chunk of a medium.
type Slab struct {
	// Start is the medium offset of the first byte. It is a multiple of len(Data).
	Start uint64
	// Data holds the chunk. Its length never changes.
	Data []byte
	// Dirty is set while Data holds writes that have not been persisted.
	Dirty bool
	// Uses counts reads and writes that touched the slab. It saturates.
	Uses uint32
}

// Load reads the chunk starting at start from r. It loops over short reads,
// retries transient interruptions (up to MaxTransientRetries in a row, after
// which the interruption is returned) and stops at the end of the data or once
// the slab is full. The returned slab is clean with a zero usage count.
func Load(r io.ReadSeeker, start uint64, size int) (*Slab, error) {
	if _, err := r.Seek(int64(start), io.SeekStart); err != nil {
		return nil, err
	}

	data := make([]byte, size)
	filled, retries := 0, 0
	for filled < size {
		n, err := r.Read(data[filled:])
		filled += n
		if err == nil {
			if n == 0 {
				break
			}
			retries = 0
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if medium.IsTransient(err) && retries < MaxTransientRetries {
			retries++
			continue
		}
		return nil, err
	}

	return &Slab{
		Start: start,
		Data:  data,
	}, nil
}

// WriteBack persists the first n bytes of a dirty slab at Start. It is a
// no-op for clean slabs. Dirty is cleared only when the write succeeds; a
// short write is reported as io.ErrShortWrite.
func (s *Slab) WriteBack(w io.WriteSeeker, n int) error {
	if !s.Dirty {
		return nil
	}
	if n > len(s.Data) {
		n = len(s.Data)
	}
	if n <= 0 {
		s.Dirty = false
		return nil
	}

	if _, err := w.Seek(int64(s.Start), io.SeekStart); err != nil {
		return err
	}
	written, err := w.Write(s.Data[:n])
	if err != nil {
		return err
	}
	if written != n {
		return io.ErrShortWrite
	}

	s.Dirty = false
	return nil
}

// Touch records one access.
func (s *Slab) Touch() {
	if s.Uses < math.MaxUint32 {
		s.Uses++
	}
}

// End returns the offset one past the last byte the slab covers.
func (s *Slab) End() uint64 {
	return s.Start + uint64(len(s.Data))
}
