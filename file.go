package buffile

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/hupe1980/buffile/internal/cache"
	"github.com/hupe1980/buffile/internal/conv"
	"github.com/hupe1980/buffile/medium"
)

// File is a write-back slab cache over a medium.
//
// File implements io.Reader, io.Writer, io.Seeker and io.Closer with the same
// results as direct access to the medium, while keeping a bounded number of
// slab-sized, slab-aligned chunks in memory. The medium is owned by the File
// until Close; it must not be accessed directly in the meantime.
//
// A File is not safe for concurrent use.
type File struct {
	c       *core
	cleanup runtime.Cleanup
}

// Open creates a File over m. It learns the medium's length by seeking to
// its end and back to the start.
//
// Open panics if the configured slab size is not a power of two.
func Open(m medium.Medium, optFns ...Option) (*File, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.slabSize <= 0 || opts.slabSize&(opts.slabSize-1) != 0 {
		panic(fmt.Sprintf("buffile: slab size %d is not a power of two", opts.slabSize))
	}
	if opts.capacity < 1 {
		return nil, ErrInvalidCapacity
	}

	end, err := m.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, ioError("probe", 0, err)
	}
	if _, err := m.Seek(0, io.SeekStart); err != nil {
		return nil, ioError("probe", 0, err)
	}

	logger := opts.logger.WithSlabSize(opts.slabSize)
	if nm, ok := m.(named); ok {
		logger = logger.WithMedium(nm.Name())
	}

	c := &core{
		m:          m,
		arena:      cache.NewArena(opts.capacity),
		policy:     policyFor(opts.policy),
		slabSize:   opts.slabSize,
		mask:       uint64(opts.slabSize - 1),
		capacity:   opts.capacity,
		end:        uint64(end),
		persisted:  uint64(end),
		shortReads: opts.shortReads,
		logger:     logger,
		metrics:    opts.metricsCollector,
	}

	f := &File{c: c}
	// Dirty slabs of a File that is never closed are written back when it
	// is collected. Errors are logged and dropped.
	f.cleanup = runtime.AddCleanup(f, (*core).finalize, c)
	return f, nil
}

// named is implemented by media that can identify themselves in logs,
// such as *medium.File.
type named interface {
	Name() string
}

// Read reads up to len(p) bytes at the cursor.
//
// By default a read is always served in full: bytes past the logical end
// read as zero and become part of the file, which grows to cover them. With
// WithShortReads the read stops at the end instead and returns io.EOF once
// the cursor has reached it.
//
// On failure n is the number of bytes copied before the failing slab.
// Interrupted medium reads are retried, but a run of more than 64
// consecutive interruptions is returned as an error rather than retried
// forever.
func (f *File) Read(p []byte) (n int, err error) {
	c := f.c
	if c.closed {
		return 0, ErrClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	if c.shortReads {
		if c.cursor >= c.end {
			return 0, io.EOF
		}
		p = p[:min(uint64(len(p)), c.end-c.cursor)]
	}

	n, err = c.transfer(p, false)
	runtime.KeepAlive(f)
	return n, err
}

// Write writes p at the cursor, growing the file when the write ends past
// it. Writing beyond the end leaves a zero-filled gap.
//
// On failure n is the number of bytes copied before the failing slab.
func (f *File) Write(p []byte) (n int, err error) {
	c := f.c
	if c.closed {
		return 0, ErrClosed
	}

	n, err = c.transfer(p, true)
	runtime.KeepAlive(f)
	return n, err
}

// Seek sets the cursor for the next Read or Write and loads the slab that
// covers it. Seeking past the end is allowed and does not grow the file.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	c := f.c
	if c.closed {
		return 0, ErrClosed
	}

	var base uint64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = c.cursor
	case io.SeekEnd:
		base = c.end
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)
	}

	target, err := conv.Offset(base, offset)
	switch {
	case errors.Is(err, conv.ErrNegative):
		return 0, fmt.Errorf("%w: %d", ErrNegativeOffset, target)
	case err != nil:
		return 0, ErrOffsetOverflow
	}

	if _, err := c.fetch(uint64(target), false); err != nil {
		return 0, err
	}
	c.cursor = uint64(target)
	runtime.KeepAlive(f)
	return target, nil
}

// Len returns the logical length of the file.
func (f *File) Len() int64 {
	return int64(f.c.end)
}

// Pos returns the cursor.
func (f *File) Pos() int64 {
	return int64(f.c.cursor)
}

// Capacity returns the maximum number of resident slabs.
func (f *File) Capacity() int {
	return f.c.capacity
}

// SlabSize returns the slab size in bytes.
func (f *File) SlabSize() int {
	return f.c.slabSize
}

// Resident returns the number of slabs currently in memory.
func (f *File) Resident() int {
	return f.c.arena.Len()
}

// Dirty returns the number of resident slabs holding unpersisted writes.
func (f *File) Dirty() int {
	return f.c.arena.Dirty()
}

// Stats returns a snapshot of cache activity.
func (f *File) Stats() Stats {
	return f.c.snapshot()
}
