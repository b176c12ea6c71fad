package buffile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"
)

// Flush writes every dirty slab back to the medium, in offset order. It
// stops at the first failure: slabs written before it are clean, the failing
// slab and those after it stay dirty for a later retry.
func (f *File) Flush() error {
	c := f.c
	if c.closed {
		return ErrClosed
	}

	err := c.flush()
	runtime.KeepAlive(f)
	return err
}

func (c *core) flush() error {
	dirty := c.dirtySlabs()
	begin := time.Now()

	var err error
	for _, s := range dirty {
		if err = c.writeBack(s); err != nil {
			break
		}
	}

	c.metrics.RecordFlush(len(dirty), time.Since(begin), err)
	c.logger.LogFlush(context.Background(), len(dirty), err)
	return err
}

type syncer interface {
	Sync() error
}

// Sync flushes the cache and then commits the medium to stable storage if
// it supports that (os.File and medium.Object do).
func (f *File) Sync() error {
	c := f.c
	if c.closed {
		return ErrClosed
	}

	err := c.flush()
	if err == nil {
		if s, ok := c.m.(syncer); ok {
			err = s.Sync()
		}
	}
	runtime.KeepAlive(f)
	return err
}

// SetCapacity changes the maximum number of resident slabs. Shrinking below
// the resident count writes back and evicts slabs, chosen by the eviction
// policy, until the new limit holds. The limit changes only if that succeeds.
func (f *File) SetCapacity(n int) error {
	c := f.c
	if c.closed {
		return ErrClosed
	}
	if n < 1 {
		return ErrInvalidCapacity
	}

	from, evicted := c.capacity, 0
	for c.arena.Len() > n {
		i := c.policy.Victim(c.arena.Slabs())
		if err := c.release(i); err != nil {
			c.logger.LogCapacity(context.Background(), from, n, evicted, err)
			return err
		}
		c.arena.Remove(i)
		evicted++
	}

	c.capacity = n
	c.logger.LogCapacity(context.Background(), from, n, evicted, nil)
	runtime.KeepAlive(f)
	return nil
}

// Close writes back every dirty slab and closes the medium if it is an
// io.Closer. Unlike Flush, Close attempts every slab once even after a
// failure; all failures are returned joined. Any later call returns
// ErrClosed.
func (f *File) Close() error {
	c := f.c
	if c.closed {
		return ErrClosed
	}
	f.cleanup.Stop()
	return c.teardown()
}

// finalize runs when a File is collected without Close.
func (c *core) finalize() {
	if c.closed {
		return
	}
	_ = c.teardown()
}

func (c *core) teardown() error {
	dirty := c.dirtySlabs()

	var errs []error
	for _, s := range dirty {
		if err := c.writeBack(s); err != nil {
			errs = append(errs, err)
		}
	}
	failed := len(errs)

	if closer, ok := c.m.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close medium: %w", err))
		}
	}
	c.closed = true

	err := errors.Join(errs...)
	c.logger.LogTeardown(context.Background(), len(dirty), failed, err)
	return err
}
