package buffile

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeOffset is returned when a seek would move before offset zero.
	ErrNegativeOffset = errors.New("buffile: negative offset")

	// ErrInvalidWhence is returned when a seek origin is unknown.
	ErrInvalidWhence = errors.New("buffile: invalid whence")

	// ErrInvalidCapacity is returned when a capacity below one slab is requested.
	ErrInvalidCapacity = errors.New("buffile: capacity must be at least 1")

	// ErrOffsetOverflow is returned when a transfer or seek would move the
	// cursor past the largest representable offset.
	ErrOffsetOverflow = errors.New("buffile: offset overflow")

	// ErrClosed is returned by operations on a closed File.
	ErrClosed = errors.New("buffile: file already closed")
)

// IOError records a medium failure and the slab offset it happened at.
//
// The medium's error is reachable through errors.Is and errors.As.
type IOError struct {
	// Op is one of "probe", "load", "write-back", "extend" or "reposition".
	Op     string
	Offset uint64
	Err    error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("buffile: %s at offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func ioError(op string, off uint64, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Offset: off, Err: err}
}
