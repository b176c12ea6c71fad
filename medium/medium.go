package medium

import (
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/hupe1980/buffile/internal/conv"
)

// Medium is the backing store of a buffered file.
type Medium interface {
	io.Reader
	io.Writer
	io.Seeker
}

var (
	// ErrNotFound is returned when an object does not exist.
	ErrNotFound = os.ErrNotExist

	// ErrInterrupted is a transient error a medium may return from Read.
	ErrInterrupted = errors.New("medium: interrupted")

	// ErrNegativeSeek is returned when a seek would move before offset zero.
	ErrNegativeSeek = errors.New("medium: negative position")

	// ErrInvalidWhence is returned for an unknown seek origin.
	ErrInvalidWhence = errors.New("medium: invalid whence")

	// ErrClosed is returned by operations on a closed medium.
	ErrClosed = errors.New("medium: closed")
)

// IsTransient reports whether err is an interruption worth retrying.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInterrupted) || errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN) {
		return true
	}
	var t interface{ Temporary() bool }
	return errors.As(err, &t) && t.Temporary()
}

// seekTarget resolves a seek request against the current position and length.
func seekTarget(pos, size, offset int64, whence int) (int64, error) {
	var base int64
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		base = pos
	case io.SeekEnd:
		base = size
	default:
		return 0, ErrInvalidWhence
	}

	target, err := conv.Offset(uint64(base), offset)
	if err != nil {
		return 0, ErrNegativeSeek
	}
	return target, nil
}
