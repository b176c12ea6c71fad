package conv

import (
	"errors"
	"math"
)

var (
	// ErrOverflow is returned when a result exceeds the target range.
	ErrOverflow = errors.New("integer overflow")
	// ErrNegative is returned when a result would be negative.
	ErrNegative = errors.New("negative offset")
)

// Offset returns base+delta as an io offset. A negative result is returned
// together with ErrNegative so callers can report it.
func Offset(base uint64, delta int64) (int64, error) {
	if base > math.MaxInt64 {
		return 0, ErrOverflow
	}
	b := int64(base)
	if delta > 0 && b > math.MaxInt64-delta {
		return 0, ErrOverflow
	}
	target := b + delta
	if target < 0 {
		return target, ErrNegative
	}
	return target, nil
}

// Advance returns off+n if the sum stays within math.MaxInt64.
func Advance(off uint64, n int) (uint64, error) {
	if n < 0 {
		return 0, ErrNegative
	}
	if off > math.MaxInt64 || uint64(n) > math.MaxInt64-off {
		return 0, ErrOverflow
	}
	return off + uint64(n), nil
}

// Int64ToUint32 converts int64 to uint32 safely.
func Int64ToUint32(v int64) (uint32, error) {
	if v < 0 {
		return 0, ErrNegative
	}
	if v > math.MaxUint32 {
		return 0, ErrOverflow
	}
	return uint32(v), nil
}
