// Package conv provides checked offset arithmetic and integer conversions.
//
// File offsets are int64 on the io interfaces but uint64 inside the slab
// cache. These helpers move values between the two and report overflow
// instead of wrapping, so every position a caller can observe stays within
// [0, math.MaxInt64].
package conv
