//go:build linux

package medium

import "golang.org/x/sys/unix"

type fder interface {
	Fd() uintptr
}

func adviseRandom(f any) {
	if d, ok := f.(fder); ok {
		// Best effort; a failed hint changes nothing but performance.
		_ = unix.Fadvise(int(d.Fd()), 0, 0, unix.FADV_RANDOM)
	}
}
