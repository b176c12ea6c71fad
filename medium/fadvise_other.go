//go:build !linux

package medium

func adviseRandom(any) {}
