// Package testutil provides testing utilities for buffile.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic random data, random operation scripts that can
// be replayed against any io.ReadWriteSeeker, and content digests.
//
// # Random Scripts
//
//	rng := testutil.NewRNG(seed)
//	ops := rng.Script(testutil.ScriptConfig{Ops: 1000, MaxOffset: 1 << 20, MaxLen: 8192})
//	direct, _ := testutil.Apply(mem, ops)
//	cached, _ := testutil.Apply(file, ops)
//
// # Digests
//
//	if testutil.Digest(a) != testutil.Digest(b) { ... }
package testutil
