// Package buffile provides a write-back slab cache over random-access media.
//
// A [File] sits between a client and any medium that can seek, read and
// write (a local file, an in-memory buffer, an object store). It keeps a
// bounded set of fixed-size, offset-aligned chunks ("slabs") in memory and
// serves Read, Write and Seek from them, so that many small accesses turn
// into few slab-sized medium operations. Byte i of the file is byte i of the
// medium; the cache adds no format of its own.
//
// # Quick Start
//
//	m, _ := medium.OpenFile("data.bin", os.O_RDWR|os.O_CREATE, 0o644)
//	f, _ := buffile.Open(m, buffile.WithSlabSize(64<<10), buffile.WithCapacity(32))
//	defer f.Close()
//
//	f.Seek(1<<20, io.SeekStart)
//	f.Write([]byte("hello"))
//
// Object storage:
//
//	store, _ := s3.New(client, "my-bucket")
//	obj, _ := medium.OpenObject(ctx, store, "volumes/a")
//	f, _ := buffile.Open(obj)
//
// # Write-back
//
// Writes only touch memory and mark the slab dirty. Dirty slabs reach the
// medium when they are evicted, on [File.Flush], on [File.SetCapacity] when it
// shrinks the cache, and on [File.Close]. Flush is strict and stops at the
// first failure; Close tries every dirty slab once and returns the joined
// failures. A File that is collected without Close performs the same
// write-back as Close and drops its errors.
//
// # Eviction
//
// When a slab must be loaded and the cache is full, one resident slab is
// written back and replaced. [EvictLFU] (default) replaces the least used
// slab; [EvictFirstSingleUse] prefers a slab that was used exactly once.
//
// # Growth
//
// Writing past the end grows the file and leaves a zero-filled gap. By
// default a read past the end is served as zeros and grows the file the same
// way; [WithShortReads] selects the usual short read and io.EOF instead.
//
// # Errors
//
// Medium failures are returned as [*IOError], which records the operation
// and slab offset and unwraps to the medium's own error. Transient
// interruptions (EINTR and similar) while loading a slab are retried.
package buffile
