// Package medium provides the byte stores a buffered file can sit on top of.
//
// A [Medium] is anything that can read, write and reposition, which is the
// contract io.ReadWriteSeeker already describes. This package adds:
//
//   - [Memory]: an in-memory medium with call counters, used in tests and
//     as a scratch backing store
//   - [File]: a local file opened with random-access hints
//   - [Object]: a medium laid out as fixed-size parts in an [ObjectStore],
//     such as S3 or MinIO (see the s3 and minio subpackages)
//
// # Transient errors
//
// [IsTransient] reports whether an error is an interruption that a caller
// may retry, for example EINTR returned by a slow device.
package medium
