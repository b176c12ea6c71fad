// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with read/write/seek/sync capabilities
//   - [FileSystem]: filesystem operations (open, remove, stat, truncate)
//
// # Implementations
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: wraps another FileSystem and injects faults into opened files
//   - [Injector]: injects the same faults into any io.ReadWriteSeeker
//
// # Usage
//
// Production code uses fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
//
// Tests inject faults either per file name:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("data", fs.Fault{FailAfterBytes: 1024, FailReadAfter: -1, FailSeekAfter: -1})
//
// or directly around an in-memory medium:
//
//	inj := fs.Inject(rws, fs.NoFault())
//	inj.SetFault(fs.Fault{FailAfterBytes: 0, FailReadAfter: -1, FailSeekAfter: -1})
//
// # Design Notes
//
// This package does not take context.Context parameters. Local filesystem
// operations are not interruptible at the syscall level.
package fs
