package fs

import (
	"errors"
	"io"
	"sync"
	"syscall"
)

// errInjected is returned when a Fault carries no Err of its own.
var errInjected = errors.New("injected fault error")

// Fault defines specific failure behavior.
type Fault struct {
	FailAfterBytes int64 // Fail writes once this many bytes have been written. -1 to disable.
	FailReadAfter  int64 // Fail reads once this many bytes have been read. -1 to disable.
	FailSeekAfter  int64 // Fail seeks once this many seeks have succeeded. -1 to disable.
	FailOnSync     bool
	FailOnClose    bool

	// ShortWrites makes every write of more than one byte persist only half of
	// the buffer and report the short count without an error.
	ShortWrites bool

	// ReadInterrupts is the number of times each read fails with
	// syscall.EINTR before it is let through.
	ReadInterrupts int

	Err error
}

// NoFault returns a Fault that injects nothing.
func NoFault() Fault {
	return Fault{
		FailAfterBytes: -1,
		FailReadAfter:  -1,
		FailSeekAfter:  -1,
	}
}

func (f Fault) err() error {
	if f.Err != nil {
		return f.Err
	}
	return errInjected
}

// Injector wraps an io.ReadWriteSeeker and injects the configured Fault.
// It is safe for concurrent use.
type Injector struct {
	rws io.ReadWriteSeeker

	mu          sync.Mutex
	fault       Fault
	read        int64
	written     int64
	seeks       int64
	interrupted int

	reads  int
	writes int
}

// Inject wraps rws with fault injection.
func Inject(rws io.ReadWriteSeeker, fault Fault) *Injector {
	return &Injector{rws: rws, fault: fault}
}

// SetFault replaces the active fault and resets the byte and seek counters
// the fault thresholds are measured against.
func (i *Injector) SetFault(fault Fault) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.fault = fault
	i.read, i.written, i.seeks, i.interrupted = 0, 0, 0, 0
}

// Written returns the bytes written since the last SetFault.
func (i *Injector) Written() int64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.written
}

// Calls returns the number of Read and Write calls that reached the
// underlying medium.
func (i *Injector) Calls() (reads, writes int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.reads, i.writes
}

func (i *Injector) Read(p []byte) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.interrupted < i.fault.ReadInterrupts {
		i.interrupted++
		return 0, syscall.EINTR
	}
	i.interrupted = 0

	if i.fault.FailReadAfter >= 0 && i.read+int64(len(p)) > i.fault.FailReadAfter {
		return 0, i.fault.err()
	}

	n, err := i.rws.Read(p)
	i.read += int64(n)
	i.reads++
	return n, err
}

func (i *Injector) Write(p []byte) (int, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.fault.FailAfterBytes >= 0 && i.written+int64(len(p)) > i.fault.FailAfterBytes {
		return 0, i.fault.err()
	}

	buf := p
	if i.fault.ShortWrites && len(p) > 1 {
		buf = p[:len(p)/2]
	}

	n, err := i.rws.Write(buf)
	i.written += int64(n)
	i.writes++
	return n, err
}

func (i *Injector) Seek(offset int64, whence int) (int64, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.fault.FailSeekAfter >= 0 && i.seeks >= i.fault.FailSeekAfter {
		return 0, i.fault.err()
	}

	pos, err := i.rws.Seek(offset, whence)
	if err == nil {
		i.seeks++
	}
	return pos, err
}
