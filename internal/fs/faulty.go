package fs

import (
	"os"
	"strings"
	"sync"
)

// FaultyFS is a FileSystem wrapper that can inject errors.
type FaultyFS struct {
	FS      FileSystem
	mu      sync.Mutex
	rules   map[string]Fault // Filename pattern -> Fault
	Default Fault            // Fallback
	opened  map[string]*Injector
}

// NewFaultyFS creates a new FaultyFS wrapping the provided FS (or Default if nil).
func NewFaultyFS(fs FileSystem) *FaultyFS {
	if fs == nil {
		fs = Default
	}
	return &FaultyFS{
		FS:      fs,
		rules:   make(map[string]Fault),
		Default: NoFault(),
		opened:  make(map[string]*Injector),
	}
}

// AddRule adds a fault injection rule for a specific file pattern.
func (f *FaultyFS) AddRule(pattern string, fault Fault) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[pattern] = fault
}

// Injector returns the injector of the most recently opened file with the
// given name, or nil.
func (f *FaultyFS) Injector(name string) *Injector {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened[name]
}

func (f *FaultyFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	file, err := f.FS.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	fault := f.Default
	// Longest matching pattern wins.
	matched := -1
	for pattern, rule := range f.rules {
		if strings.Contains(name, pattern) && len(pattern) > matched {
			fault = rule
			matched = len(pattern)
		}
	}

	ff := &faultyFile{File: file, inj: Inject(file, fault), fault: fault}
	f.opened[name] = ff.inj
	return ff, nil
}

type faultyFile struct {
	File
	inj   *Injector
	fault Fault
}

func (ff *faultyFile) Read(p []byte) (int, error)  { return ff.inj.Read(p) }
func (ff *faultyFile) Write(p []byte) (int, error) { return ff.inj.Write(p) }
func (ff *faultyFile) Seek(offset int64, whence int) (int64, error) {
	return ff.inj.Seek(offset, whence)
}

func (ff *faultyFile) Sync() error {
	if ff.fault.FailOnSync {
		return ff.fault.err()
	}
	return ff.File.Sync()
}

func (ff *faultyFile) Close() error {
	if ff.fault.FailOnClose {
		_ = ff.File.Close()
		return ff.fault.err()
	}
	return ff.File.Close()
}
