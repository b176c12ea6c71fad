package medium

import (
	"os"

	"github.com/hupe1980/buffile/internal/fs"
)

// File is a local file used as a medium.
type File struct {
	fs.File
	name string
}

// OpenFile opens the named file for use as a medium. The kernel is told to
// expect random access, since the buffered file above does its own
// read-ahead in slab-sized chunks.
func OpenFile(name string, flag int, perm os.FileMode) (*File, error) {
	return openFile(fs.Default, name, flag, perm)
}

func openFile(fsys fs.FileSystem, name string, flag int, perm os.FileMode) (*File, error) {
	f, err := fsys.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	adviseRandom(f)
	return &File{File: f, name: name}, nil
}

// Name returns the path the file was opened with.
func (f *File) Name() string {
	return f.name
}

// Size returns the current size of the file on disk.
func (f *File) Size() (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
