// Package fs provides the read-only filesystem used to load documents.
package fs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// ContextualFs is a read-only afero.Fs that resolves relative paths against
// a working directory.
type ContextualFs struct {
	afero.Fs
	workingDir string
}

var _ afero.Fs = (*ContextualFs)(nil)

// NewContextualFs wraps baseFs read-only, rooted for relative paths at workingDir.
func NewContextualFs(baseFs afero.Fs, workingDir string) *ContextualFs {
	return &ContextualFs{
		Fs:         afero.NewReadOnlyFs(baseFs),
		workingDir: workingDir,
	}
}

// NewOsFs returns a ContextualFs over the OS filesystem rooted at the
// process working directory.
func NewOsFs() (*ContextualFs, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewContextualFs(afero.NewOsFs(), wd), nil
}

// resolvePath resolves a path relative to the working directory if it's not absolute
func (c *ContextualFs) resolvePath(path string) string {
	if path == "" {
		if c.workingDir == "" {
			return "."
		}
		return c.workingDir
	}

	if filepath.IsAbs(path) || c.workingDir == "" {
		return path
	}
	return filepath.Join(c.workingDir, path)
}

func (c *ContextualFs) Name() string {
	return "ContextualFs"
}

func (c *ContextualFs) Open(name string) (afero.File, error) {
	return c.Fs.Open(c.resolvePath(name))
}

func (c *ContextualFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	return c.Fs.OpenFile(c.resolvePath(name), flag, perm)
}

func (c *ContextualFs) Stat(name string) (os.FileInfo, error) {
	return c.Fs.Stat(c.resolvePath(name))
}

func (c *ContextualFs) Chtimes(name string, atime, mtime time.Time) error {
	return c.Fs.Chtimes(c.resolvePath(name), atime, mtime)
}

// GetWorkingDir returns the current working directory
func (c *ContextualFs) GetWorkingDir() string {
	return c.workingDir
}

// ErrTooLarge is returned by ReadFileLimit for files over the limit.
var ErrTooLarge = errors.New("file too large")

// ReadFileLimit reads name from fsys, refusing files larger than limit
// bytes. A limit <= 0 reads the whole file.
func ReadFileLimit(fsys afero.Fs, name string, limit int64) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", name)
	}
	if limit > 0 && info.Size() > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrTooLarge, name, info.Size(), limit)
	}

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit)
	}
	return io.ReadAll(r)
}
