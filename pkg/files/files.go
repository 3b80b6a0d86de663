// Package files resolves user supplied file names against the data
// directory and opens them, compressing or decompressing by extension.
package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Resolver maps file names to paths on an afero filesystem.
//
// Reads try the name as given first and then, for relative names, the same
// name inside the data directory. Relative writes always land in the data
// directory when one is set.
type Resolver struct {
	fs  afero.Fs
	dir string
}

// NewResolver creates a resolver rooted at dir. An empty dir disables the
// fallback and leaves relative names relative to the working directory.
func NewResolver(fs afero.Fs, dir string) *Resolver {
	return &Resolver{fs: fs, dir: dir}
}

// Dir returns the data directory
func (r *Resolver) Dir() string {
	return r.dir
}

func (r *Resolver) candidates(name string) []string {
	paths := []string{name}
	if r.dir != "" && !filepath.IsAbs(name) {
		paths = append(paths, filepath.Join(r.dir, name))
	}
	return paths
}

// Locate returns the first candidate path for name that exists
func (r *Resolver) Locate(name string) (string, error) {
	var firstErr error
	for _, p := range r.candidates(name) {
		_, err := r.fs.Stat(p)
		if err == nil {
			return p, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", firstErr
}

// WritePath returns the path a write of name goes to
func (r *Resolver) WritePath(name string) string {
	if r.dir != "" && !filepath.IsAbs(name) {
		return filepath.Join(r.dir, name)
	}
	return name
}

// Open opens name for reading and returns the path that was used
func (r *Resolver) Open(name string) (io.ReadCloser, string, error) {
	path, err := r.Locate(name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %q: %w", name, err)
	}

	f, err := r.fs.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %q: %w", path, err)
	}

	rc, err := wrapReader(f, CompressionFor(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %q: %w", path, err)
	}
	return rc, path, nil
}

// Writer is a file opened for writing. Close must be called to flush any
// compressed stream.
type Writer struct {
	Path string

	file  afero.File
	count *countingWriter
	comp  io.WriteCloser
	out   io.Writer
}

// Write writes uncompressed bytes
func (w *Writer) Write(p []byte) (int, error) {
	return w.out.Write(p)
}

// Close flushes the compressor and closes the file
func (w *Writer) Close() error {
	var errs []error
	if w.comp != nil {
		errs = append(errs, w.comp.Close())
	}
	errs = append(errs, w.file.Close())
	return errors.Join(errs...)
}

// Size returns the number of bytes written to the file itself
func (w *Writer) Size() int64 {
	return w.count.n
}

// Create truncates or creates the write path for name
func (r *Resolver) Create(name string) (*Writer, error) {
	path := r.WritePath(name)

	f, err := r.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %q: %w", path, err)
	}

	w := &Writer{Path: path, file: f, count: &countingWriter{w: f}}
	comp, err := wrapWriter(w.count, CompressionFor(path))
	if err != nil {
		f.Close()
		return nil, err
	}

	w.out = w.count
	if comp != nil {
		w.comp = comp
		w.out = comp
	}
	return w, nil
}

// WriteFile creates name and hands the writer to fn. The file is closed
// whether or not fn succeeds; the returned size counts bytes on disk.
func (r *Resolver) WriteFile(name string, fn func(io.Writer) error) (string, int64, error) {
	w, err := r.Create(name)
	if err != nil {
		return "", 0, err
	}

	if err := fn(w); err != nil {
		w.Close()
		return w.Path, w.Size(), err
	}
	if err := w.Close(); err != nil {
		return w.Path, w.Size(), fmt.Errorf("failed to close %q: %w", w.Path, err)
	}
	return w.Path, w.Size(), nil
}

// ReadFile opens name and hands the reader to fn
func (r *Resolver) ReadFile(name string, fn func(io.Reader) error) (string, error) {
	rc, path, err := r.Open(name)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	return path, fn(rc)
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
