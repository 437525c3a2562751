// Package store implements the pluggable spill storage an Encoder uses to
// accumulate each archive column before it can be compressed and written.
// Spills are append-only while open and forward-only readable once closed,
// matching the reference encoder's choice between an in-memory buffer and
// a scratch file.
package store

import (
	"bytes"
	"io"
	"os"
)

// Spill is a single column's temporary storage: writable until Close,
// readable (once, forward-only) after.
type Spill interface {
	io.Writer
	io.Closer

	// Reader returns a reader over everything written before Close. It
	// is only valid to call after Close and only once.
	Reader() (io.ReadCloser, error)

	// Len returns the number of bytes written.
	Len() int64
}

// Factory creates a fresh Spill for one archive column.
type Factory interface {
	New() (Spill, error)
}

// Memory is a Factory that backs every spill with an in-memory buffer. It
// is fast and bounded by available RAM; use TempDir for very large
// archives.
type Memory struct{}

// New returns a new in-memory spill.
func (Memory) New() (Spill, error) { return &memorySpill{}, nil }

type memorySpill struct {
	buf    bytes.Buffer
	closed bool
}

func (s *memorySpill) Write(p []byte) (int, error) { return s.buf.Write(p) }

func (s *memorySpill) Close() error {
	s.closed = true
	return nil
}

func (s *memorySpill) Len() int64 { return int64(s.buf.Len()) }

func (s *memorySpill) Reader() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.buf.Bytes())), nil
}

// TempDir is a Factory that backs every spill with a scratch file created
// under Dir (the default OS temporary directory if Dir is empty). Slower
// than Memory but bounded by disk rather than RAM; each spill's backing
// file is removed when its reader is closed.
type TempDir struct {
	Dir string
}

// New creates a new scratch file under t.Dir.
func (t TempDir) New() (Spill, error) {
	f, err := os.CreateTemp(t.Dir, "naf-spill-*")
	if err != nil {
		return nil, err
	}
	return &fileSpill{f: f}, nil
}

type fileSpill struct {
	f    *os.File
	size int64
}

func (s *fileSpill) Write(p []byte) (int, error) {
	n, err := s.f.Write(p)
	s.size += int64(n)
	return n, err
}

func (s *fileSpill) Close() error {
	return s.f.Sync()
}

func (s *fileSpill) Len() int64 { return s.size }

func (s *fileSpill) Reader() (io.ReadCloser, error) {
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return &tempFileReader{f: s.f}, nil
}

// tempFileReader removes its backing file once closed.
type tempFileReader struct {
	f *os.File
}

func (r *tempFileReader) Read(p []byte) (int, error) { return r.f.Read(p) }

func (r *tempFileReader) Close() error {
	name := r.f.Name()
	closeErr := r.f.Close()
	removeErr := os.Remove(name)
	if closeErr != nil {
		return closeErr
	}
	return removeErr
}
