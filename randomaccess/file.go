package randomaccess

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is a Store backed by a single os file. Contents survive restart; a
// store reopened at the same path resumes with its prior extent. Sparse
// regions inside the extent read as zeroes, courtesy of the filesystem.
type File struct {
	path   string
	f      *os.File
	closed bool
}

// NewFile opens, creating if necessary, a file store at path. Missing parent
// directories are created.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating parent directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	return &File{path: path, f: f}, nil
}

// Path returns the location the store was opened at.
func (s *File) Path() string { return s.path }

func (s *File) Read(offset, length uint64) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if length == 0 {
		return nil, ErrInvalidLength
	}
	b := make([]byte, length)
	if _, err := s.f.ReadAt(b, int64(offset)); err != nil {
		// a short read at the end of the file is the out of range case
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf(
				"%w: [%d:%d) in %s", ErrOutOfRange, offset, offset+length, s.path)
		}
		return nil, err
	}
	return b, nil
}

func (s *File) Write(offset uint64, data []byte) error {
	if s.closed {
		return ErrClosed
	}
	if len(data) == 0 {
		return nil
	}
	_, err := s.f.WriteAt(data, int64(offset))
	return err
}

func (s *File) Len() (uint64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	fi, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(fi.Size()), nil
}

func (s *File) Truncate(length uint64) error {
	if s.closed {
		return ErrClosed
	}
	return s.f.Truncate(int64(length))
}

func (s *File) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}
