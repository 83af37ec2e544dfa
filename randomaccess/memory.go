package randomaccess

import "fmt"

// Memory is a Store backed by a single growable buffer. It offers no
// persistence and is bounded only by available memory. The zero value is
// ready to use.
type Memory struct {
	buf    []byte
	closed bool
}

// NewMemory returns an empty memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (s *Memory) Read(offset, length uint64) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if length == 0 {
		return nil, ErrInvalidLength
	}
	if offset+length > uint64(len(s.buf)) {
		return nil, fmt.Errorf(
			"%w: [%d:%d) exceeds length %d", ErrOutOfRange, offset, offset+length, len(s.buf))
	}
	b := make([]byte, length)
	copy(b, s.buf[offset:offset+length])
	return b, nil
}

func (s *Memory) Write(offset uint64, data []byte) error {
	if s.closed {
		return ErrClosed
	}
	if len(data) == 0 {
		return nil
	}
	if end := offset + uint64(len(data)); end > uint64(len(s.buf)) {
		// zero fill any gap between the old extent and offset
		s.buf = append(s.buf, make([]byte, end-uint64(len(s.buf)))...)
	}
	copy(s.buf[offset:], data)
	return nil
}

func (s *Memory) Len() (uint64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return uint64(len(s.buf)), nil
}

func (s *Memory) Truncate(length uint64) error {
	if s.closed {
		return ErrClosed
	}
	if length <= uint64(len(s.buf)) {
		s.buf = s.buf[:length]
		return nil
	}
	s.buf = append(s.buf, make([]byte, length-uint64(len(s.buf)))...)
	return nil
}

func (s *Memory) Close() error {
	s.closed = true
	s.buf = nil
	return nil
}
