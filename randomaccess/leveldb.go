package randomaccess

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

// DefaultPageSize is the chunk size used by LevelDB stores unless
// overridden. Small enough that a record-sized write touches one or two
// pages, large enough that the page count stays manageable for big logs.
const DefaultPageSize = 4096

// LevelDB is a Store that chunks the byte space into fixed size pages held
// as values in a leveldb database. It exists so the four stores of a log can
// be embedded in a database the host application already operates, rather
// than as loose files.
//
// Several stores may share one database provided they are given distinct,
// equal length key prefixes; a single byte per store kind is the expected
// scheme. The database handle is owned by the caller: Close marks the store
// unusable but leaves the database open.
//
// Pages are keyed prefix ++ big endian uint64 page number. The written
// length is kept under prefix ++ 'L', and is committed in the same batch as
// the pages it accounts for, so a store can never observe a length that the
// pages do not back.
type LevelDB struct {
	db       *leveldb.DB
	prefix   []byte
	pageSize uint64
	length   uint64
	closed   bool
}

// LevelDBOption configures a LevelDB store at construction.
type LevelDBOption func(*LevelDB)

// WithPageSize overrides DefaultPageSize. The page size is fixed at creation
// and must match on reopen; it is not recorded in the database.
func WithPageSize(n uint64) LevelDBOption {
	return func(s *LevelDB) {
		s.pageSize = n
	}
}

// NewLevelDB opens a page-chunked store inside db under the given key
// prefix, recovering the written length left by a previous instance.
func NewLevelDB(db *leveldb.DB, prefix []byte, opts ...LevelDBOption) (*LevelDB, error) {
	s := &LevelDB{
		db:       db,
		prefix:   append([]byte(nil), prefix...),
		pageSize: DefaultPageSize,
	}
	for _, o := range opts {
		o(s)
	}
	if s.pageSize == 0 {
		return nil, fmt.Errorf("page size must be greater than zero")
	}

	v, err := db.Get(s.lengthKey(), nil)
	switch {
	case err == nil:
		if len(v) != 8 {
			return nil, fmt.Errorf("malformed length record under prefix %x", s.prefix)
		}
		s.length = binary.BigEndian.Uint64(v)
	case errors.Is(err, leveldb.ErrNotFound):
		// fresh store
	default:
		return nil, err
	}
	return s, nil
}

func (s *LevelDB) lengthKey() []byte {
	return append(append([]byte(nil), s.prefix...), 'L')
}

func (s *LevelDB) pageKey(page uint64) []byte {
	k := make([]byte, len(s.prefix)+8)
	copy(k, s.prefix)
	binary.BigEndian.PutUint64(k[len(s.prefix):], page)
	return k
}

// readPage returns the page as a full pageSize buffer, zero filled where the
// database holds nothing.
func (s *LevelDB) readPage(page uint64) ([]byte, error) {
	b := make([]byte, s.pageSize)
	v, err := s.db.Get(s.pageKey(page), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return b, nil
		}
		return nil, err
	}
	copy(b, v)
	return b, nil
}

func (s *LevelDB) Read(offset, length uint64) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if length == 0 {
		return nil, ErrInvalidLength
	}
	if offset+length > s.length {
		return nil, fmt.Errorf(
			"%w: [%d:%d) exceeds length %d", ErrOutOfRange, offset, offset+length, s.length)
	}

	b := make([]byte, length)
	end := offset + length
	for page := offset / s.pageSize; page*s.pageSize < end; page++ {
		pageStart := page * s.pageSize
		from := max(offset, pageStart)
		to := min(end, pageStart+s.pageSize)

		pb, err := s.readPage(page)
		if err != nil {
			return nil, err
		}
		copy(b[from-offset:to-offset], pb[from-pageStart:to-pageStart])
	}
	return b, nil
}

func (s *LevelDB) Write(offset uint64, data []byte) error {
	if s.closed {
		return ErrClosed
	}
	if len(data) == 0 {
		return nil
	}

	end := offset + uint64(len(data))
	batch := new(leveldb.Batch)

	for page := offset / s.pageSize; page*s.pageSize < end; page++ {
		pageStart := page * s.pageSize
		from := max(offset, pageStart)
		to := min(end, pageStart+s.pageSize)

		if to-from == s.pageSize {
			// whole page replaced, no read needed
			batch.Put(s.pageKey(page), data[from-offset:to-offset])
			continue
		}
		pb, err := s.readPage(page)
		if err != nil {
			return err
		}
		copy(pb[from-pageStart:to-pageStart], data[from-offset:to-offset])
		batch.Put(s.pageKey(page), pb)
	}

	length := s.length
	if end > length {
		length = end
	}
	var lv [8]byte
	binary.BigEndian.PutUint64(lv[:], length)
	batch.Put(s.lengthKey(), lv[:])

	if err := s.db.Write(batch, nil); err != nil {
		return err
	}
	s.length = length
	return nil
}

func (s *LevelDB) Len() (uint64, error) {
	if s.closed {
		return 0, ErrClosed
	}
	return s.length, nil
}

func (s *LevelDB) Truncate(length uint64) error {
	if s.closed {
		return ErrClosed
	}

	batch := new(leveldb.Batch)

	if length < s.length {
		// drop every page wholly beyond the new length, and zero the tail of
		// the page the new length lands in
		firstDead := (length + s.pageSize - 1) / s.pageSize
		lastLive := (s.length - 1) / s.pageSize
		for page := firstDead; page <= lastLive; page++ {
			batch.Delete(s.pageKey(page))
		}
		if length%s.pageSize != 0 {
			pb, err := s.readPage(length / s.pageSize)
			if err != nil {
				return err
			}
			for i := length % s.pageSize; i < s.pageSize; i++ {
				pb[i] = 0
			}
			batch.Put(s.pageKey(length/s.pageSize), pb)
		}
	}

	var lv [8]byte
	binary.BigEndian.PutUint64(lv[:], length)
	batch.Put(s.lengthKey(), lv[:])

	if err := s.db.Write(batch, nil); err != nil {
		return err
	}
	s.length = length
	return nil
}

// Close marks the store closed. The underlying database belongs to the
// caller and is left open.
func (s *LevelDB) Close() error {
	s.closed = true
	return nil
}
