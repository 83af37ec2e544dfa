// Package storage persists a content addressed append only log: raw block
// payloads, the hash tree proving them, a presence bitfield for sparse
// replication, and signatures over tree roots, each in its own byte
// addressed store. The package owns the fixed record formats and the
// arithmetic translating logical block and tree positions into byte offsets,
// the choice of backend belongs to the caller through the store factory.
package storage

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/lukeburns/hypercore-red/keypair"
	"github.com/lukeburns/hypercore-red/merkle"
	"github.com/lukeburns/hypercore-red/randomaccess"
)

// CreateStore yields one byte store per logical kind. The factory is called
// exactly once per kind during construction, and the stores it returns are
// owned by the engine until Close.
type CreateStore func(kind Kind) (randomaccess.Store, error)

type Options struct {
	verifyReads bool
}

type Option func(*Options)

// WithVerifyReads makes GetData re-hash every block it reads and compare the
// digest against the block's cached leaf node, failing with ErrCorrupt on
// disagreement. The default trusts the store, whether reads need proof is
// the caller's policy.
func WithVerifyReads() Option {
	return func(o *Options) {
		o.verifyReads = true
	}
}

// Storage is the persistence engine for one log. It exclusively owns its
// four byte stores and the log's key pair for its lifetime, stores are never
// shared across two instances. Calls must be serialized by the caller, the
// engine provides no internal locking.
type Storage struct {
	log  logger.Logger
	opts Options
	keys keypair.KeyPair

	tree       randomaccess.Store
	data       randomaccess.Store
	bitfield   randomaccess.Store
	signatures randomaccess.Store
}

// New opens the four stores through the factory and writes or validates the
// headers of the tree, bitfield and signatures stores. Construction is all
// or nothing: on any failure the stores opened so far are closed and no
// usable partial state remains. A key pair holding only the public half
// opens the log for reading and verification.
//
// Construction assumes exclusive ownership of the target stores, guarding
// against two processes creating the same log is the caller's concern.
func New(log logger.Logger, keys keypair.KeyPair, create CreateStore, opts ...Option) (*Storage, error) {
	s := &Storage{log: log, keys: keys}
	for _, o := range opts {
		o(&s.opts)
	}

	var err error
	for _, open := range []struct {
		kind  Kind
		store *randomaccess.Store
	}{
		{KindTree, &s.tree},
		{KindData, &s.data},
		{KindBitfield, &s.bitfield},
		{KindSignatures, &s.signatures},
	} {
		if *open.store, err = create(open.kind); err != nil {
			s.Close()
			return nil, fmt.Errorf("%s store: create: %w", open.kind, err)
		}
	}

	for _, kind := range []Kind{KindTree, KindBitfield, KindSignatures} {
		if err = s.initHeader(kind); err != nil {
			s.Close()
			return nil, err
		}
	}

	s.log.Debugf("storage open: log %s", keys)
	return s, nil
}

// NewMemory creates an ephemeral log backed by in process memory. This is
// the one path that generates key material itself, a fresh pair for a log
// that cannot outlive the process.
func NewMemory(log logger.Logger, opts ...Option) (*Storage, error) {
	keys, err := keypair.Generate()
	if err != nil {
		return nil, err
	}
	return New(log, keys, MemoryCreate(), opts...)
}

// NewFile opens or creates a log persisted under dir, one file per store
// kind. Key material is supplied by the caller, this layer never writes it
// to disk.
func NewFile(log logger.Logger, keys keypair.KeyPair, dir string, opts ...Option) (*Storage, error) {
	return New(log, keys, FileCreate(dir), opts...)
}

// MemoryCreate returns a factory producing an independent memory store per
// kind.
func MemoryCreate() CreateStore {
	return func(Kind) (randomaccess.Store, error) {
		return randomaccess.NewMemory(), nil
	}
}

// FileCreate returns a factory producing file stores under dir, named by
// store kind.
func FileCreate(dir string) CreateStore {
	return func(kind Kind) (randomaccess.Store, error) {
		return randomaccess.NewFile(filepath.Join(dir, kind.String()))
	}
}

// Keys returns the log's key pair. The public half is the log's address.
func (s *Storage) Keys() keypair.KeyPair {
	return s.keys
}

func (s *Storage) store(kind Kind) randomaccess.Store {
	switch kind {
	case KindTree:
		return s.tree
	case KindData:
		return s.data
	case KindBitfield:
		return s.bitfield
	default:
		return s.signatures
	}
}

// initHeader writes the store's header on first open and validates it on
// every later one. A header that reads back different from the canonical
// one is fatal, there is no partial recovery from a format mismatch.
func (s *Storage) initHeader(kind Kind) error {
	want, ok := HeaderFor(kind)
	if !ok {
		return nil
	}
	store := s.store(kind)
	length, err := store.Len()
	if err != nil {
		return fmt.Errorf("%s store: %w", kind, err)
	}
	if length == 0 {
		b, err := want.MarshalBinary()
		if err != nil {
			return fmt.Errorf("%s store: %w", kind, err)
		}
		if err = store.Write(0, b); err != nil {
			return fmt.Errorf("%s store: write header: %w", kind, err)
		}
		s.log.Debugf("%s store: wrote header", kind)
		return nil
	}
	if length < HeaderSize {
		return fmt.Errorf("%w: %s store truncated at %d bytes", ErrFormatMismatch, kind, length)
	}
	b, err := store.Read(0, HeaderSize)
	if err != nil {
		return fmt.Errorf("%s store: read header: %w", kind, err)
	}
	var got Header
	if err = got.UnmarshalBinary(b); err != nil {
		return fmt.Errorf("%s store: %w", kind, err)
	}
	if err = got.CheckFormat(want); err != nil {
		return fmt.Errorf("%s store: %w", kind, err)
	}
	return nil
}

// PutData writes a block's payload at its resolved offset. The payload
// length must equal the size recorded on the block's leaf node, on
// disagreement the write is rejected with ErrSizeMismatch and the store is
// untouched. Empty payloads succeed without touching the store at all.
func (s *Storage) PutData(index uint64, data []byte, cached []merkle.Node) error {
	if len(data) == 0 {
		return nil
	}
	offset, size, err := ResolveDataOffset(index, cached)
	if err != nil {
		return err
	}
	if size != uint64(len(data)) {
		return fmt.Errorf("%w: block %d: %d bytes declared, leaf records %d", ErrSizeMismatch, index, len(data), size)
	}
	if err = s.data.Write(offset, data); err != nil {
		return fmt.Errorf("data store: block %d at offset %d: %w", index, offset, err)
	}
	s.log.Debugf("put block %d: %d bytes at offset %d", index, len(data), offset)
	return nil
}

// GetData reads a block's payload from its resolved offset. A block whose
// leaf records size zero yields an empty payload without a store read.
func (s *Storage) GetData(index uint64, cached []merkle.Node) ([]byte, error) {
	offset, size, err := ResolveDataOffset(index, cached)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}
	data, err := s.data.Read(offset, size)
	if err != nil {
		return nil, fmt.Errorf("data store: block %d at offset %d: %w", index, offset, err)
	}
	if s.opts.verifyReads {
		leaf, _ := FindNode(cached, 2*index)
		if !bytes.Equal(leaf.Hash, merkle.LeafHash(data)) {
			return nil, fmt.Errorf("%w: block %d does not hash to its leaf node", ErrCorrupt, index)
		}
	}
	return data, nil
}

// DataOffset resolves the byte range of a block's payload from the cached
// nodes, without touching any store.
func (s *Storage) DataOffset(index uint64, cached []merkle.Node) (uint64, uint64, error) {
	return ResolveDataOffset(index, cached)
}

// GetNode reads the tree node at the flat tree index.
func (s *Storage) GetNode(index uint64) (merkle.Node, error) {
	offset := NodeOffset(index)
	b, err := s.tree.Read(offset, NodeRecordSize)
	if err != nil {
		return merkle.Node{}, fmt.Errorf("tree store: node %d at offset %d: %w", index, offset, err)
	}
	n, err := DecodeNode(index, b)
	if err != nil {
		return merkle.Node{}, fmt.Errorf("tree store: node %d: %w", index, err)
	}
	return n, nil
}

// PutNode writes the node's record at the flat tree index. The index
// parameter places the record, an index carried on the node is not
// consulted.
func (s *Storage) PutNode(index uint64, n merkle.Node) error {
	b, err := EncodeNode(n)
	if err != nil {
		return fmt.Errorf("tree store: node %d: %w", index, err)
	}
	offset := NodeOffset(index)
	if err = s.tree.Write(offset, b); err != nil {
		return fmt.Errorf("tree store: node %d at offset %d: %w", index, offset, err)
	}
	return nil
}

// GetSignature reads the 64 byte signature with the given append sequence
// number.
func (s *Storage) GetSignature(index uint64) ([]byte, error) {
	offset := SignatureOffset(index)
	sig, err := s.signatures.Read(offset, SignatureRecordSize)
	if err != nil {
		return nil, fmt.Errorf("signatures store: signature %d at offset %d: %w", index, offset, err)
	}
	return sig, nil
}

// PutSignature writes the signature record with the given append sequence
// number. Anything other than exactly 64 bytes is rejected before the store
// is touched, a short record would shift every record after it.
func (s *Storage) PutSignature(index uint64, sig []byte) error {
	if len(sig) != SignatureRecordSize {
		return fmt.Errorf("%w: signature %d is %d bytes, records hold %d", ErrSizeMismatch, index, len(sig), SignatureRecordSize)
	}
	offset := SignatureOffset(index)
	if err := s.signatures.Write(offset, sig); err != nil {
		return fmt.Errorf("signatures store: signature %d at offset %d: %w", index, offset, err)
	}
	return nil
}

// NextSignatureIndex returns the append sequence number the next signature
// will occupy. A missing or short signatures store counts as empty.
func (s *Storage) NextSignatureIndex() (uint64, error) {
	length, err := s.signatures.Len()
	if err != nil {
		return 0, fmt.Errorf("signatures store: %w", err)
	}
	if length <= HeaderSize {
		return 0, nil
	}
	return (length - HeaderSize) / SignatureRecordSize, nil
}

// PutBitfield writes raw bitfield bytes at the caller's offset, relative to
// the end of the header. The engine does not interpret bitfield contents.
func (s *Storage) PutBitfield(offset uint64, data []byte) error {
	if err := s.bitfield.Write(BitfieldOffset(offset), data); err != nil {
		return fmt.Errorf("bitfield store: offset %d: %w", offset, err)
	}
	return nil
}

// GetBitfield reads raw bitfield bytes at the caller's offset.
func (s *Storage) GetBitfield(offset, length uint64) ([]byte, error) {
	b, err := s.bitfield.Read(BitfieldOffset(offset), length)
	if err != nil {
		return nil, fmt.Errorf("bitfield store: offset %d: %w", offset, err)
	}
	return b, nil
}

// Len returns the data store's current byte length.
func (s *Storage) Len() (uint64, error) {
	length, err := s.data.Len()
	if err != nil {
		return 0, fmt.Errorf("data store: %w", err)
	}
	return length, nil
}

// Close closes all four stores. Every store is attempted, the first error
// is returned.
func (s *Storage) Close() error {
	var firstErr error
	for _, kind := range []Kind{KindTree, KindData, KindBitfield, KindSignatures} {
		store := s.store(kind)
		if store == nil {
			continue
		}
		if err := store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s store: %w", kind, err)
		}
	}
	return firstErr
}
