package storage

// The on disk format is the SLEEP layout used by the reference hypercore
// implementations: four byte addressed stores, three of which begin with a
// fixed 32 byte header describing the records that follow. The data store
// carries raw block payloads with no header, its offsets are resolved from
// tree node sizes.

import (
	"encoding/binary"
	"fmt"
)

type Kind uint8

const (
	KindTree Kind = iota
	KindData
	KindBitfield
	KindSignatures
)

func (k Kind) String() string {
	switch k {
	case KindTree:
		return "tree"
	case KindData:
		return "data"
	case KindBitfield:
		return "bitfield"
	case KindSignatures:
		return "signatures"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

const (

	// Header layout
	//
	// .     | magic | version | entry size | name len | name    | zero pad |
	// .     | 0 - 3 |    4    |   5 - 6    |    7     | 8 ...   |  ... 31  |
	// bytes |   4   |    1    |     2      |    1     | namelen |          |
	//
	// All integers are big endian. The magic identifies the store kind, the
	// entry size gives the fixed record width for the store, and the name
	// spells the algorithm the records are produced with.

	HeaderSize = 32

	HeaderMagicFirstByte     = 0
	HeaderMagicSize          = 4
	HeaderMagicEnd           = HeaderMagicFirstByte + HeaderMagicSize
	HeaderVersionByte        = HeaderMagicEnd
	HeaderEntrySizeFirstByte = HeaderVersionByte + 1
	HeaderEntrySizeSize      = 2
	HeaderEntrySizeEnd       = HeaderEntrySizeFirstByte + HeaderEntrySizeSize
	HeaderAlgorithmLenByte   = HeaderEntrySizeEnd
	HeaderAlgorithmFirstByte = HeaderAlgorithmLenByte + 1
	HeaderAlgorithmMaxLen    = HeaderSize - HeaderAlgorithmFirstByte

	HeaderCurrentVersion = uint8(0)
)

const (
	MagicBitfield   uint32 = 0x05025700
	MagicSignatures uint32 = 0x05025701
	MagicTree       uint32 = 0x05025702
)

const (
	// NodeRecordSize is the width of one tree node record: a 32 byte hash
	// followed by a big endian uint64 subtree size.
	NodeRecordSize = 40

	// SignatureRecordSize is the width of one Ed25519 signature record.
	SignatureRecordSize = 64

	// BitfieldPageSize is the entry size the bitfield store declares in its
	// header: 1024 bytes of data bitfield, 2048 of tree bitfield and a 256
	// byte index per page.
	BitfieldPageSize = 3328

	AlgorithmTree       = "BLAKE2b"
	AlgorithmSignatures = "Ed25519"
)

// Header is the fixed 32 byte record at the front of every store except data.
// It is written exactly once, when the store is created, and validated on
// every subsequent open.
type Header struct {
	Magic     uint32
	Version   uint8
	EntrySize uint16
	Algorithm string
}

// HeaderFor returns the canonical header for the store kind. The data store
// has no header and returns false.
func HeaderFor(kind Kind) (Header, bool) {
	switch kind {
	case KindTree:
		return Header{Magic: MagicTree, Version: HeaderCurrentVersion, EntrySize: NodeRecordSize, Algorithm: AlgorithmTree}, true
	case KindBitfield:
		return Header{Magic: MagicBitfield, Version: HeaderCurrentVersion, EntrySize: BitfieldPageSize, Algorithm: ""}, true
	case KindSignatures:
		return Header{Magic: MagicSignatures, Version: HeaderCurrentVersion, EntrySize: SignatureRecordSize, Algorithm: AlgorithmSignatures}, true
	default:
		return Header{}, false
	}
}

func (h Header) MarshalBinary() ([]byte, error) {
	return EncodeHeader(h.Magic, h.Version, h.EntrySize, h.Algorithm)
}

func (h *Header) UnmarshalBinary(b []byte) error {
	return DecodeHeader(h, b)
}

// CheckFormat compares a decoded header against the expected one, failing
// with ErrFormatMismatch on the first field that disagrees.
func (h Header) CheckFormat(want Header) error {
	if h.Magic != want.Magic {
		return fmt.Errorf("%w: magic 0x%08x, expected 0x%08x", ErrFormatMismatch, h.Magic, want.Magic)
	}
	if h.Version != want.Version {
		return fmt.Errorf("%w: version %d, expected %d", ErrFormatMismatch, h.Version, want.Version)
	}
	if h.EntrySize != want.EntrySize {
		return fmt.Errorf("%w: entry size %d, expected %d", ErrFormatMismatch, h.EntrySize, want.EntrySize)
	}
	if h.Algorithm != want.Algorithm {
		return fmt.Errorf("%w: algorithm %q, expected %q", ErrFormatMismatch, h.Algorithm, want.Algorithm)
	}
	return nil
}

// EncodeHeader encodes the header values in the prescribed 32 byte record
// format. The unused tail bytes are zero.
func EncodeHeader(magic uint32, version uint8, entrySize uint16, algorithm string) ([]byte, error) {
	if len(algorithm) > HeaderAlgorithmMaxLen {
		return nil, fmt.Errorf("%w: algorithm name %q does not fit the header", ErrFormatMismatch, algorithm)
	}
	b := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(b[HeaderMagicFirstByte:HeaderMagicEnd], magic)
	b[HeaderVersionByte] = version
	binary.BigEndian.PutUint16(b[HeaderEntrySizeFirstByte:HeaderEntrySizeEnd], entrySize)
	b[HeaderAlgorithmLenByte] = uint8(len(algorithm))
	copy(b[HeaderAlgorithmFirstByte:], algorithm)
	return b, nil
}

func DecodeHeader(h *Header, b []byte) error {
	if len(b) < HeaderSize {
		return fmt.Errorf("%w: header needs %d bytes, got %d", ErrCorrupt, HeaderSize, len(b))
	}
	nameLen := int(b[HeaderAlgorithmLenByte])
	if nameLen > HeaderAlgorithmMaxLen {
		return fmt.Errorf("%w: algorithm name length %d exceeds the header", ErrCorrupt, nameLen)
	}
	h.Magic = binary.BigEndian.Uint32(b[HeaderMagicFirstByte:HeaderMagicEnd])
	h.Version = b[HeaderVersionByte]
	h.EntrySize = binary.BigEndian.Uint16(b[HeaderEntrySizeFirstByte:HeaderEntrySizeEnd])
	h.Algorithm = string(b[HeaderAlgorithmFirstByte : HeaderAlgorithmFirstByte+nameLen])
	return nil
}

// NodeOffset returns the byte position of the tree node record for the flat
// tree index.
func NodeOffset(index uint64) uint64 {
	return HeaderSize + NodeRecordSize*index
}

// SignatureOffset returns the byte position of the signature record for the
// append sequence number.
func SignatureOffset(index uint64) uint64 {
	return HeaderSize + SignatureRecordSize*index
}

// BitfieldOffset translates a caller relative bitfield offset to its byte
// position after the header.
func BitfieldOffset(offset uint64) uint64 {
	return HeaderSize + offset
}
