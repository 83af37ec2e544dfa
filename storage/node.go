package storage

// Tree node record layout
//
// .     | hash  |  size   |
// .     | 0 -31 | 32 - 39 |
// bytes |  32   |    8    |
//
// The flat tree index is not part of the record, it is implied by the
// record's position in the tree store.

import (
	"encoding/binary"
	"fmt"

	"github.com/lukeburns/hypercore-red/merkle"
)

// EncodeNode encodes the node's hash and subtree size in the prescribed 40
// byte record format.
func EncodeNode(n merkle.Node) ([]byte, error) {
	if len(n.Hash) != merkle.HashSize {
		return nil, fmt.Errorf("%w: node hash is %d bytes, records hold %d", ErrSizeMismatch, len(n.Hash), merkle.HashSize)
	}
	b := make([]byte, NodeRecordSize)
	copy(b, n.Hash)
	binary.BigEndian.PutUint64(b[merkle.HashSize:], n.Size)
	return b, nil
}

// DecodeNode decodes a 40 byte tree node record. The index is taken from the
// record's position and carried on the returned node.
func DecodeNode(index uint64, b []byte) (merkle.Node, error) {
	if len(b) != NodeRecordSize {
		return merkle.Node{}, fmt.Errorf("%w: node record needs %d bytes, got %d", ErrCorrupt, NodeRecordSize, len(b))
	}
	hash := make([]byte, merkle.HashSize)
	copy(hash, b)
	return merkle.Node{
		Index: index,
		Hash:  hash,
		Size:  binary.BigEndian.Uint64(b[merkle.HashSize:]),
	}, nil
}
