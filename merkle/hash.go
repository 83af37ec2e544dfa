package merkle

import (
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// HashSize is the length in bytes of every hash produced by this package.
const HashSize = blake2b.Size256

// Domain prefixes. Hashing the same bytes as a leaf, a parent or a tree
// root must never collide, so each role gets its own leading byte.
const (
	leafType   byte = 0
	parentType byte = 1
	rootType   byte = 2
)

func new256() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only fails for an oversized key and we pass none
		panic(err)
	}
	return h
}

func writeUint64(h hash.Hash, v uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

// LeafHash hashes a block of content. The block's length is folded in ahead
// of the data so that leaves of different sizes hash apart even when one is
// a prefix of the other.
func LeafHash(data []byte) []byte {
	h := new256()
	h.Write([]byte{leafType})
	writeUint64(h, uint64(len(data)))
	h.Write(data)
	return h.Sum(nil)
}

// ParentHash hashes two sibling nodes into their parent's hash. The children
// are normalized into index order first, so argument order does not matter.
func ParentHash(a, b Node) []byte {
	if a.Index > b.Index {
		a, b = b, a
	}
	h := new256()
	h.Write([]byte{parentType})
	writeUint64(h, a.Size+b.Size)
	h.Write(a.Hash)
	h.Write(b.Hash)
	return h.Sum(nil)
}

// RootHash condenses the full roots of a tree into the single hash that gets
// signed. Each root contributes its hash, its flat tree index and its size,
// so the signature pins the tree's exact shape as well as its content.
func RootHash(roots []Node) []byte {
	h := new256()
	h.Write([]byte{rootType})
	for _, r := range roots {
		h.Write(r.Hash)
		writeUint64(h, r.Index)
		writeUint64(h, r.Size)
	}
	return h.Sum(nil)
}
