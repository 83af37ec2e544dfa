// Package merkle defines the hash tree node and the hashing scheme the tree
// is built with: BLAKE2b-256 with a one byte domain prefix separating leaf,
// parent and root hashes, and sizes accumulated alongside so that every
// interior node knows the total byte length of the leaves beneath it.
package merkle

import (
	"github.com/lukeburns/hypercore-red/flattree"
)

// Node is one vertex of the hash tree over a log's blocks.
//
// Index is the node's flat tree position: block n's leaf sits at index 2n
// and interior nodes at the odd indices between. Size is the cumulative byte
// length of every leaf in the node's subtree, which is what makes block
// offsets recoverable from tree metadata alone. Hash is HashSize bytes.
type Node struct {
	Index uint64
	Hash  []byte
	Size  uint64
}

// LeafNode hashes a block's content into its leaf node. The index recorded
// is the flat tree position 2*block.
func LeafNode(block uint64, data []byte) Node {
	return Node{
		Index: 2 * block,
		Hash:  LeafHash(data),
		Size:  uint64(len(data)),
	}
}

// ParentNode combines two sibling nodes into their parent. The children may
// be given in either order.
func ParentNode(a, b Node) Node {
	if a.Index > b.Index {
		a, b = b, a
	}
	return Node{
		Index: flattree.Parent(a.Index),
		Hash:  ParentHash(a, b),
		Size:  a.Size + b.Size,
	}
}
