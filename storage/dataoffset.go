package storage

import (
	"fmt"

	"github.com/lukeburns/hypercore-red/flattree"
	"github.com/lukeburns/hypercore-red/merkle"
)

// ResolveDataOffset computes the byte range of a block's payload in the data
// store from cached tree nodes alone. No separate offset index is stored, the
// sizes recorded on interior nodes are sufficient.
//
// The blocks before the wanted one decompose into full subtrees, and each
// subtree root carries the combined byte length of the leaves under it. For
// block 2 of a five block log:
//
//	        3
//	    1       5
//	  0   2   4   6   8
//	 [a] [b] [c] [d] [e]
//
// the decomposition of the first two blocks is the single root 1, so the
// payload of block 2 begins at size(1) and spans size(4) bytes.
//
// Every node consulted, including the block's own leaf, must be present in
// cached or the call fails with ErrMissingNode naming the absent flat index.
// This layer performs no reads of its own, fetching nodes belongs to the
// caller.
func ResolveDataOffset(index uint64, cached []merkle.Node) (uint64, uint64, error) {
	var offset uint64
	for _, root := range flattree.FullRoots(index) {
		n, ok := FindNode(cached, root)
		if !ok {
			return 0, 0, fmt.Errorf("%w: flat index %d", ErrMissingNode, root)
		}
		offset += n.Size
	}
	leaf, ok := FindNode(cached, 2*index)
	if !ok {
		return 0, 0, fmt.Errorf("%w: flat index %d", ErrMissingNode, 2*index)
	}
	return offset, leaf.Size, nil
}

// FindNode returns the cached node with the given flat tree index.
func FindNode(cached []merkle.Node, index uint64) (merkle.Node, bool) {
	for _, n := range cached {
		if n.Index == index {
			return n, true
		}
	}
	return merkle.Node{}, false
}
