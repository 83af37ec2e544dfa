package flattree

import "math/bits"

// Depth returns the depth of the tree node at index i. Leaves are at depth
// zero. Because of the trailing-ones encoding this is a single instruction on
// most platforms.
//
//	2       3
//	      /   \
//	1    1     5
//	    / \   / \
//	0  0   2 4   6
//
// Depth(1) == 1, Depth(3) == 2, Depth(4) == 0.
func Depth(i uint64) uint64 {
	return uint64(bits.TrailingZeros64(^i))
}

// Offset returns the horizontal offset of index i within its depth row. The
// left most node at any depth has offset zero.
//
// Offset(0) == 0, Offset(4) == 2, Offset(5) == 1, Offset(3) == 0.
func Offset(i uint64) uint64 {
	return i >> (Depth(i) + 1)
}

// Index recombines a depth and an offset into a flat index. It is the
// inverse of the Depth/Offset pair:
//
//	Index(Depth(i), Offset(i)) == i
func Index(depth, offset uint64) uint64 {
	return (offset << (depth + 1)) | ((1 << depth) - 1)
}

// Parent returns the index of the parent of i. Every index has a parent;
// whether the parent exists in a particular tree depends on how many leaves
// that tree has, which is the caller's knowledge.
func Parent(i uint64) uint64 {
	d := Depth(i)
	return Index(d+1, Offset(i)>>1)
}

// Sibling returns the index of the other child of i's parent.
func Sibling(i uint64) uint64 {
	d := Depth(i)
	return Index(d, Offset(i)^1)
}

// Uncle returns the sibling of i's parent.
func Uncle(i uint64) uint64 {
	d := Depth(i)
	return Index(d+1, (Offset(i)>>1)^1)
}

// LeftChild returns the left child of i. Leaves have no children, indicated
// by the false return.
func LeftChild(i uint64) (uint64, bool) {
	d := Depth(i)
	if d == 0 {
		return 0, false
	}
	return Index(d-1, Offset(i)<<1), true
}

// RightChild returns the right child of i. Leaves have no children,
// indicated by the false return.
func RightChild(i uint64) (uint64, bool) {
	d := Depth(i)
	if d == 0 {
		return 0, false
	}
	return Index(d-1, (Offset(i)<<1)+1), true
}

// Children returns both children of i, or false if i is a leaf.
func Children(i uint64) (uint64, uint64, bool) {
	d := Depth(i)
	if d == 0 {
		return 0, 0, false
	}
	left := Index(d-1, Offset(i)<<1)
	return left, left + (1 << d), true
}

// LeftSpan returns the index of the left most leaf in the subtree rooted at
// i. For a leaf it is i itself.
func LeftSpan(i uint64) uint64 {
	return i - ((1 << Depth(i)) - 1)
}

// RightSpan returns the index of the right most leaf in the subtree rooted
// at i. For a leaf it is i itself.
func RightSpan(i uint64) uint64 {
	return i + (1 << Depth(i)) - 1
}

// Spans returns the left and right leaf indices bounding the subtree rooted
// at i.
func Spans(i uint64) (uint64, uint64) {
	half := (uint64(1) << Depth(i)) - 1
	return i - half, i + half
}

// Count returns the number of nodes in the perfect subtree rooted at i,
// including i itself. A subtree at depth d holds (2 << d) - 1 nodes.
func Count(i uint64) uint64 {
	return (2 << Depth(i)) - 1
}

// CountLeaves returns the number of leaves in the perfect subtree rooted at
// i.
func CountLeaves(i uint64) uint64 {
	return 1 << Depth(i)
}
