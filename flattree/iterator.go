package flattree

// Iterator is a stateful cursor over the flat index space. It avoids
// recomputing depth and offset on every move, which matters to callers that
// walk long paths, such as replicators following a proof from a leaf to a
// root.
//
// The zero value is positioned on leaf 0 only after a call to Seek; use
// NewIterator to get a ready cursor.
type Iterator struct {
	index  uint64
	offset uint64
	// factor is the width, in flat index slots, of the subtree rooted at the
	// current position: 2 << depth. Leaves have factor 2.
	factor uint64
}

// NewIterator returns a cursor positioned on index i.
func NewIterator(i uint64) *Iterator {
	it := &Iterator{}
	it.Seek(i)
	return it
}

// Index returns the flat index of the current position.
func (it *Iterator) Index() uint64 { return it.index }

// Offset returns the horizontal offset of the current position within its
// depth row.
func (it *Iterator) Offset() uint64 { return it.offset }

// Factor returns the flat index distance between the current node and its
// next same-depth sibling.
func (it *Iterator) Factor() uint64 { return it.factor }

// Seek moves the cursor to an arbitrary index.
func (it *Iterator) Seek(i uint64) {
	it.index = i
	if i&1 == 1 {
		it.offset = Offset(i)
		it.factor = 2 << Depth(i)
		return
	}
	it.offset = i / 2
	it.factor = 2
}

// IsLeft reports whether the current node is the left child of its parent.
func (it *Iterator) IsLeft() bool { return it.offset&1 == 0 }

// IsRight reports whether the current node is the right child of its parent.
func (it *Iterator) IsRight() bool { return it.offset&1 == 1 }

// Prev moves to the previous node at the current depth and returns its
// index. At offset zero there is nowhere to go and the cursor stays put.
func (it *Iterator) Prev() uint64 {
	if it.offset == 0 {
		return it.index
	}
	it.offset--
	it.index -= it.factor
	return it.index
}

// Next moves to the next node at the current depth and returns its index.
func (it *Iterator) Next() uint64 {
	it.offset++
	it.index += it.factor
	return it.index
}

// Sibling moves to the other child of the current node's parent and returns
// its index.
func (it *Iterator) Sibling() uint64 {
	if it.IsLeft() {
		return it.Next()
	}
	return it.Prev()
}

// Parent moves to the parent of the current node and returns its index.
func (it *Iterator) Parent() uint64 {
	if it.offset&1 == 1 {
		it.index -= it.factor / 2
		it.offset = (it.offset - 1) / 2
	} else {
		it.index += it.factor / 2
		it.offset /= 2
	}
	it.factor *= 2
	return it.index
}

// LeftChild descends to the left child, or stays put on a leaf.
func (it *Iterator) LeftChild() uint64 {
	if it.factor == 2 {
		return it.index
	}
	it.factor /= 2
	it.index -= it.factor / 2
	it.offset *= 2
	return it.index
}

// RightChild descends to the right child, or stays put on a leaf.
func (it *Iterator) RightChild() uint64 {
	if it.factor == 2 {
		return it.index
	}
	it.factor /= 2
	it.index += it.factor / 2
	it.offset = 2*it.offset + 1
	return it.index
}

// LeftSpan moves to the left most leaf of the subtree rooted at the current
// node and returns its index.
func (it *Iterator) LeftSpan() uint64 {
	it.index = it.index - it.factor/2 + 1
	it.offset = it.index / 2
	it.factor = 2
	return it.index
}

// RightSpan moves to the right most leaf of the subtree rooted at the
// current node and returns its index.
func (it *Iterator) RightSpan() uint64 {
	it.index = it.index + it.factor/2 - 1
	it.offset = it.index / 2
	it.factor = 2
	return it.index
}
