package flattree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIteratorLeafWalk(t *testing.T) {
	it := NewIterator(0)
	assert.Equal(t, uint64(0), it.Index())
	assert.True(t, it.IsLeft())

	// leaves advance two flat slots at a time
	assert.Equal(t, uint64(2), it.Next())
	assert.Equal(t, uint64(4), it.Next())
	assert.Equal(t, uint64(6), it.Next())
	assert.Equal(t, uint64(4), it.Prev())

	// prev at the left edge stays put
	it.Seek(0)
	assert.Equal(t, uint64(0), it.Prev())
}

func TestIteratorMatchesArithmetic(t *testing.T) {
	// Whatever the pure functions say, the cursor must agree, from any
	// starting position.
	for i := uint64(0); i < 1024; i++ {
		it := NewIterator(i)
		require.Equal(t, Offset(i), it.Offset(), "offset of %d", i)

		require.Equal(t, Parent(i), it.Parent(), "parent of %d", i)

		it.Seek(i)
		require.Equal(t, Sibling(i), it.Sibling(), "sibling of %d", i)

		it.Seek(i)
		require.Equal(t, LeftSpan(i), it.LeftSpan(), "left span of %d", i)
		it.Seek(i)
		require.Equal(t, RightSpan(i), it.RightSpan(), "right span of %d", i)

		if left, ok := LeftChild(i); ok {
			it.Seek(i)
			require.Equal(t, left, it.LeftChild(), "left child of %d", i)
			right, _ := RightChild(i)
			it.Seek(i)
			require.Equal(t, right, it.RightChild(), "right child of %d", i)
		} else {
			// descending from a leaf stays put
			it.Seek(i)
			require.Equal(t, i, it.LeftChild())
			require.Equal(t, i, it.RightChild())
		}
	}
}

func TestIteratorClimb(t *testing.T) {
	//	2       3
	//	      /   \
	//	1    1     5
	//	    / \   / \
	//	0  0   2 4   6
	it := NewIterator(6)
	assert.True(t, it.IsRight())
	assert.Equal(t, uint64(5), it.Parent())
	assert.Equal(t, uint64(3), it.Parent())
	assert.Equal(t, uint64(7), it.Parent())
	assert.Equal(t, uint64(0), it.LeftSpan())
}
