package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukeburns/hypercore-red/merkle"
)

// fiveBlockNodes builds the tree over five blocks of 3, 5, 7, 11 and 13
// bytes.
//
//	        3
//	    1       5
//	  0   2   4   6   8
//	  3b  5b  7b  11b 13b
func fiveBlockNodes(t *testing.T) []merkle.Node {
	t.Helper()
	payload := func(c byte, n int) []byte {
		b := make([]byte, n)
		for i := range b {
			b[i] = c
		}
		return b
	}
	l0 := merkle.LeafNode(0, payload('a', 3))
	l2 := merkle.LeafNode(1, payload('b', 5))
	l4 := merkle.LeafNode(2, payload('c', 7))
	l6 := merkle.LeafNode(3, payload('d', 11))
	l8 := merkle.LeafNode(4, payload('e', 13))
	n1 := merkle.ParentNode(l0, l2)
	n5 := merkle.ParentNode(l4, l6)
	n3 := merkle.ParentNode(n1, n5)
	return []merkle.Node{l0, l2, l4, l6, l8, n1, n5, n3}
}

func TestResolveDataOffset(t *testing.T) {
	nodes := fiveBlockNodes(t)

	type args struct {
		index uint64
	}
	tests := []struct {
		name       string
		args       args
		wantOffset uint64
		wantSize   uint64
	}{
		{"block 0 starts the store", args{0}, 0, 3},
		{"block 1 follows one leaf", args{1}, 3, 5},
		{"block 2 follows the first pair", args{2}, 8, 7},
		{"block 3 sums a pair and a leaf", args{3}, 15, 11},
		{"block 4 follows the full quad", args{4}, 26, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, size, err := ResolveDataOffset(tt.args.index, nodes)
			require.NoError(t, err)
			if offset != tt.wantOffset {
				t.Errorf("ResolveDataOffset(%d) offset = %d, want %d", tt.args.index, offset, tt.wantOffset)
			}
			if size != tt.wantSize {
				t.Errorf("ResolveDataOffset(%d) size = %d, want %d", tt.args.index, size, tt.wantSize)
			}
		})
	}
}

func TestResolveDataOffsetMissingNode(t *testing.T) {
	nodes := fiveBlockNodes(t)

	t.Run("own leaf absent", func(t *testing.T) {
		var withoutLeaf8 []merkle.Node
		for _, n := range nodes {
			if n.Index != 8 {
				withoutLeaf8 = append(withoutLeaf8, n)
			}
		}
		_, _, err := ResolveDataOffset(4, withoutLeaf8)
		assert.ErrorIs(t, err, ErrMissingNode)
		assert.ErrorContains(t, err, "flat index 8")
	})

	t.Run("left root absent", func(t *testing.T) {
		var leavesOnly []merkle.Node
		for _, n := range nodes {
			if n.Index%2 == 0 {
				leavesOnly = append(leavesOnly, n)
			}
		}
		_, _, err := ResolveDataOffset(2, leavesOnly)
		assert.ErrorIs(t, err, ErrMissingNode)
		assert.ErrorContains(t, err, "flat index 1")
	})

	t.Run("empty cache", func(t *testing.T) {
		_, _, err := ResolveDataOffset(0, nil)
		assert.ErrorIs(t, err, ErrMissingNode)
		assert.ErrorContains(t, err, "flat index 0")
	})
}

func TestFindNode(t *testing.T) {
	nodes := fiveBlockNodes(t)

	n, ok := FindNode(nodes, 5)
	require.True(t, ok)
	assert.Equal(t, uint64(5), n.Index)
	assert.Equal(t, uint64(18), n.Size)

	_, ok = FindNode(nodes, 7)
	assert.False(t, ok)
}
