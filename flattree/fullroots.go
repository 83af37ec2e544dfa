package flattree

// FullRoots returns, in ascending index order, the roots of the minimal set
// of maximal perfect subtrees whose leaves exactly cover the first n leaves.
// This is the canonical decomposition of a leaf count into ordered
// powers-of-two spans.
//
// For n == 0 the result is nil. Whenever n is a power of two a single root
// covers everything:
//
//	2       3
//	      /   \
//	1    1     5
//	    / \   / \
//	0  0   2 4   6      8
//
//	FullRoots(1) == [0]
//	FullRoots(2) == [1]
//	FullRoots(3) == [1, 4]
//	FullRoots(4) == [3]
//	FullRoots(5) == [3, 8]
//
// The leaf counts of the returned subtrees are strictly decreasing powers of
// two summing to n, which is just the binary expansion of n read from the
// high bit down.
func FullRoots(n uint64) []uint64 {
	if n == 0 {
		return nil
	}

	var roots []uint64
	offset := uint64(0)

	for n > 0 {
		factor := uint64(1)
		for factor*2 <= n {
			factor *= 2
		}
		roots = append(roots, offset+factor-1)
		// a perfect subtree over factor leaves occupies 2*factor slots of
		// the flat index space
		offset += 2 * factor
		n -= factor
	}
	return roots
}
