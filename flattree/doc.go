package flattree

/*

Package flattree maps a binary tree onto a flat array index space so that
parent, child and sibling relationships are recovered with bit arithmetic
rather than stored links.

Leaves occupy the even indices, in order, so leaf n sits at index 2n. The
odd indices hold the interior nodes, and the number of trailing one bits in
an index is its height in the tree:

	2       3
	      /   \
	1    1     5          9
	    / \   / \        / \
	0  0   2 4   6      8   10

Reading the columns, index 3 (binary 011) has two trailing ones so it is at
depth 2, and it parents 1 and 5. No matter how large the tree grows, the
relationships between these indices never change: 1 is always the parent of
0 and 2, 3 is always the parent of 1 and 5, and so on. That stability is
what makes the scheme usable for addressing records in an append-only log:
an index assigned once is valid forever.

A tree over n leaves is not generally a single perfect tree. FullRoots
decomposes a leaf count into the minimal ordered set of maximal perfect
subtrees covering it, which is the canonical form used when summing subtree
sizes or hashing a root over the whole structure.

The functions here are pure and perform no range checking beyond what is
documented; callers hold the burden of supplying indices that exist in
their tree. This mirrors the contract of the post-order navigation
primitives used by merkle mountain range implementations, where the
arithmetic is kept branch-free and the safety rails live a layer up.
*/
