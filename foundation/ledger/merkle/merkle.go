// Package merkle provides the Merkle tree construction and inclusion proof
// support that commits a block header to its exact set of transactions.
//
// Pairs hash commutatively: the two children are ordered by comparing their
// full prefixed strings before concatenation, so a parent does not depend on
// left/right position. A level with an odd node count pairs its last node
// with the zero hash.
package merkle

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhivir-42/blockchain-from-scratch-Proof-of-Work/foundation/ledger/canonical"
)

// ErrInvalidIndex indicates a leaf index outside the tree.
var ErrInvalidIndex = errors.New("index out of range")

// =============================================================================

// HashPair combines two prefixed hashes into their parent hash. The hex
// bodies are concatenated in ascending order of the full prefixed strings,
// which makes the operation independent of argument order.
func HashPair(a string, b string) string {
	if b < a {
		a, b = b, a
	}

	return canonical.HashString(strings.TrimPrefix(a, "0x") + strings.TrimPrefix(b, "0x"))
}

// =============================================================================

// Tree is a Merkle tree over an ordered set of prefixed leaf hashes. All
// intermediate levels are kept so proofs can be produced without hashing
// anything twice.
type Tree struct {
	levels [][]string
}

// NewTree builds the full tree for the specified leaf hashes. An empty leaf
// set is legal and yields the zero hash root.
func NewTree(leafHashes []string) *Tree {
	leaves := make([]string, len(leafHashes))
	copy(leaves, leafHashes)

	levels := [][]string{leaves}
	level := leaves
	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			right := canonical.ZeroHash
			if i+1 < len(level) {
				right = level[i+1]
			}
			next = append(next, HashPair(level[i], right))
		}

		levels = append(levels, next)
		level = next
	}

	return &Tree{levels: levels}
}

// Root returns the root hash. A single leaf is its own root, untouched.
func (t *Tree) Root() string {
	top := t.levels[len(t.levels)-1]
	if len(top) == 0 {
		return canonical.ZeroHash
	}

	return top[0]
}

// Leaves returns a copy of the leaf hashes the tree was built over.
func (t *Tree) Leaves() []string {
	leaves := make([]string, len(t.levels[0]))
	copy(leaves, t.levels[0])
	return leaves
}

// Proof returns the ordered sibling hashes, leaf level first, that carry
// the leaf at the specified index up to the root. The sibling is the zero
// hash on levels where the tracked node was the odd one out.
func (t *Tree) Proof(index int) ([]string, error) {
	leaves := t.levels[0]
	if index < 0 || index >= len(leaves) {
		return nil, fmt.Errorf("index %d with %d leaves: %w", index, len(leaves), ErrInvalidIndex)
	}

	siblings := make([]string, 0, len(t.levels)-1)
	for _, level := range t.levels[:len(t.levels)-1] {
		sibling := canonical.ZeroHash
		if sibIdx := index ^ 1; sibIdx < len(level) {
			sibling = level[sibIdx]
		}

		siblings = append(siblings, sibling)
		index /= 2
	}

	return siblings, nil
}

// =============================================================================

// Verify folds the leaf hash up through the siblings and reports whether it
// lands on root. The proof shape is cross checked against totalLeaves first:
// an index outside the leaf count or a sibling list whose length doesn't
// match the tree depth for that many leaves is rejected before any hashing.
func Verify(leafHash string, siblings []string, root string, index int, totalLeaves int) bool {
	if index < 0 || index >= totalLeaves {
		return false
	}
	if len(siblings) != proofDepth(totalLeaves) {
		return false
	}

	current := leafHash
	for _, sibling := range siblings {
		if index%2 == 0 {
			current = HashPair(current, sibling)
		} else {
			current = HashPair(sibling, current)
		}
		index /= 2
	}

	return current == root
}

// proofDepth returns how many pairing levels a tree with leafCount leaves
// has, which is the sibling count a valid proof must carry.
func proofDepth(leafCount int) int {
	depth := 0
	for n := leafCount; n > 1; n = (n + 1) / 2 {
		depth++
	}

	return depth
}
