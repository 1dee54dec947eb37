/*
Package decompose builds and maintains the DecompositionTree (C4): a tree
of sub-structures whose leaves are handed to the thermo.Kernel and whose
internal nodes merge child ThermoRecords back into a record for the parent.

The tree's recursive split-and-memoize shape is grounded on
fold.unpairedMinimumFreeEnergyW/pairedMinimumFreeEnergyV (fold/fold.go):
the teacher's W/V functions recurse over (start,end) intervals, memoizing
each subinterval's minimum-free-energy structure and combining child
results at a bifurcation point. DecompositionTree generalizes this from an
implicit flat DP table that tries every bifurcation index to an explicit
tree whose split points are base pairs (SplitPoints) chosen either by
structure guidance or by probability mass, with a single memoized record
per node instead of one cell per (start,end) pair.
*/
package decompose

import (
	"github.com/bebop/nadesign/structure"
	"github.com/bebop/nadesign/thermo"
)

// SplitPoint is a candidate base pair (I,J) a node can be divided on.
type SplitPoint struct {
	I, J int
}

// Crosses reports whether two split points are pairwise crossing, i.e.
// i < i' < j < j' or i' < i < j' < j — the mutual-exclusion invariant
// required of alternatives at the same node.
func (s SplitPoint) Crosses(other SplitPoint) bool {
	a, b, c, d := s.I, s.J, other.I, other.J
	return (a < c && c < b && b < d) || (c < a && a < d && d < b)
}

// Alternative is one (SplitPoint, {left, right}) partition of a node's
// ensemble. Alternatives at the same node must be pairwise crossing.
type Alternative struct {
	Split SplitPoint
	Left  *Node
	Right *Node
}

// nodeCacheEntry is the per-depth mini cache described by DecompositionNode:
// a (complex-sequence hash) -> (pair-probability matrix, log Q) mapping
// local to this node, consulted before calling out to the shared
// thermo.Cache.
type nodeCacheEntry struct {
	Pairs *thermo.SparseMatrix
	LogQ  float64
}

// Node is one DecompositionTree node.
type Node struct {
	Sub           structure.Structure // this node's sub-sequence structure, in local coordinates
	GlobalIndices []int               // local index i maps to global position GlobalIndices[i]
	EnforcedPairs []SplitPoint        // base pairs inherited from ancestor splits, applied with dG_clamp
	Alternatives  []Alternative
	Index         int

	cache map[string]nodeCacheEntry
}

// NewRootNode builds the root of a DecompositionTree over the full complex.
func NewRootNode(sub structure.Structure, index int) *Node {
	globals := make([]int, sub.Len())
	for i := range globals {
		globals[i] = i
	}
	return &Node{Sub: sub, GlobalIndices: globals, Index: index, cache: make(map[string]nodeCacheEntry)}
}

// IsLeaf reports whether this node has no expanded alternatives.
func (n *Node) IsLeaf() bool {
	return len(n.Alternatives) == 0
}

// Len returns the number of positions spanned by this node's sub-sequence.
func (n *Node) Len() int {
	return n.Sub.Len()
}

// CacheGet looks up a memoized record for a complex-sequence hash.
func (n *Node) CacheGet(complexHash string) (ThermoSummary, bool) {
	e, ok := n.cache[complexHash]
	if !ok {
		return ThermoSummary{}, false
	}
	return ThermoSummary{LogQ: e.LogQ, Pairs: e.Pairs}, true
}

// CachePut stores a memoized record for a complex-sequence hash.
func (n *Node) CachePut(complexHash string, summary ThermoSummary) {
	n.cache[complexHash] = nodeCacheEntry{Pairs: summary.Pairs, LogQ: summary.LogQ}
}

// InvalidateCache clears this node's per-depth mini cache, called whenever
// the tree's shape changes beneath this node.
func (n *Node) InvalidateCache() {
	n.cache = make(map[string]nodeCacheEntry)
}

// ThermoSummary is the (log Q, pair-probability matrix) pair a node caches
// and returns, mirroring thermo.ThermoRecord without importing the cache
// machinery itself into this package's public surface.
type ThermoSummary struct {
	LogQ  float64
	Pairs *thermo.SparseMatrix
}
