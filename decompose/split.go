package decompose

import "github.com/bebop/nadesign/structure"

// childCost is n_left^3 + n_right^3, the cost metric structure-guided
// decomposition minimizes when choosing which split point to apply next.
func childCost(leftLen, rightLen int) int64 {
	l, r := int64(leftLen), int64(rightLen)
	return l*l*l + r*r*r
}

// eligibleSplits returns every SplitPoint (i,j) in node's local coordinates
// that is valid per the decomposition invariants: both resulting halves
// have at least nSplit bases, and the pairs (i-k,j+k) for k=0..hSplit are
// all present in the target structure (the "minimum flanking helix" check),
// and each child is strictly smaller than the node. Only the node's target pairs are consulted; pair probabilities play no
// part in this check.
func eligibleSplits(n *Node, nSplit, hSplit int) []SplitPoint {
	var out []SplitPoint
	pairs := n.Sub.Pairs
	length := n.Sub.Len()
	for i := 0; i < length; i++ {
		j := pairs[i]
		if j == structure.Unpaired || j <= i {
			continue
		}
		if i+1 < nSplit || length-(j-i+1) < nSplit {
			continue
		}
		if j-i+1 < nSplit {
			continue
		}
		// a pair with no interior (j == i+1) leaves the left child equal to
		// the node, and one spanning the whole node leaves the right child
		// equal to it; such a split makes no progress.
		if j-i < 2 || j-i+1 == length {
			continue
		}
		flanked := true
		for k := 0; k <= hSplit; k++ {
			li, rj := i-k, j+k
			if li < 0 || rj >= length {
				flanked = false
				break
			}
			if pairs[li] != rj {
				flanked = false
				break
			}
		}
		if !flanked {
			continue
		}
		out = append(out, SplitPoint{I: i, J: j})
	}
	return out
}

// splitAt partitions node at SplitPoint sp into a left child carrying
// indices [0,i] U [j,N) and a right child carrying [i,j] inclusive, per the
// splitting-data rules: structure and nicks are partitioned, pairs crossing
// the split are discarded, and the split point is recorded as an
// EnforcedPair on each child.
func splitAt(n *Node, sp SplitPoint) (left, right *Node) {
	i, j := sp.I, sp.J
	length := n.Sub.Len()

	leftLocal := make([]int, 0, i+1+(length-j))
	for k := 0; k <= i; k++ {
		leftLocal = append(leftLocal, k)
	}
	for k := j; k < length; k++ {
		leftLocal = append(leftLocal, k)
	}
	rightLocal := make([]int, 0, j-i+1)
	for k := i; k <= j; k++ {
		rightLocal = append(rightLocal, k)
	}

	left = buildChild(n, leftLocal, sp)
	right = buildChild(n, rightLocal, sp)
	return left, right
}

// buildChild constructs a child node from a set of parent-local indices
// (already in ascending order), remapping pairs and nicks into the child's
// own local coordinate space and discarding any pair crossing the boundary.
func buildChild(parent *Node, parentLocalIndices []int, sp SplitPoint) *Node {
	n := len(parentLocalIndices)
	childToParent := parentLocalIndices
	parentToChild := make(map[int]int, n)
	for childIdx, parentIdx := range childToParent {
		parentToChild[parentIdx] = childIdx
	}

	childPairs := structure.NewPairList(n)
	for childIdx, parentIdx := range childToParent {
		partner := parent.Sub.Pairs[parentIdx]
		if partner == structure.Unpaired {
			continue
		}
		if childPartner, ok := parentToChild[partner]; ok {
			childPairs[childIdx] = childPartner
		}
		// else: pair crosses the split boundary, discarded.
	}

	// nicks: a parent nick survives into the child at the first child index
	// whose parent index is >= that nick boundary.
	childNicks := make([]int, 0, len(parent.Sub.Nicks))
	for _, nick := range parent.Sub.Nicks {
		count := 0
		for _, parentIdx := range childToParent {
			if parentIdx < nick {
				count++
			}
		}
		if count > 0 && (len(childNicks) == 0 || childNicks[len(childNicks)-1] != count) {
			childNicks = append(childNicks, count)
		}
	}
	if len(childNicks) == 0 || childNicks[len(childNicks)-1] != n {
		childNicks = append(childNicks, n)
	}

	globalIndices := make([]int, n)
	for childIdx, parentIdx := range childToParent {
		globalIndices[childIdx] = parent.GlobalIndices[parentIdx]
	}

	enforced := append([]SplitPoint(nil), parent.EnforcedPairs...)
	enforced = append(enforced, sp)

	return &Node{
		Sub:           structure.Structure{Pairs: childPairs, Nicks: childNicks},
		GlobalIndices: globalIndices,
		EnforcedPairs: enforced,
		cache:         make(map[string]nodeCacheEntry),
	}
}

// StructureGuided repeatedly picks the valid SplitPoint of lowest child
// cost, splits, and recurses until no valid split remains, per the
// structure-guided decomposition rule.
func StructureGuided(n *Node, nSplit, hSplit int) {
	splits := eligibleSplits(n, nSplit, hSplit)
	if len(splits) == 0 {
		return
	}
	best := splits[0]
	bestCost := splitCost(n, best)
	for _, sp := range splits[1:] {
		cost := splitCost(n, sp)
		if cost < bestCost {
			best, bestCost = sp, cost
		}
	}
	left, right := splitAt(n, best)
	n.Alternatives = []Alternative{{Split: best, Left: left, Right: right}}
	n.InvalidateCache()
	StructureGuided(left, nSplit, hSplit)
	StructureGuided(right, nSplit, hSplit)
}

func splitCost(n *Node, sp SplitPoint) int64 {
	length := n.Sub.Len()
	rightLen := sp.J - sp.I + 1
	leftLen := length - rightLen + 2 // +2 because positions i and j are shared boundary points on both sides
	return childCost(leftLen, rightLen)
}
