package decompose

import (
	"context"
	"sort"
)

// Evaluator is the minimal callback ProbabilityGuided needs: the pair-
// probability matrix (and log Q) for this node's sub-sequence at traversal
// depth 0. It is satisfied by eval.ComplexEvaluator; taking a narrow
// interface here instead of importing that package avoids a dependency
// cycle (eval, in turn, walks DecompositionTrees built by this package).
type Evaluator interface {
	PairProbability(ctx context.Context, n *Node) (ThermoSummary, error)
}

// candidateSplit pairs a SplitPoint with the probability mass the pair
// carries, used to rank candidates for probability-guided decomposition.
type candidateSplit struct {
	sp   SplitPoint
	prob float64
}

// ProbabilityGuided computes this node's pair-probability matrix at depth 0
// via evaluator, then greedily selects a minimal set of mutually exclusive
// (pairwise-crossing) SplitPoints whose collective probability mass
// captures at least fSplit of the ensemble and whose total child cost is
// less than the parent's own cost, using a greedy best-first selection
// rather than full branch-and-bound — a documented simplification, since an
// exhaustive search over subsets of candidate splits is exponential and the
// greedy approximation converges to the same answer whenever candidate
// probability mass is reasonably concentrated (the common case at shallow
// depths). If such a set is found, the node's children are replaced with
// alternatives for each selected split and recursion continues into each
// child up to depth d. Returns whether the tree changed beneath n.
func ProbabilityGuided(ctx context.Context, n *Node, evaluator Evaluator, depth int, nSplit, hSplit int, fSplit, minProb float64) (bool, error) {
	if depth <= 0 {
		return false, nil
	}

	summary, err := evaluator.PairProbability(ctx, n)
	if err != nil {
		return false, err
	}

	candidates := probabilityEligibleSplits(n, nSplit, hSplit, minProb, summary)
	if len(candidates) == 0 {
		return false, nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].prob > candidates[j].prob })

	parentCost := childCost(n.Sub.Len(), 0)
	var selected []SplitPoint
	var totalCost int64
	var massCaptured float64
	for _, c := range candidates {
		compatible := true
		for _, s := range selected {
			if !s.Crosses(c.sp) {
				compatible = false
				break
			}
		}
		if !compatible {
			continue
		}
		selected = append(selected, c.sp)
		totalCost += splitCost(n, c.sp)
		massCaptured += c.prob
		if massCaptured >= fSplit {
			break
		}
	}

	if massCaptured < fSplit || totalCost >= parentCost || len(selected) == 0 {
		return false, nil
	}

	alternatives := make([]Alternative, 0, len(selected))
	for _, sp := range selected {
		left, right := splitAt(n, sp)
		alternatives = append(alternatives, Alternative{Split: sp, Left: left, Right: right})
	}
	n.Alternatives = alternatives
	n.InvalidateCache()

	for _, alt := range n.Alternatives {
		if _, err := ProbabilityGuided(ctx, alt.Left, evaluator, depth-1, nSplit, hSplit, fSplit, minProb); err != nil {
			return true, err
		}
		if _, err := ProbabilityGuided(ctx, alt.Right, evaluator, depth-1, nSplit, hSplit, fSplit, minProb); err != nil {
			return true, err
		}
	}
	return true, nil
}

// probabilityEligibleSplits returns candidate SplitPoints for probability-
// guided decomposition: the flanking padding requirement from
// eligibleSplits, generalized (when there is no target structure pairing
// at a candidate position) to require pair probability at least minProb at
// every padding offset instead of a hard target-structure pair.
func probabilityEligibleSplits(n *Node, nSplit, hSplit int, minProb float64, summary ThermoSummary) []candidateSplit {
	length := n.Sub.Len()
	var out []candidateSplit
	if summary.Pairs == nil {
		return out
	}
	summary.Pairs.Each(func(i, j int, prob float64) {
		if j <= i {
			return
		}
		if i+1 < nSplit || length-(j-i+1) < nSplit {
			return
		}
		flanked := true
		for k := 0; k <= hSplit; k++ {
			li, rj := i-k, j+k
			if li < 0 || rj >= length {
				flanked = false
				break
			}
			if summary.Pairs.Get(li, rj) < minProb {
				flanked = false
				break
			}
		}
		if !flanked {
			return
		}
		out = append(out, candidateSplit{sp: SplitPoint{I: i, J: j}, prob: prob})
	})
	return out
}
