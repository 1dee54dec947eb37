package decompose

import (
	"math"

	"github.com/bebop/nadesign/thermo"
)

// MergeChildren combines a left and right child's ThermoSummary into the
// parent's, per the merging rule: log Q = log Q_L + log Q_R, and P is the
// N x N matrix with P_L and P_R mapped through their index bijections into
// the parent's coordinate space.
func MergeChildren(parent *Node, left *Node, leftSummary ThermoSummary, right *Node, rightSummary ThermoSummary) ThermoSummary {
	n := parent.Sub.Len()
	merged := thermo.NewSparseMatrix(n)

	parentIndexOfGlobal := make(map[int]int, n)
	for localIdx, globalIdx := range parent.GlobalIndices {
		parentIndexOfGlobal[globalIdx] = localIdx
	}

	copyInto := func(child *Node, summary ThermoSummary) {
		if summary.Pairs == nil {
			return
		}
		summary.Pairs.Each(func(i, j int, v float64) {
			gi, gj := child.GlobalIndices[i], child.GlobalIndices[j]
			pi, okI := parentIndexOfGlobal[gi]
			pj, okJ := parentIndexOfGlobal[gj]
			if okI && okJ {
				merged.Set(pi, pj, v)
			}
		})
	}
	copyInto(left, leftSummary)
	copyInto(right, rightSummary)

	return ThermoSummary{LogQ: leftSummary.LogQ + rightSummary.LogQ, Pairs: merged}
}

// CombineAlternatives merges the records of several mutually exclusive
// alternatives at a node: log Q = logsumexp(log Q_k), and
// P = sum_k (Q_k/Q_total) * P_k, sparsified by fSparse.
func CombineAlternatives(n *Node, summaries []ThermoSummary, fSparse float64) ThermoSummary {
	if len(summaries) == 0 {
		return ThermoSummary{LogQ: math.Inf(-1), Pairs: thermo.NewSparseMatrix(n.Sub.Len())}
	}
	if len(summaries) == 1 {
		return summaries[0]
	}

	maxLogQ := summaries[0].LogQ
	for _, s := range summaries[1:] {
		if s.LogQ > maxLogQ {
			maxLogQ = s.LogQ
		}
	}
	var sumExp float64
	for _, s := range summaries {
		sumExp += math.Exp(s.LogQ - maxLogQ)
	}
	logQ := maxLogQ + math.Log(sumExp)

	combined := thermo.NewSparseMatrix(n.Sub.Len())
	for _, s := range summaries {
		weight := math.Exp(s.LogQ - logQ)
		if s.Pairs == nil {
			continue
		}
		s.Pairs.Each(func(i, j int, v float64) {
			combined.Set(i, j, combined.Get(i, j)+weight*v)
		})
	}
	combined.Sparsify(fSparse)

	return ThermoSummary{LogQ: logQ, Pairs: combined}
}

// RotationalSymmetryCorrection returns the -log(rho) term a complex's root
// record must add to log Q to correct for overcounting identical rotations
// of its strand list, where rho is the rotational symmetry order.
func RotationalSymmetryCorrection(rho int) float64 {
	if rho <= 1 {
		return 0
	}
	return -math.Log(float64(rho))
}
