/*
Package eval implements ComplexEvaluator (C5): log_Q and pair_probability,
computed by traversing a complex's DecompositionTree, consulting the
ThermoCache at every node and calling out to a thermo.Kernel at leaves.

Grounded on fold.traceback (fold/fold.go), which reconstructs a concrete
structure by walking the memoized V/W tables built during Fold; here the
walk reconstructs an ensemble defect instead of a single minimum-energy
structure, so every node (not just the minimum-energy choice) contributes,
and merging/combining follows decompose.MergeChildren/CombineAlternatives
rather than picking a single winning substructure.
*/
package eval

import (
	"context"
	"fmt"

	"github.com/bebop/nadesign/decompose"
	"github.com/bebop/nadesign/nucleotide"
	"github.com/bebop/nadesign/sequence"
	"github.com/bebop/nadesign/thermo"
)

// ComplexEvaluator traverses a DecompositionTree to compute log Q and
// pair-probabilities for a concrete sequence assignment.
type ComplexEvaluator struct {
	Kernel            thermo.Kernel
	Cache             *thermo.Cache
	Alphabet          nucleotide.Alphabet
	FSparse           float64
	TemperatureKelvin float64
}

// NewComplexEvaluator builds an evaluator over a shared cache and kernel.
func NewComplexEvaluator(kernel thermo.Kernel, cache *thermo.Cache, temperatureKelvin float64) *ComplexEvaluator {
	return &ComplexEvaluator{
		Kernel:            kernel,
		Cache:             cache,
		Alphabet:          nucleotide.DNA,
		FSparse:           1e-6,
		TemperatureKelvin: temperatureKelvin,
	}
}

// LogQ computes the log partition function of a complex by traversing its
// DecompositionTree from root, including the rotational-symmetry
// correction for the complex's strand list.
func (e *ComplexEvaluator) LogQ(ctx context.Context, root *decompose.Node, seq []nucleotide.Base, depth int, symmetryOrder int) (float64, error) {
	summary, err := e.Evaluate(ctx, root, seq, depth)
	if err != nil {
		return 0, err
	}
	return summary.LogQ + decompose.RotationalSymmetryCorrection(symmetryOrder), nil
}

// PairProbability computes the full pair-probability matrix of a complex
// by traversing its DecompositionTree from root.
func (e *ComplexEvaluator) PairProbability(ctx context.Context, root *decompose.Node, seq []nucleotide.Base, depth int) (*thermo.SparseMatrix, error) {
	summary, err := e.Evaluate(ctx, root, seq, depth)
	if err != nil {
		return nil, err
	}
	return summary.Pairs, nil
}

// complexSequenceHash hashes the concrete bases named by a node's global
// indices, used as the ThermoCache key's complex-sequence component.
func complexSequenceHash(n *decompose.Node, seq []nucleotide.Base) string {
	bases := make([]nucleotide.Base, len(n.GlobalIndices))
	for i, g := range n.GlobalIndices {
		bases[i] = seq[g]
	}
	c := sequence.Complex{Strands: [][]nucleotide.Base{bases}}
	return c.Hash()
}

// Evaluate traverses node, consulting the shared ThermoCache at every
// level, calling Kernel at leaves (or nodes with no expanded alternatives),
// and otherwise recursing into every alternative child pair, merging and
// combining per decompose.MergeChildren/CombineAlternatives.
func (e *ComplexEvaluator) Evaluate(ctx context.Context, n *decompose.Node, seq []nucleotide.Base, depth int) (decompose.ThermoSummary, error) {
	hash := complexSequenceHash(n, seq)

	if rec, release, ok := e.Cache.Get(thermo.Key{ComplexHash: hash, Depth: depth}); ok {
		release()
		return decompose.ThermoSummary{LogQ: rec.LogQ, Pairs: rec.Pairs}, nil
	}
	if summary, ok := n.CacheGet(hash); ok {
		return summary, nil
	}

	var summary decompose.ThermoSummary
	var err error
	if depth <= 0 || n.IsLeaf() {
		summary, err = e.evaluateLeaf(ctx, n, seq)
	} else {
		summary, err = e.evaluateInternal(ctx, n, seq, depth)
	}
	if err != nil {
		return decompose.ThermoSummary{}, err
	}

	n.CachePut(hash, summary)
	e.Cache.Put(thermo.Key{ComplexHash: hash, Depth: depth}, thermo.ThermoRecord{LogQ: summary.LogQ, Pairs: summary.Pairs})
	return summary, nil
}

func (e *ComplexEvaluator) evaluateLeaf(ctx context.Context, n *decompose.Node, seq []nucleotide.Base) (decompose.ThermoSummary, error) {
	bytes := make([]byte, len(n.GlobalIndices))
	for i, g := range n.GlobalIndices {
		bytes[i] = seq[g].Letter(e.Alphabet)
	}
	enforced := make([][2]int, len(n.EnforcedPairs))
	for i, sp := range n.EnforcedPairs {
		enforced[i] = [2]int{sp.I, sp.J}
	}
	rec, err := e.Kernel.Evaluate(ctx, bytes, enforced, e.TemperatureKelvin)
	if err != nil {
		return decompose.ThermoSummary{}, fmt.Errorf("eval: leaf evaluation at node %d: %w", n.Index, err)
	}
	return decompose.ThermoSummary{LogQ: rec.LogQ, Pairs: rec.Pairs}, nil
}

func (e *ComplexEvaluator) evaluateInternal(ctx context.Context, n *decompose.Node, seq []nucleotide.Base, depth int) (decompose.ThermoSummary, error) {
	summaries := make([]decompose.ThermoSummary, 0, len(n.Alternatives))
	for _, alt := range n.Alternatives {
		leftSummary, err := e.Evaluate(ctx, alt.Left, seq, depth-1)
		if err != nil {
			return decompose.ThermoSummary{}, err
		}
		rightSummary, err := e.Evaluate(ctx, alt.Right, seq, depth-1)
		if err != nil {
			return decompose.ThermoSummary{}, err
		}
		merged := decompose.MergeChildren(n, alt.Left, leftSummary, alt.Right, rightSummary)
		summaries = append(summaries, merged)
	}
	combined := decompose.CombineAlternatives(n, summaries, e.FSparse)
	combined.LogQ = promoteOnOverflow(combined.LogQ)
	return combined, nil
}

// promoteOnOverflow runs a log Q value through the thermo precision ladder
// when the plain float64 representation has overflowed, per the overflow-
// promotion policy C5 exposes at every merge step; a non-overflowing value
// passes through unchanged.
func promoteOnOverflow(logQ float64) float64 {
	v := thermo.NewF64(logQ)
	if !v.Overflows() {
		return logQ
	}
	return v.Promote().Promote().Float64()
}

// ForSequence binds a concrete sequence assignment to this evaluator,
// returning a decompose.Evaluator that probability-guided decomposition can
// call back into for a node's depth-0 record without creating an import
// cycle between eval and decompose (decompose.Evaluator takes only a node,
// not a sequence, since decompose has no sequence.Model dependency).
func (e *ComplexEvaluator) ForSequence(seq []nucleotide.Base) decompose.Evaluator {
	return boundEvaluator{ce: e, seq: seq}
}

type boundEvaluator struct {
	ce  *ComplexEvaluator
	seq []nucleotide.Base
}

func (b boundEvaluator) PairProbability(ctx context.Context, n *decompose.Node) (decompose.ThermoSummary, error) {
	return b.ce.Evaluate(ctx, n, b.seq, 0)
}
