/*
Package constraint implements the posted-propagator constraint engine (C2)
that the optimizer calls to produce an initial sequence and to mutate
individual positions without violating any posted rule.

The two-solver race (a full backtracking CSP solver against a simpler
"closest-feasible" legacy solver, see csp.go/legacy.go) and the historical/
weight-biased value ordering are both generalized from
synthesis/fix.Cds's suggest-then-fix loop: Cds repeatedly finds problems,
ranks synonymous codon changes by organism codon-usage weight, and applies
the best one; this package instead searches directly over IUPAC base
domains, with the CSP solver doing full propagation and the legacy solver
doing Cds-style greedy per-position repair.
*/
package constraint

import (
	"math/rand"
	"time"

	"github.com/bebop/nadesign/nucleotide"
)

// Engine holds the posted constraints for one sequence model and the
// adaptive state (legacy-runtime EMA) used to budget the CSP solver.
type Engine struct {
	domains       []nucleotide.Base
	constraints   []Kind
	rng           *rand.Rand
	legacyMsecEMA float64
}

// NewEngine creates an Engine over n positions, all initially fully
// ambiguous (BaseN), with rng seeding the legacy solver's tie-breaking.
func NewEngine(n int, rng *rand.Rand) *Engine {
	domains := make([]nucleotide.Base, n)
	for i := range domains {
		domains[i] = nucleotide.BaseN
	}
	return &Engine{domains: domains, rng: rng, legacyMsecEMA: 1.0}
}

// RestrictDomain narrows the allowed set at a single position, e.g. from a
// Domain's declared IUPAC pattern. Returns ErrUnsatisfiable if the
// intersection is empty.
func (e *Engine) RestrictDomain(pos int, allowed nucleotide.Base) error {
	narrowed := e.domains[pos].Intersect(allowed)
	if narrowed == nucleotide.BaseNone {
		return ErrUnsatisfiable
	}
	e.domains[pos] = narrowed
	return nil
}

// Post adds a constraint kind to the engine.
func (e *Engine) Post(k Kind) {
	e.constraints = append(e.constraints, k)
}

// InitialSequence searches for any assignment consistent with every posted
// constraint and the current domains. It always uses the CSP solver with no
// time bound, since there is no reference sequence yet to bias a legacy
// hill-climb toward.
func (e *Engine) InitialSequence() ([]nucleotide.Base, error) {
	for _, d := range e.domains {
		if d == nucleotide.BaseNone {
			return nil, ErrUnsatisfiable
		}
	}
	solver := newCSPSolver(e.domains, e.constraints, nil, 0)
	assignment, ok := solver.solve()
	if !ok {
		return nil, ErrUnsatisfiable
	}
	return assignment, nil
}

// MutationPolicy carries the two knobs that determine which solver handles
// a mutation request, per the engine's two-solver race policy.
type MutationPolicy struct {
	MsecCutoff   int  // 0 disables the CSP attempt outright
	Deterministic bool // seed != 0: forces legacy-only, MsecCutoff treated as 0
}

// Mutation attempts to change each position in positions away from its
// current value in current, keeping every other position fixed, such that
// the result still satisfies every posted constraint. For each position:
// disallow the current value, search for the closest feasible assignment
// (Hamming-minimum from current), and if none exists leave that position
// unchanged and proceed to the next. Returns the (possibly partially)
// mutated sequence.
func (e *Engine) Mutation(current []nucleotide.Base, positions []int, policy MutationPolicy) ([]nucleotide.Base, error) {
	out := append([]nucleotide.Base(nil), current...)

	cutoff := policy.MsecCutoff
	if policy.Deterministic {
		cutoff = 0
	}

	for _, pos := range positions {
		fixed, ok := e.mutateOne(out, pos, cutoff)
		if ok {
			out[pos] = fixed
		}
		// else: leave position unchanged per spec semantics, proceed.
	}
	return out, nil
}

// mutateOne resolves a single position using the CSP-then-legacy race.
func (e *Engine) mutateOne(current []nucleotide.Base, pos int, cutoffMsec int) (nucleotide.Base, bool) {
	exclude := current[pos]
	restricted := append([]nucleotide.Base(nil), e.domains...)
	restricted[pos] = restricted[pos] &^ exclude
	if restricted[pos] == nucleotide.BaseNone {
		return e.mutateOneLegacy(current, pos)
	}

	if cutoffMsec > 0 {
		solver := newCSPSolver(restricted, e.constraints, current, time.Duration(cutoffMsec)*time.Millisecond)
		if assignment, ok := solver.solve(); ok {
			return assignment[pos], true
		}
	}
	return e.mutateOneLegacy(current, pos)
}

func (e *Engine) mutateOneLegacy(current []nucleotide.Base, pos int) (nucleotide.Base, bool) {
	start := time.Now()
	legacy := newLegacySolver(e.domains, e.constraints, e.rng)
	value, ok := legacy.mutatePosition(current, pos)
	e.updateLegacyEMA(time.Since(start))
	return value, ok
}

// updateLegacyEMA folds a legacy solver runtime into the exponential
// moving average used to set the CSP solver's adaptive msec_cutoff (the
// caller multiplies this by 100, per the engine's adaptive-cutoff policy).
func (e *Engine) updateLegacyEMA(d time.Duration) {
	const alpha = 0.2
	msec := float64(d.Microseconds()) / 1000.0
	e.legacyMsecEMA = alpha*msec + (1-alpha)*e.legacyMsecEMA
}

// AdaptiveMsecCutoff returns the exponential-moving-average-derived cutoff
// (legacy runtime EMA x 100) a caller should pass as MsecCutoff on the next
// mutation request.
func (e *Engine) AdaptiveMsecCutoff() int {
	return int(e.legacyMsecEMA * 100)
}
