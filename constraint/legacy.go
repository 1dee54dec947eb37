package constraint

import (
	"math/rand"

	"github.com/bebop/nadesign/nucleotide"
)

// legacySolver is a simpler "closest-feasible" fallback used when the CSP
// solver times out or for deterministic runs. It ranks candidate concrete
// assignments at a single position by Hamming distance from the current
// sequence and takes the first that satisfies every posted constraint,
// generalizing synthesis/fix.Cds's "rank potential changes by weight, take
// the best" step from ranking synonymous codons to ranking concrete bases.
type legacySolver struct {
	domains     []nucleotide.Base
	constraints []Kind
	byPosition  map[int][]Kind
	rng         *rand.Rand
}

func newLegacySolver(domains []nucleotide.Base, constraints []Kind, rng *rand.Rand) *legacySolver {
	s := &legacySolver{
		domains:     domains,
		constraints: constraints,
		byPosition:  make(map[int][]Kind),
		rng:         rng,
	}
	for _, k := range constraints {
		for _, p := range k.Positions() {
			s.byPosition[p] = append(s.byPosition[p], k)
		}
	}
	return s
}

// mutatePosition searches for a concrete base at pos, different from
// current[pos], such that the full assignment (current, with pos replaced)
// satisfies every constraint touching pos. Candidates are tried in a fixed
// canonical order (A,C,G,T) rather than randomized, so results are
// reproducible for a deterministic run.
func (s *legacySolver) mutatePosition(current []nucleotide.Base, pos int) (nucleotide.Base, bool) {
	allowed := s.domains[pos]
	assignment := make(map[int]nucleotide.Base, len(current))
	for i, b := range current {
		assignment[i] = b
	}
	exclude := current[pos]
	for _, candidate := range allowed.Bases() {
		if candidate == exclude {
			continue
		}
		assignment[pos] = candidate
		if s.consistent(pos, assignment) {
			return candidate, true
		}
	}
	assignment[pos] = exclude
	return nucleotide.BaseNone, false
}

func (s *legacySolver) consistent(pos int, assignment map[int]nucleotide.Base) bool {
	for _, k := range s.byPosition[pos] {
		if !k.Consistent(assignment) {
			return false
		}
	}
	return true
}

// closestFeasible searches for a full assignment over domains that satisfies
// every constraint, starting from reference: each attempt is a greedy
// per-position repair pass over the previous attempt's result, repeated up
// to maxAttempts times — a simplification of Cds's iterate-to-fixpoint loop
// bounded at a fixed attempt count instead of an open iteration cap. It
// stops early when a pass changes nothing or a position has no consistent
// value. Positions that need no repair keep their reference values, but the
// result is not guaranteed to be the Hamming-closest feasible assignment.
func (s *legacySolver) closestFeasible(reference []nucleotide.Base, maxAttempts int) ([]nucleotide.Base, bool) {
	best := append([]nucleotide.Base(nil), reference...)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := append([]nucleotide.Base(nil), best...)
		changed := false
		for pos := range candidate {
			assignment := make(map[int]nucleotide.Base, len(candidate))
			for i, b := range candidate {
				assignment[i] = b
			}
			if s.consistent(pos, assignment) {
				continue
			}
			fixed, ok := s.mutatePosition(candidate, pos)
			if !ok {
				changed = false
				break
			}
			candidate[pos] = fixed
			changed = true
		}
		if s.fullyConsistent(candidate) {
			return candidate, true
		}
		if !changed {
			break
		}
		best = candidate
	}
	return nil, false
}

func (s *legacySolver) fullyConsistent(candidate []nucleotide.Base) bool {
	assignment := make(map[int]nucleotide.Base, len(candidate))
	for i, b := range candidate {
		assignment[i] = b
	}
	for _, k := range s.constraints {
		if !k.Consistent(assignment) {
			return false
		}
	}
	return true
}
