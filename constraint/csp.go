package constraint

import (
	"time"

	"github.com/bebop/nadesign/nucleotide"
)

// cspSolver is a full backtracking constraint-propagation solver over
// integer-valued variables with domains drawn from {A,C,G,T}. It is the
// generalization of synthesis/fix.Cds's iterative suggest-then-fix loop
// from codon-level changes down to single-nucleotide domain propagation:
// where Cds repeatedly asks "what changes would fix this problem" and
// ranks them by codon weight, cspSolver instead propagates a hard domain
// restriction per position and backtracks on contradiction, with value
// order still biased toward a reference sequence the same way Cds prefers
// the organism's highest-weight codon first.
type cspSolver struct {
	domains     []nucleotide.Base
	constraints []Kind
	byPosition  map[int][]Kind
	reference   []nucleotide.Base // nil if no bias; otherwise prefer reference[i] first
	deadline    time.Time
	hasDeadline bool
}

func newCSPSolver(domains []nucleotide.Base, constraints []Kind, reference []nucleotide.Base, budget time.Duration) *cspSolver {
	s := &cspSolver{
		domains:     append([]nucleotide.Base(nil), domains...),
		constraints: constraints,
		byPosition:  make(map[int][]Kind),
		reference:   reference,
	}
	if budget > 0 {
		s.deadline = time.Now().Add(budget)
		s.hasDeadline = true
	}
	for _, k := range constraints {
		for _, p := range k.Positions() {
			s.byPosition[p] = append(s.byPosition[p], k)
		}
	}
	return s
}

func (s *cspSolver) timedOut() bool {
	return s.hasDeadline && time.Now().After(s.deadline)
}

// solve runs variable-ordering backtracking search (most-constrained-first,
// i.e. smallest remaining domain) and returns a full concrete assignment,
// or (nil, false) on exhaustion/timeout.
func (s *cspSolver) solve() ([]nucleotide.Base, bool) {
	assignment := make(map[int]nucleotide.Base, len(s.domains))
	order := s.variableOrder()
	ok := s.backtrack(assignment, order, 0)
	if !ok {
		return nil, false
	}
	out := make([]nucleotide.Base, len(s.domains))
	for i := range out {
		out[i] = assignment[i]
	}
	return out, true
}

// variableOrder ranks positions by ascending domain size (weighted-domain
// heuristic), a standard most-constrained-variable ordering.
func (s *cspSolver) variableOrder() []int {
	order := make([]int, len(s.domains))
	for i := range order {
		order[i] = i
	}
	// simple insertion sort by domain popcount; N is small per mutation call.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && s.domains[order[j]].Count() < s.domains[order[j-1]].Count(); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	return order
}

func (s *cspSolver) backtrack(assignment map[int]nucleotide.Base, order []int, idx int) bool {
	if idx == len(order) {
		return true
	}
	if s.timedOut() {
		return false
	}
	pos := order[idx]
	for _, v := range s.valueOrder(pos) {
		if !s.domains[pos].Allows(v) {
			continue
		}
		assignment[pos] = v
		if s.consistentSoFar(pos, assignment) {
			if s.backtrack(assignment, order, idx+1) {
				return true
			}
		}
		delete(assignment, pos)
		if s.timedOut() {
			return false
		}
	}
	return false
}

// valueOrder returns concrete bases allowed at pos, with the reference base
// (if any and still allowed) tried first — biasing toward minimum-distance
// mutations the way Cds's weight map biases toward the organism's preferred
// codon.
func (s *cspSolver) valueOrder(pos int) []nucleotide.Base {
	bases := s.domains[pos].Bases()
	if s.reference == nil || pos >= len(s.reference) {
		return bases
	}
	ref := s.reference[pos]
	for i, b := range bases {
		if b == ref && i != 0 {
			bases[0], bases[i] = bases[i], bases[0]
			break
		}
	}
	return bases
}

func (s *cspSolver) consistentSoFar(justAssigned int, assignment map[int]nucleotide.Base) bool {
	for _, k := range s.byPosition[justAssigned] {
		if !k.Consistent(assignment) {
			return false
		}
	}
	return true
}
