package constraint

import (
	"math/rand"
	"testing"

	"github.com/bebop/nadesign/nucleotide"
)

func TestInitialSequenceSatisfiesMatch(t *testing.T) {
	e := NewEngine(4, rand.New(rand.NewSource(1)))
	e.Post(Match{I: 0, J: 2})
	seq, err := e.InitialSequence()
	if err != nil {
		t.Fatal(err)
	}
	if seq[0] != seq[2] {
		t.Errorf("Match constraint violated: seq[0]=%v seq[2]=%v", seq[0], seq[2])
	}
}

func TestInitialSequenceSatisfiesComplementarity(t *testing.T) {
	e := NewEngine(2, rand.New(rand.NewSource(1)))
	e.Post(Complementarity{I: 0, J: 1, Wobble: false})
	seq, err := e.InitialSequence()
	if err != nil {
		t.Fatal(err)
	}
	if seq[0].Complement() != seq[1] && seq[1].Complement() != seq[0] {
		t.Errorf("complementarity violated: %v %v", seq[0], seq[1])
	}
}

func TestRestrictDomainUnsatisfiable(t *testing.T) {
	e := NewEngine(1, rand.New(rand.NewSource(1)))
	if err := e.RestrictDomain(0, nucleotide.BaseA); err != nil {
		t.Fatal(err)
	}
	if err := e.RestrictDomain(0, nucleotide.BaseC); err != ErrUnsatisfiable {
		t.Errorf("expected ErrUnsatisfiable, got %v", err)
	}
}

func TestPatternConstraintForbidsMatch(t *testing.T) {
	e := NewEngine(4, rand.New(rand.NewSource(2)))
	// forbid "AA" anywhere in the window
	e.Post(Pattern{Window: []int{0, 1, 2, 3}, Pattern: []nucleotide.Base{nucleotide.BaseA, nucleotide.BaseA}})
	seq, err := e.InitialSequence()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i+1 < len(seq); i++ {
		if seq[i] == nucleotide.BaseA && seq[i+1] == nucleotide.BaseA {
			t.Errorf("forbidden pattern AA found at %d", i)
		}
	}
}

func TestMutationLeavesPositionUnchangedWhenInfeasible(t *testing.T) {
	e := NewEngine(2, rand.New(rand.NewSource(3)))
	if err := e.RestrictDomain(0, nucleotide.BaseA); err != nil {
		t.Fatal(err)
	}
	if err := e.RestrictDomain(1, nucleotide.BaseA); err != nil {
		t.Fatal(err)
	}
	current := []nucleotide.Base{nucleotide.BaseA, nucleotide.BaseA}
	out, err := e.Mutation(current, []int{0}, MutationPolicy{MsecCutoff: 50})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != nucleotide.BaseA {
		t.Errorf("position with single-base domain should remain unchanged, got %v", out[0])
	}
}

func TestMutationChangesFeasiblePosition(t *testing.T) {
	e := NewEngine(2, rand.New(rand.NewSource(4)))
	current := []nucleotide.Base{nucleotide.BaseA, nucleotide.BaseC}
	out, err := e.Mutation(current, []int{0}, MutationPolicy{MsecCutoff: 50})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] == current[0] {
		t.Error("expected position 0 to change away from its current base")
	}
}

func TestMutationDeterministicForcesLegacy(t *testing.T) {
	e := NewEngine(2, rand.New(rand.NewSource(5)))
	current := []nucleotide.Base{nucleotide.BaseA, nucleotide.BaseC}
	out, err := e.Mutation(current, []int{0}, MutationPolicy{MsecCutoff: 1000, Deterministic: true})
	if err != nil {
		t.Fatal(err)
	}
	if out[0] == current[0] {
		t.Error("expected deterministic mutation to still change position 0")
	}
}

func TestDiversityConstraint(t *testing.T) {
	e := NewEngine(4, rand.New(rand.NewSource(6)))
	e.Post(Diversity{Window: []int{0, 1, 2, 3}, W: 4, K: 3})
	seq, err := e.InitialSequence()
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[nucleotide.Base]bool)
	for _, b := range seq {
		seen[b] = true
	}
	if len(seen) < 3 {
		t.Errorf("expected at least 3 distinct bases, got %d", len(seen))
	}
}

func TestAdaptiveMsecCutoffStaysNonNegative(t *testing.T) {
	e := NewEngine(2, rand.New(rand.NewSource(7)))
	before := e.AdaptiveMsecCutoff()
	current := []nucleotide.Base{nucleotide.BaseA, nucleotide.BaseC}
	if _, err := e.Mutation(current, []int{0}, MutationPolicy{Deterministic: true}); err != nil {
		t.Fatal(err)
	}
	after := e.AdaptiveMsecCutoff()
	if after < 0 || before < 0 {
		t.Fatalf("cutoff should never be negative: before=%d after=%d", before, after)
	}
}
