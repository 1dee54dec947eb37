package objective

import (
	"testing"

	"github.com/bebop/nadesign/defect"
	"github.com/bebop/nadesign/nucleotide"
)

func bases(s string) []nucleotide.Base {
	out := make([]nucleotide.Base, len(s))
	for i := 0; i < len(s); i++ {
		b, err := nucleotide.ParseBase(s[i])
		if err != nil {
			panic(err)
		}
		out[i] = b
	}
	return out
}

func TestWeightsGetDefaultsToOne(t *testing.T) {
	w := Weights{}
	if w.Get("t", "o") != 1.0 {
		t.Errorf("Get default = %v, want 1.0", w.Get("t", "o"))
	}
	w[WeightKey{Tube: "t", Objective: "o"}] = 2.5
	if w.Get("t", "o") != 2.5 {
		t.Errorf("Get = %v, want 2.5", w.Get("t", "o"))
	}
}

func TestMultitubeMergesTubeDefects(t *testing.T) {
	a := defect.New()
	a.Add(0, 1.0)
	b := defect.New()
	b.Add(0, 2.0)
	merged := Multitube{}.Evaluate([]defect.Defect{a, b})
	if merged.At(0) != 3.0 {
		t.Errorf("merged.At(0) = %v, want 3.0", merged.At(0))
	}
}

func TestComplexNormalizesByLength(t *testing.T) {
	d := defect.New()
	d.Add(0, 4.0)
	out := Complex{}.Evaluate(d, 4)
	if out.At(0) != 1.0 {
		t.Errorf("out.At(0) = %v, want 1.0", out.At(0))
	}
}

func TestPatternFlagsOccurrence(t *testing.T) {
	seq := bases("AAACGTAAA")
	p := Pattern{
		Forbidden: bases("CGT"),
		Windows:   [][]int{{0, 1, 2, 3, 4, 5, 6, 7, 8}},
	}
	out := p.Evaluate(seq)
	if out.Total() == 0 {
		t.Fatal("expected nonzero defect for matching forbidden pattern")
	}
}

func TestPatternNoOccurrenceIsZero(t *testing.T) {
	seq := bases("AAAAAAA")
	p := Pattern{
		Forbidden: bases("CGT"),
		Windows:   [][]int{{0, 1, 2, 3, 4, 5, 6}},
	}
	out := p.Evaluate(seq)
	if out.Total() != 0 {
		t.Errorf("expected zero defect, got %v", out.Total())
	}
}

func TestSimilarityWithinBoundsIsZero(t *testing.T) {
	seq := bases("ACGT")
	ref := bases("ACGT")
	s := Similarity{Window: []int{0, 1, 2, 3}, Reference: ref, Lo: 0.5, Hi: 1.0}
	out := s.Evaluate(seq)
	if out.Total() != 0 {
		t.Errorf("expected zero defect within bounds, got %v", out.Total())
	}
}

func TestSimilarityBelowLoPenalizesMismatches(t *testing.T) {
	seq := bases("AAAA")
	ref := bases("ACGT")
	s := Similarity{Window: []int{0, 1, 2, 3}, Reference: ref, Lo: 0.9, Hi: 1.0}
	out := s.Evaluate(seq)
	if out.Total() == 0 {
		t.Fatal("expected nonzero defect below Lo")
	}
}

func TestSSMFlagsSharedKmerAcrossGroups(t *testing.T) {
	seq := bases("ACGTACGT")
	s := SSM{
		WordSize: 4,
		Strands:  [][]int{{0, 1, 2, 3}, {4, 5, 6, 7}},
		GroupOf:  func(pos int) int { return pos / 4 },
	}
	out := s.Evaluate(seq)
	if out.Total() == 0 {
		t.Fatal("expected nonzero defect for repeated k-mer across distinct groups")
	}
}

func TestSSMSingleOccurrenceIsZero(t *testing.T) {
	// AACC is not its own reverse complement, so no palindrome violation.
	seq := bases("AACCTTTT")
	s := SSM{
		WordSize: 4,
		Strands:  [][]int{{0, 1, 2, 3}},
		GroupOf:  func(pos int) int { return 0 },
	}
	out := s.Evaluate(seq)
	if out.Total() != 0 {
		t.Errorf("expected zero defect for a single occurrence, got %v", out.Total())
	}
}

func TestEnergyEqualizationPenalizesDeviation(t *testing.T) {
	domainSeqs := map[string][]nucleotide.Base{
		"a": bases("ACGT"),
		"b": bases("TTTT"),
	}
	domainPositions := map[string][]int{
		"a": {0, 1, 2, 3},
		"b": {4, 5, 6, 7},
	}
	fold := func(seq []nucleotide.Base) (float64, error) {
		if len(seq) > 0 && seq[0] == nucleotide.BaseT {
			return -10, nil
		}
		return -1, nil
	}
	e := EnergyEqualization{DomainNames: []string{"a", "b"}, Scale: 1.0}
	out, err := e.Evaluate(domainSeqs, domainPositions, fold)
	if err != nil {
		t.Fatal(err)
	}
	if out.Total() == 0 {
		t.Fatal("expected nonzero defect for differing domain energies")
	}
}
