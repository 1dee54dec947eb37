package sequence

import (
	"errors"
	"testing"

	"github.com/bebop/nadesign/nucleotide"
)

func TestDefineDomainAndStrand(t *testing.T) {
	m := NewModel(10)
	if err := m.DefineDomain("a", 0, 4); err != nil {
		t.Fatal(err)
	}
	if err := m.DefineDomain("b", 4, 10); err != nil {
		t.Fatal(err)
	}
	if err := m.DefineStrand("s1", "a", "b"); err != nil {
		t.Fatal(err)
	}
	sv, err := m.Strand("s1")
	if err != nil {
		t.Fatal(err)
	}
	if sv.Len() != 10 {
		t.Errorf("strand length = %d, want 10", sv.Len())
	}
}

func TestDefineStrandUnknownDomain(t *testing.T) {
	m := NewModel(5)
	err := m.DefineStrand("s", "missing")
	if !errors.Is(err, ErrUnknownName) {
		t.Fatalf("expected ErrUnknownName, got %v", err)
	}
}

func TestDefineDomainOutOfBounds(t *testing.T) {
	m := NewModel(5)
	if err := m.DefineDomain("a", 0, 6); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

func TestInitializeAndToSequence(t *testing.T) {
	m := NewModel(4)
	if err := m.DefineDomain("a", 0, 2); err != nil {
		t.Fatal(err)
	}
	if err := m.DefineDomain("b", 2, 4); err != nil {
		t.Fatal(err)
	}
	if err := m.DefineStrand("s", "a", "b"); err != nil {
		t.Fatal(err)
	}
	bases := []nucleotide.Base{nucleotide.BaseA, nucleotide.BaseC, nucleotide.BaseG, nucleotide.BaseT}
	if err := m.InitializeSequence(bases); err != nil {
		t.Fatal(err)
	}
	sv, _ := m.Strand("s")
	got := m.ToSequence(sv)
	for i, b := range bases {
		if got[i] != b {
			t.Errorf("position %d = %v, want %v", i, got[i], b)
		}
	}
	if got := m.String(nucleotide.DNA); got != "ACGT" {
		t.Errorf("String() = %q, want ACGT", got)
	}
}

func TestSetSequenceBumpsMutationCounter(t *testing.T) {
	m := NewModel(4)
	if err := m.SetSequence(1, []nucleotide.Base{nucleotide.BaseA, nucleotide.BaseA}); err != nil {
		t.Fatal(err)
	}
	if m.TimesMutated(0) != 0 || m.TimesMutated(1) != 1 || m.TimesMutated(2) != 1 {
		t.Error("mutation counters not updated correctly")
	}
}

func TestSetSequenceOutOfBounds(t *testing.T) {
	m := NewModel(4)
	if err := m.SetSequence(3, []nucleotide.Base{nucleotide.BaseA, nucleotide.BaseA}); err == nil {
		t.Fatal("expected out-of-bounds error")
	}
}

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

func TestComplexCanonicalRotationInvariant(t *testing.T) {
	c1 := Complex{Strands: [][]nucleotide.Base{bases("AAAA"), bases("CCCC"), bases("GGGG")}}
	c2 := Complex{Strands: [][]nucleotide.Base{bases("GGGG"), bases("AAAA"), bases("CCCC")}}
	if !c1.Equal(c2) {
		t.Error("rotated strand orders should be equal complexes")
	}
	if c1.Hash() != c2.Hash() {
		t.Error("rotated strand orders should hash identically")
	}
}

func TestComplexDistinctStrandsNotEqual(t *testing.T) {
	c1 := Complex{Strands: [][]nucleotide.Base{bases("AAAA"), bases("CCCC")}}
	c2 := Complex{Strands: [][]nucleotide.Base{bases("AAAA"), bases("TTTT")}}
	if c1.Equal(c2) {
		t.Error("different strand content should not be equal")
	}
}

func TestRotationalSymmetryOrder(t *testing.T) {
	c := Complex{Strands: [][]nucleotide.Base{bases("AAAA"), bases("AAAA")}}
	if got := c.RotationalSymmetryOrder(); got != 2 {
		t.Errorf("symmetric duplicate strands: order = %d, want 2", got)
	}
	asym := Complex{Strands: [][]nucleotide.Base{bases("AAAA"), bases("CCCC")}}
	if got := asym.RotationalSymmetryOrder(); got != 1 {
		t.Errorf("asymmetric strands: order = %d, want 1", got)
	}
}

func TestRotationalSymmetrySingleStrand(t *testing.T) {
	c := Complex{Strands: [][]nucleotide.Base{bases("AAAA")}}
	if got := c.RotationalSymmetryOrder(); got != 1 {
		t.Errorf("single strand: order = %d, want 1", got)
	}
}
