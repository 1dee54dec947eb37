package structure

import "testing"

func TestParseDotBracketSimple(t *testing.T) {
	p, err := ParseDotBracket("((..))")
	if err != nil {
		t.Fatal(err)
	}
	want := PairList{5, 4, Unpaired, Unpaired, 1, 0}
	for i := range want {
		if p[i] != want[i] {
			t.Errorf("p[%d] = %d, want %d", i, p[i], want[i])
		}
	}
	if err := p.Validate(); err != nil {
		t.Errorf("expected valid pair list: %v", err)
	}
}

func TestParseDotBracketUnbalanced(t *testing.T) {
	if _, err := ParseDotBracket("((."); err == nil {
		t.Fatal("expected error for unbalanced '('")
	}
	if _, err := ParseDotBracket(".))"); err == nil {
		t.Fatal("expected error for unbalanced ')'")
	}
}

func TestParseDotBracketInvalidChar(t *testing.T) {
	if _, err := ParseDotBracket("(.x)"); err == nil {
		t.Fatal("expected error for invalid character")
	}
}

func TestDotBracketRoundTrip(t *testing.T) {
	db := "((.(...).))"
	p, err := ParseDotBracket(db)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.DotBracket(); got != db {
		t.Errorf("round trip = %q, want %q", got, db)
	}
}

func TestValidateRejectsAsymmetricPair(t *testing.T) {
	p := NewPairList(4)
	p[0] = 1
	p[1] = 2 // asymmetric: p[1] should be 0
	if err := p.Validate(); err == nil {
		t.Fatal("expected error for asymmetric pair table")
	}
}

func TestHasCrossingDetectsPseudoknot(t *testing.T) {
	p := NewPairList(4)
	p.Pair(0, 2)
	p.Pair(1, 3)
	if !p.HasCrossing(0, 4) {
		t.Error("expected crossing pairs (0,2) and (1,3) to be detected")
	}
}

func TestHasCrossingAllowsNesting(t *testing.T) {
	p := NewPairList(4)
	p.Pair(0, 3)
	p.Pair(1, 2)
	if p.HasCrossing(0, 4) {
		t.Error("nested pairs should not be reported as crossing")
	}
}

func TestNewStructureNicks(t *testing.T) {
	s := NewStructure([]int{3, 2, 4})
	if s.Len() != 9 {
		t.Fatalf("Len() = %d, want 9", s.Len())
	}
	if s.NumStrands() != 3 {
		t.Fatalf("NumStrands() = %d, want 3", s.NumStrands())
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("expected valid structure: %v", err)
	}
	if s.StrandOf(0) != 0 || s.StrandOf(3) != 1 || s.StrandOf(8) != 2 {
		t.Error("StrandOf mapped incorrectly")
	}
}

func TestRotatePreservesStrandLengthsAndPairs(t *testing.T) {
	s := NewStructure([]int{2, 3})
	// pair last base of strand 0 with first base of strand 1 (positions 1,2)
	s.Pairs.Pair(1, 2)

	rotated := s.Rotate(1)
	if err := rotated.Validate(); err != nil {
		t.Fatalf("rotated structure invalid: %v", err)
	}
	if rotated.NumStrands() != 2 {
		t.Fatalf("NumStrands() after rotate = %d, want 2", rotated.NumStrands())
	}
	// strand 1 (len 3) now comes first, strand 0 (len 2) comes second
	if rotated.Nicks[0] != 3 || rotated.Nicks[1] != 5 {
		t.Errorf("rotated nicks = %v, want [3 5]", rotated.Nicks)
	}
	// original pair (1,2) becomes (4,0) after rotation
	if rotated.Pairs[4] != 0 || rotated.Pairs[0] != 4 {
		t.Errorf("rotated pair mapping incorrect: %v", rotated.Pairs)
	}
}

func TestRotateByZeroIsIdentity(t *testing.T) {
	s := NewStructure([]int{2, 3})
	s.Pairs.Pair(0, 4)
	rotated := s.Rotate(0)
	for i := range s.Pairs {
		if rotated.Pairs[i] != s.Pairs[i] {
			t.Errorf("Rotate(0) changed pairs at %d", i)
		}
	}
}

func TestRotateByNumStrandsIsIdentity(t *testing.T) {
	s := NewStructure([]int{2, 3, 1})
	s.Pairs.Pair(0, 5)
	rotated := s.Rotate(3)
	for i := range s.Pairs {
		if rotated.Pairs[i] != s.Pairs[i] {
			t.Errorf("Rotate(NumStrands) changed pairs at %d", i)
		}
	}
}
