package rng

import "testing"

func TestNewWithExplicitSeedIsDeterministic(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 10; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("expected identical sequences from identical seeds")
		}
	}
}

func TestNewWithZeroSeedDrawsEntropy(t *testing.T) {
	s := New(0)
	if s.Seed() == 0 {
		t.Error("expected a nonzero actual seed when requesting entropy-seeding")
	}
}

func TestSampleWeightedFavorsHigherWeight(t *testing.T) {
	s := New(1)
	choices := []WeightedChoice{
		{Item: "low", Weight: 1},
		{Item: "high", Weight: 99},
	}
	counts := map[interface{}]int{}
	for i := 0; i < 200; i++ {
		item, err := s.SampleWeighted(choices)
		if err != nil {
			t.Fatal(err)
		}
		counts[item]++
	}
	if counts["high"] <= counts["low"] {
		t.Errorf("expected high-weight item sampled more often, got %v", counts)
	}
}

func TestFloat64InUnitRange(t *testing.T) {
	s := New(7)
	for i := 0; i < 100; i++ {
		v := s.Float64()
		if v < 0 || v >= 1 {
			t.Fatalf("Float64() = %v, out of [0,1)", v)
		}
	}
}
