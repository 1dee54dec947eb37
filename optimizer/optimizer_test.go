package optimizer

import (
	"context"
	"fmt"
	"testing"

	"github.com/bebop/nadesign/internal/rng"
)

// fakeModel is a minimal Model whose "defect" is simply the fraction of
// positions still set to 1 (a stand-in bad base); mutating a position
// always sets it to 0 (the stand-in good base), letting tests drive it to
// convergence deterministically.
type fakeModel struct {
	values       []int
	maxDepth     int
	activated    map[int]bool
	numComplexes int
}

func newFakeModel(n int) *fakeModel {
	v := make([]int, n)
	for i := range v {
		v[i] = 1
	}
	return &fakeModel{values: v, maxDepth: 2, activated: map[int]bool{}, numComplexes: 3}
}

func (m *fakeModel) NumPositions() int { return len(m.values) }
func (m *fakeModel) MaxDepth() int     { return m.maxDepth }

func (m *fakeModel) evaluation() Evaluation {
	perPos := make(map[int]float64)
	var total float64
	for i, v := range m.values {
		if v == 1 {
			perPos[i] = 1.0
			total++
		}
	}
	return Evaluation{WeightedTotal: total / float64(len(m.values)), PerPosition: perPos}
}

func (m *fakeModel) Evaluate(ctx context.Context, depth int) (Evaluation, error) {
	return m.evaluation(), nil
}

func (m *fakeModel) FullEvaluate(ctx context.Context) (Evaluation, error) {
	eval := m.evaluation()
	remaining := 0
	for i := 0; i < m.numComplexes; i++ {
		if !m.activated[i] {
			remaining++
		}
	}
	eval.WeightedTotal += 0.5 * float64(remaining)
	return eval, nil
}

func (m *fakeModel) Snapshot() Snapshot {
	cp := make([]int, len(m.values))
	copy(cp, m.values)
	return cp
}

func (m *fakeModel) Restore(s Snapshot) {
	copy(m.values, s.([]int))
}

func (m *fakeModel) SequenceKey() string {
	return fmt.Sprint(m.values)
}

func (m *fakeModel) Mutate(ctx context.Context, positions []int) (bool, error) {
	for _, p := range positions {
		m.values[p] = 0
	}
	return true, nil
}

func (m *fakeModel) Redecompose(ctx context.Context, d int) error {
	m.maxDepth = d
	return nil
}

func (m *fakeModel) RefocusCandidates(ctx context.Context) ([]int, error) {
	var out []int
	for i := 0; i < m.numComplexes; i++ {
		if !m.activated[i] {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *fakeModel) Activate(ctx context.Context, complexIndex int) error {
	m.activated[complexIndex] = true
	return nil
}

func TestTabuSetBounded(t *testing.T) {
	tb := newTabuSet(2)
	tb.add("a")
	tb.add("b")
	tb.add("c")
	if tb.len() != 2 {
		t.Errorf("expected bounded length 2, got %d", tb.len())
	}
	if tb.contains("a") {
		t.Error("expected oldest entry evicted")
	}
	if !tb.contains("c") {
		t.Error("expected newest entry present")
	}
}

func TestSampleMutationPositionsRespectsCount(t *testing.T) {
	source := rng.New(1)
	perPos := map[int]float64{0: 1.0, 1: 0.5, 2: 0.1}
	positions, err := sampleMutationPositions(source, 3, perPos, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 2 {
		t.Errorf("expected 2 positions, got %d", len(positions))
	}
}

func TestMutateLeavesConverges(t *testing.T) {
	model := newFakeModel(10)
	source := rng.New(1)
	params := DefaultParameters()
	params.FStop = 0.05
	params.MBad = 1000

	result, err := MutateLeaves(context.Background(), model, source, params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.WeightedTotal > params.stopThreshold(model.MaxDepth())+1e-9 {
		t.Errorf("expected convergence, got weighted_total=%v", result.WeightedTotal)
	}
}

func TestOptimizeLeavesReturnsAtLeastAsGoodAsL1(t *testing.T) {
	model := newFakeModel(6)
	source := rng.New(2)
	params := DefaultParameters()
	params.FStop = 0.01
	params.MBad = 500
	params.MReopt = 2

	result, err := OptimizeLeaves(context.Background(), model, source, params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.WeightedTotal < 0 {
		t.Errorf("unexpected negative weighted total: %v", result.WeightedTotal)
	}

	l1, err := MutateLeaves(context.Background(), newFakeModel(6), rng.New(2), params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.WeightedTotal > l1.WeightedTotal {
		t.Errorf("OptimizeLeaves weighted total %v is worse than L1's %v", result.WeightedTotal, l1.WeightedTotal)
	}
}

func TestOptimizeTubesActivatesPassiveComplexes(t *testing.T) {
	model := newFakeModel(8)
	source := rng.New(3)
	params := DefaultParameters()
	params.FStop = 0.01
	params.MBad = 500
	params.FRefocus = 0.0

	_, err := OptimizeTubes(context.Background(), model, source, params, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(model.activated) == 0 {
		t.Error("expected at least one passive complex activated during refocusing")
	}
}
