package tube

import (
	"context"
	"testing"

	"github.com/bebop/nadesign/defect"
	"github.com/bebop/nadesign/partition"
)

type fakeSolver struct {
	result ConcentrationResult
	err    error
}

func (f fakeSolver) Equilibrate(ctx context.Context, a *Matrix, logX0 []float64, logQ []float64, opts SolverOptions) (ConcentrationResult, error) {
	return f.result, f.err
}

func TestInitialMoleFractions(t *testing.T) {
	a := NewMatrix(2, 1)
	a.Set(0, 0, 1)
	a.Set(1, 0, 1)
	tb := New("t", a, 55.14, 1e-6)
	tb.AddTarget(TubeTarget{ComplexIndex: 0, TargetConc: 1e-6})
	tb.AddTarget(TubeTarget{ComplexIndex: 1, TargetConc: 2e-6})

	x0 := tb.InitialMoleFractions()
	want := (1e-6 + 2e-6) / 55.14
	if diff := x0[0] - want; diff > 1e-12 || diff < -1e-12 {
		t.Errorf("x0[0] = %v, want %v", x0[0], want)
	}
}

func TestEquilibrateReinflatesPassiveComplexes(t *testing.T) {
	a := NewMatrix(2, 1)
	a.Set(0, 0, 1)
	a.Set(1, 0, 1)
	tb := New("t", a, 55.14, 1e-6)
	tb.AddTarget(TubeTarget{ComplexIndex: 0, TargetConc: 1e-6})

	part := partition.New(2, 0.0)
	part.SetActive(1, false)

	solver := fakeSolver{result: ConcentrationResult{MoleFractions: []float64{1e-8}, Converged: true}}
	concs, err := tb.Equilibrate(context.Background(), solver, []float64{-1, -2}, part, SolverOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if concs[1] != 0 {
		t.Errorf("passive complex concentration = %v, want 0", concs[1])
	}
	if concs[0] == 0 {
		t.Error("active complex concentration should be nonzero")
	}
}

func TestEquilibrateReturnsErrorOnNonConvergence(t *testing.T) {
	a := NewMatrix(1, 1)
	a.Set(0, 0, 1)
	tb := New("t", a, 55.14, 1e-6)
	tb.AddTarget(TubeTarget{ComplexIndex: 0, TargetConc: 1e-6})

	part := partition.New(1, 0.0)
	solver := fakeSolver{result: ConcentrationResult{Converged: false, ErrorMagnitude: 0.9}}
	_, err := tb.Equilibrate(context.Background(), solver, []float64{-1}, part, SolverOptions{})
	if err == nil {
		t.Fatal("expected error on non-convergence")
	}
}

func TestDefectStructuralAndConcentrationSplit(t *testing.T) {
	a := NewMatrix(1, 1)
	a.Set(0, 0, 1)
	tb := New("t", a, 55.14, 1.0)
	tb.AddTarget(TubeTarget{ComplexIndex: 0, TargetConc: 1.0, NucleotideIndices: []int{0, 1}})

	cd := defect.New()
	cd.Add(0, 0.2)
	cd.Add(1, 0.4)

	concentrations := []float64{0.5}
	out := tb.Defect(concentrations, map[int]defect.Defect{0: cd})

	// structural factor = min(0.5,1)/1 = 0.5
	if diff := out.At(0) - (0.5*0.2 + 0.5/2); diff > 1e-9 || diff < -1e-9 {
		t.Errorf("out.At(0) = %v", out.At(0))
	}
}

func TestDefectSkipsZeroTargetConc(t *testing.T) {
	a := NewMatrix(1, 1)
	tb := New("t", a, 55.14, 1.0)
	tb.AddTarget(TubeTarget{ComplexIndex: 0, TargetConc: 0})
	out := tb.Defect([]float64{0}, nil)
	if out.Total() != 0 {
		t.Errorf("expected zero defect for zero target concentration, got %v", out.Total())
	}
}

func TestRowSliceSelectsGivenRows(t *testing.T) {
	a := NewMatrix(3, 2)
	for i := 0; i < 3; i++ {
		a.Set(i, 0, float64(i))
		a.Set(i, 1, float64(i*10))
	}
	sliced := a.RowSlice([]int{0, 2})
	if sliced.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", sliced.Rows)
	}
	if sliced.At(1, 0) != 2 || sliced.At(1, 1) != 20 {
		t.Errorf("unexpected sliced row 1: %v %v", sliced.At(1, 0), sliced.At(1, 1))
	}
}
