package tube

import (
	"context"
	"fmt"
	"math"

	"github.com/bebop/nadesign/defect"
	"github.com/bebop/nadesign/partition"
)

// TubeTarget names an on-target complex within a Tube: its index into the
// tube's complex list, its target concentration, and the global sequence
// positions it contributes to for concentration-defect apportionment.
type TubeTarget struct {
	ComplexIndex      int
	TargetConc        float64
	NucleotideIndices []int
}

// Tube owns a list of TubeTargets, a precomputed strand stoichiometry
// matrix A (complexes x strand types), and the water molarity at the
// design temperature used to convert between mole fraction and molar
// concentration.
type Tube struct {
	Name                 string
	Targets              []TubeTarget
	A                    *Matrix
	WaterMolarity        float64
	TotalNucleotideConc  float64
}

// New creates a Tube over the given stoichiometry matrix.
func New(name string, a *Matrix, waterMolarity, totalNucleotideConc float64) *Tube {
	return &Tube{Name: name, A: a, WaterMolarity: waterMolarity, TotalNucleotideConc: totalNucleotideConc}
}

// AddTarget registers an on-target complex.
func (t *Tube) AddTarget(target TubeTarget) {
	t.Targets = append(t.Targets, target)
}

// targetConcVector returns a vector of length A.Rows with TargetConc at
// each on-target complex's row and zero elsewhere.
func (t *Tube) targetConcVector() []float64 {
	v := make([]float64, t.A.Rows)
	for _, tgt := range t.Targets {
		v[tgt.ComplexIndex] = tgt.TargetConc
	}
	return v
}

// InitialMoleFractions forms x0 = A^T . (target_concs / water_molarity).
func (t *Tube) InitialMoleFractions() []float64 {
	concs := t.targetConcVector()
	scaled := make([]float64, len(concs))
	for i, c := range concs {
		scaled[i] = c / t.WaterMolarity
	}
	return t.A.MulTransposeVec(scaled)
}

// Equilibrate solves for complex concentrations given per-complex log Q,
// applying ensemble refocusing when part marks some complexes passive:
// the active rows of A are solved with x0 scaled by (1 - delta), and the
// result is re-inflated with zeros at passive complex indices.
func (t *Tube) Equilibrate(ctx context.Context, solver ConcentrationSolver, logQ []float64, part *partition.Partition, opts SolverOptions) ([]float64, error) {
	if len(logQ) != t.A.Rows {
		panic("tube: logQ length must match A.Rows")
	}

	active := part.Actives()
	activeA := t.A.RowSlice(active)
	activeLogQ := make([]float64, len(active))
	for newIdx, oldIdx := range active {
		activeLogQ[newIdx] = logQ[oldIdx]
	}

	x0 := t.InitialMoleFractions()
	deflate := part.Deflate()
	if deflate > 0 {
		for i := range x0 {
			x0[i] *= 1 - deflate
		}
	}
	logX0 := make([]float64, len(x0))
	for i, v := range x0 {
		logX0[i] = math.Log(v)
	}

	result, err := solver.Equilibrate(ctx, activeA, logX0, activeLogQ, opts)
	if err != nil {
		return nil, fmt.Errorf("tube: equilibrate %q: %w", t.Name, err)
	}
	if !result.Converged {
		return nil, fmt.Errorf("tube: equilibrate %q: %w (error magnitude %v)", t.Name, ErrConcentrationNonConvergence, result.ErrorMagnitude)
	}

	concentrations := make([]float64, t.A.Rows)
	for newIdx, oldIdx := range active {
		concentrations[oldIdx] = result.MoleFractions[newIdx] * t.WaterMolarity
	}
	return concentrations, nil
}

// Defect computes the tube's total defect from solved concentrations and
// per-complex structural defects, per the structural/concentration split:
// structural_defect_i = min(x_i, target_i)/target_i . complex_defect_i,
// concentration_defect_i = max(target_i - x_i, 0)/target_i, apportioned
// uniformly across the target's nucleotide indices. The result is
// normalized by the tube's total nucleotide concentration.
func (t *Tube) Defect(concentrations []float64, complexDefects map[int]defect.Defect) defect.Defect {
	out := defect.New()
	for _, tgt := range t.Targets {
		if tgt.TargetConc <= 0 {
			continue
		}
		xi := concentrations[tgt.ComplexIndex]

		structuralFactor := math.Min(xi, tgt.TargetConc) / tgt.TargetConc
		if cd, ok := complexDefects[tgt.ComplexIndex]; ok {
			for _, pos := range cd.Positions() {
				out.Add(pos, structuralFactor*cd.At(pos))
			}
		}

		deficit := math.Max(tgt.TargetConc-xi, 0) / tgt.TargetConc
		if deficit > 0 && len(tgt.NucleotideIndices) > 0 {
			per := deficit / float64(len(tgt.NucleotideIndices))
			for _, idx := range tgt.NucleotideIndices {
				out.Add(idx, per)
			}
		}
	}
	if t.TotalNucleotideConc > 0 {
		out = out.Scale(1 / t.TotalNucleotideConc)
	}
	return out
}
