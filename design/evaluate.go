package design

import (
	"context"
	"errors"
	"fmt"

	"github.com/bebop/nadesign/decompose"
	"github.com/bebop/nadesign/defect"
	"github.com/bebop/nadesign/optimizer"
	"github.com/bebop/nadesign/partition"
	"github.com/bebop/nadesign/structure"
	"github.com/bebop/nadesign/thermo"
	"github.com/bebop/nadesign/tube"
)

// errNotEvaluated is returned by the tubeDefect/complexDefect accessors
// when queried before refresh has populated the per-call cache.
var errNotEvaluated = errors.New("design: structural state not evaluated")

// evalCache holds one Evaluate call's worth of structural results: the
// per-complex defect (absent for passive complexes), each tube's resolved
// defect, and each tube's solved complex concentrations, so the objective
// bindings built by
// buildObjectiveBindings can read them without recomputing per objective.
type evalCache struct {
	complexDefects map[int]defect.Defect
	tubeDefects    []defect.Defect
	concentrations [][]float64 // per tube, indexed by global complex index
}

var defaultSolverOptions = tube.SolverOptions{Method: "newton", Tolerance: 1e-12, MaxIterations: 200}

// refresh recomputes every active complex's structural defect and log Q at
// depth, then solves each tube's equilibrium concentrations and defect
// against the given partition, storing the results for the objective
// bindings to read.
func (d *Design) refresh(ctx context.Context, depth int, part *partition.Partition) error {
	seq := d.Model.Bases()
	logQ := make([]float64, len(d.Complexes))
	complexDefects := make(map[int]defect.Defect, len(d.Complexes))

	for i, c := range d.Complexes {
		if !part.IsActive(i) {
			continue
		}
		summary, err := d.Eval.Evaluate(ctx, c.Root, seq, depth)
		if err != nil {
			return fmt.Errorf("design: evaluate complex %q: %w", c.Name, err)
		}
		logQ[i] = summary.LogQ + decompose.RotationalSymmetryCorrection(c.SymmetryOrder)
		if c.Target != nil {
			complexDefects[i] = computeComplexDefect(summary.Pairs, c)
		}
	}

	tubeDefects := make([]defect.Defect, len(d.Tubes))
	allConcentrations := make([][]float64, len(d.Tubes))
	for i, t := range d.Tubes {
		concentrations, err := t.Equilibrate(ctx, d.Solver, logQ, part, defaultSolverOptions)
		if err != nil {
			return err
		}
		tubeDefects[i] = t.Defect(concentrations, complexDefects)
		allConcentrations[i] = concentrations
	}

	d.cache = &evalCache{complexDefects: complexDefects, tubeDefects: tubeDefects, concentrations: allConcentrations}
	return nil
}

// tubeConcentrations returns the last-resolved per-complex concentrations
// for tube i, indexed by global complex index.
func (d *Design) tubeConcentrations(i int) ([]float64, error) {
	if d.cache == nil {
		return nil, errNotEvaluated
	}
	return d.cache.concentrations[i], nil
}

func (d *Design) tubeDefects() ([]defect.Defect, error) {
	if d.cache == nil {
		return nil, errNotEvaluated
	}
	return d.cache.tubeDefects, nil
}

func (d *Design) tubeDefect(i int) (defect.Defect, error) {
	tds, err := d.tubeDefects()
	if err != nil {
		return defect.Defect{}, err
	}
	return tds[i], nil
}

func (d *Design) complexDefect(i int) (defect.Defect, error) {
	if d.cache == nil {
		return defect.Defect{}, errNotEvaluated
	}
	if cd, ok := d.cache.complexDefects[i]; ok {
		return cd, nil
	}
	return defect.New(), nil
}

// evaluateObjectives weights and merges every bound objective's defect
// into the (weighted_total, per_position) pair the optimizer scores
// mutations against. refresh must have been called first so tube/complex
// objectives have structural state to read.
func (d *Design) evaluateObjectives() (optimizer.Evaluation, error) {
	perPosition := make(map[int]float64)
	var total float64
	for _, b := range d.objectives {
		raw, err := b.evaluate(d)
		if err != nil {
			return optimizer.Evaluation{}, err
		}
		w := d.Weights.Get(b.tubeName, b.name)
		for _, pos := range raw.Positions() {
			perPosition[pos] += w * raw.At(pos)
		}
		total += w * raw.Total()
	}
	return optimizer.Evaluation{WeightedTotal: total, PerPosition: perPosition}, nil
}

// computeComplexDefect scores every position of a target structure by
// 1 minus the probability the position realized its target state (paired
// to its target partner, or unpaired), grounded on NUPACK's nucleotide
// pair-probability defect.
func computeComplexDefect(pairs *thermo.SparseMatrix, c *Complex) defect.Defect {
	out := defect.New()
	if pairs == nil {
		return out
	}
	n := len(c.Target.Pairs)
	rowSum := make([]float64, n)
	pairs.Each(func(i, j int, v float64) {
		rowSum[i] += v
		if j != i {
			rowSum[j] += v
		}
	})
	for i, targetJ := range c.Target.Pairs {
		global := c.GlobalIndices[i]
		if targetJ == structure.Unpaired {
			out.Add(global, rowSum[i])
			continue
		}
		out.Add(global, 1-pairs.Get(i, targetJ))
	}
	return out
}
