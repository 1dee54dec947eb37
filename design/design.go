package design

import (
	"fmt"
	"sort"

	"github.com/bebop/nadesign/constraint"
	"github.com/bebop/nadesign/defect"
	"github.com/bebop/nadesign/eval"
	"github.com/bebop/nadesign/internal/rng"
	"github.com/bebop/nadesign/objective"
	"github.com/bebop/nadesign/optimizer"
	"github.com/bebop/nadesign/partition"
	"github.com/bebop/nadesign/sequence"
	"github.com/bebop/nadesign/thermo"
	"github.com/bebop/nadesign/tube"
)

// objectiveBinding closes over whatever a concrete objective.Objective
// needs out of the Design's complexes/tubes at evaluation time, so
// Evaluate can walk a flat list instead of re-deriving each objective's
// dependencies from its ObjectiveSpec on every call.
type objectiveBinding struct {
	tubeName   string // weight lookup key; empty for complex/pattern/similarity/ssm/energy objectives
	name       string // weight lookup key
	evaluate   func(d *Design) (defect.Defect, error)
}

// Design owns one Specification's worth of wired-up state: the flat
// sequence model, the posted constraint engine, every Complex and Tube,
// the shared ThermoCache/ComplexEvaluator, the EnsemblePartition, and the
// bound objective list. It implements the pieces optimizer.Model needs,
// split out into Designer so the optimization-loop bookkeeping (RNG,
// logging, tabu set) stays separate from this wiring.
type Design struct {
	Model    *sequence.Model
	Engine   *constraint.Engine
	Cache    *thermo.Cache
	Eval     *eval.ComplexEvaluator
	Solver   tube.ConcentrationSolver
	Partition *partition.Partition

	Complexes    []*Complex
	complexIndex map[string]int
	Tubes        []*tube.Tube
	tubeIndex    map[string]int

	Weights    objective.Weights
	objectives []objectiveBinding

	Params optimizer.Parameters
	cache  *evalCache
}

// NewDesign wires a Specification into a Design: it resolves every
// domain/strand/complex/tube definition against the shared sequence
// model, posts complementarity constraints implied by every complex's
// target structure, builds the stoichiometry matrix each Tube solves
// against, and converts every ObjectiveSpec into a bound objective
// closure. kernel and solver are the two external black boxes (C5's
// thermodynamic ensemble kernel and C6's mass-action solver) that the
// rest of the engine never implements itself.
func NewDesign(spec Specification, kernel thermo.Kernel, solver tube.ConcentrationSolver, source *rng.Source) (*Design, error) {
	total := 0
	for _, d := range spec.Domains {
		total += d.Length
	}
	model := sequence.NewModel(total)
	engine := constraint.NewEngine(total, source.Rand())

	offset := 0
	for _, d := range spec.Domains {
		if err := model.DefineDomain(d.Name, offset, offset+d.Length); err != nil {
			return nil, err
		}
		pattern, err := domainPattern(d)
		if err != nil {
			return nil, err
		}
		for i, allowed := range pattern {
			if err := engine.RestrictDomain(offset+i, allowed); err != nil {
				return nil, fmt.Errorf("design: domain %q position %d: %w", d.Name, i, err)
			}
		}
		offset += d.Length
	}
	domains := newDomainOffsetIndex(spec)

	for _, s := range spec.Strands {
		if err := model.DefineStrand(s.Name, s.Domains...); err != nil {
			return nil, err
		}
	}

	complexes := make([]*Complex, 0, len(spec.Complexes))
	complexIndex := make(map[string]int, len(spec.Complexes))
	for _, cs := range spec.Complexes {
		c, err := buildComplex(cs, model)
		if err != nil {
			return nil, err
		}
		complexIndex[c.Name] = len(complexes)
		complexes = append(complexes, c)

		if c.Target != nil {
			postTargetConstraints(engine, c)
		}
	}

	cache := thermo.NewCache(spec.Parameters.CacheBytes)
	evaluator := eval.NewComplexEvaluator(kernel, cache, spec.TemperatureKelvin)

	part := partition.New(len(complexes), spec.Parameters.FPassive)

	strandTypeIndex := make(map[string]int, len(spec.Strands))
	strandNames := model.StrandNames()
	sort.Strings(strandNames)
	for i, name := range strandNames {
		strandTypeIndex[name] = i
	}

	tubes := make([]*tube.Tube, 0, len(spec.Tubes))
	tubeIndex := make(map[string]int, len(spec.Tubes))
	for _, ts := range spec.Tubes {
		a := tube.NewMatrix(len(complexes), len(strandTypeIndex))
		for ci, c := range complexes {
			for _, strandName := range c.StrandNames {
				col, ok := strandTypeIndex[strandName]
				if !ok {
					return nil, fmt.Errorf("design: tube %q: %w: strand %q", ts.Name, ErrUnknownName, strandName)
				}
				a.Set(ci, col, a.At(ci, col)+1)
			}
		}
		t := tube.New(ts.Name, a, ts.WaterMolarity, ts.TotalNucleotideConc)
		for _, target := range ts.Targets {
			ci, ok := complexIndex[target.Complex]
			if !ok {
				return nil, fmt.Errorf("design: tube %q target: %w: complex %q", ts.Name, ErrUnknownName, target.Complex)
			}
			t.AddTarget(tube.TubeTarget{
				ComplexIndex:      ci,
				TargetConc:        target.TargetConc,
				NucleotideIndices: complexes[ci].GlobalIndices,
			})
		}
		for _, offName := range ts.OffTargetComplexes {
			ci, ok := complexIndex[offName]
			if !ok {
				return nil, fmt.Errorf("design: tube %q off-target: %w: complex %q", ts.Name, ErrUnknownName, offName)
			}
			part.SetActive(ci, false)
		}
		tubeIndex[ts.Name] = len(tubes)
		tubes = append(tubes, t)
	}

	d := &Design{
		Model:        model,
		Engine:       engine,
		Cache:        cache,
		Eval:         evaluator,
		Solver:       solver,
		Partition:    part,
		Complexes:    complexes,
		complexIndex: complexIndex,
		Tubes:        tubes,
		tubeIndex:    tubeIndex,
		Weights:      spec.Weights,
		Params:       spec.Parameters,
	}

	bindings, err := buildObjectiveBindings(spec, d, domains)
	if err != nil {
		return nil, err
	}
	d.objectives = bindings

	return d, nil
}

// postTargetConstraints posts a Complementarity constraint for every
// paired position named by a complex's target structure, translated from
// the complex's local coordinates to the design's global positions.
func postTargetConstraints(engine *constraint.Engine, c *Complex) {
	for i, j := range c.Target.Pairs {
		if j <= i {
			continue
		}
		engine.Post(constraint.Complementarity{I: c.GlobalIndices[i], J: c.GlobalIndices[j]})
	}
}

// ComplexByName looks up a built Complex's index by name.
func (d *Design) ComplexByName(name string) (int, error) {
	i, ok := d.complexIndex[name]
	if !ok {
		return 0, fmt.Errorf("design: %w: complex %q", ErrUnknownName, name)
	}
	return i, nil
}

// TubeByName looks up a built Tube's index by name.
func (d *Design) TubeByName(name string) (int, error) {
	i, ok := d.tubeIndex[name]
	if !ok {
		return 0, fmt.Errorf("design: %w: tube %q", ErrUnknownName, name)
	}
	return i, nil
}

// domainOffsetIndex is a small lookup table built once at construction
// time, used by objective bindings that need a domain's global position
// range or ordinal index (pattern windows, SSM groups, energy domains).
type domainOffsetIndex struct {
	start  map[string]int
	length map[string]int
	index  map[string]int
}

func newDomainOffsetIndex(spec Specification) domainOffsetIndex {
	idx := domainOffsetIndex{start: map[string]int{}, length: map[string]int{}, index: map[string]int{}}
	offset := 0
	for i, d := range spec.Domains {
		idx.start[d.Name] = offset
		idx.length[d.Name] = d.Length
		idx.index[d.Name] = i
		offset += d.Length
	}
	return idx
}

func (idx domainOffsetIndex) positions(name string) []int {
	start, length := idx.start[name], idx.length[name]
	out := make([]int, length)
	for i := range out {
		out[i] = start + i
	}
	return out
}
