/*
EnergyEqualization penalizes listed domains whose free energy, as
returned by a DuplexEnergy callback, deviates from a reference free
energy.

Grounded on fold.Fold (fold/fold.go) used here as a black-box two-state
duplex evaluator rather than the full ensemble ThermoKernel C5 uses
elsewhere — the roles are reversed from the rest of the engine: this
objective only ever needs one number (a duplex free energy) per domain,
not a pair-probability matrix, so it takes a narrow DuplexEnergy callback
instead of the full thermo.Kernel interface.
*/
package objective

import (
	"math"
	"sort"

	"github.com/bebop/nadesign/defect"
	"github.com/bebop/nadesign/nucleotide"
)

// DuplexEnergy returns the free energy EnergyEqualization compares for one
// domain's sequence. The callback the design package supplies folds the
// domain's sequence on its own; it does not pair it with its reverse
// complement.
type DuplexEnergy func(seq []nucleotide.Base) (float64, error)

// EnergyEqualization penalizes domains whose callback free energy deviates
// from RefEnergy (or, when RefEnergy is nil, the median energy across the
// listed domains).
type EnergyEqualization struct {
	ObjectiveName string
	DomainNames   []string
	RefEnergy     *float64
	Scale         float64
}

func (EnergyEqualization) Kind() Kind     { return KindEnergyEqualization }
func (e EnergyEqualization) Name() string { return "energy_equalization:" + e.ObjectiveName }
func (EnergyEqualization) sealed()        {}

// Evaluate folds every named domain's sequence via fold, then penalizes
// each domain with defect = (1 - exp(-|energy - ref| / Scale)) / numDomains,
// distributed uniformly over the domain's positions.
func (e EnergyEqualization) Evaluate(domainSeqs map[string][]nucleotide.Base, domainPositions map[string][]int, fold DuplexEnergy) (defect.Defect, error) {
	out := defect.New()
	n := len(e.DomainNames)
	if n == 0 {
		return out, nil
	}

	energies := make(map[string]float64, n)
	for _, name := range e.DomainNames {
		energy, err := fold(domainSeqs[name])
		if err != nil {
			return defect.Defect{}, err
		}
		energies[name] = energy
	}

	ref := 0.0
	if e.RefEnergy != nil {
		ref = *e.RefEnergy
	} else {
		ref = median(energies)
	}

	scale := e.Scale
	if scale == 0 {
		scale = 1
	}

	for _, name := range e.DomainNames {
		d := 1 - math.Exp(-math.Abs(energies[name]-ref)/scale)
		d /= float64(n)
		positions := domainPositions[name]
		if len(positions) == 0 {
			continue
		}
		share := d / float64(len(positions))
		for _, pos := range positions {
			out.Add(pos, share)
		}
	}
	return out, nil
}

func median(byName map[string]float64) float64 {
	vals := make([]float64, 0, len(byName))
	for _, v := range byName {
		vals = append(vals, v)
	}
	sort.Float64s(vals)
	mid := len(vals) / 2
	if len(vals)%2 == 1 {
		return vals[mid]
	}
	return (vals[mid-1] + vals[mid]) / 2
}
