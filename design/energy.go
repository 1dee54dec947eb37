package design

import (
	"context"

	"github.com/bebop/nadesign/nucleotide"
	"github.com/bebop/nadesign/objective"
	"github.com/bebop/nadesign/thermo"
)

// gasConstantKcal is R in kcal/(mol*K), used to convert a log partition
// function into a free energy the same way fold.Energies' thermodynamic
// constants do.
const gasConstantKcal = 0.0019872041

// kernelDuplexEnergy adapts the shared thermo.Kernel into the narrow
// objective.DuplexEnergy callback EnergyEqualization needs: it folds a
// domain's own sequence unconstrained (no enforced pairs, and not paired
// with its reverse complement as a duplex) and converts the
// resulting log Q into a free energy via dG = -RT ln Q, a two-state
// simplification appropriate for a single equalization objective that
// only needs a comparable per-domain scalar, not a full ensemble.
func kernelDuplexEnergy(kernel thermo.Kernel, temperatureKelvin float64) objective.DuplexEnergy {
	return func(seq []nucleotide.Base) (float64, error) {
		bytes := make([]byte, len(seq))
		for i, b := range seq {
			bytes[i] = b.Letter(nucleotide.DNA)
		}
		rec, err := kernel.Evaluate(context.Background(), bytes, nil, temperatureKelvin)
		if err != nil {
			return 0, err
		}
		return -gasConstantKcal * temperatureKelvin * rec.LogQ, nil
	}
}
