package thermo

import "context"

// Kernel is the external thermodynamic black box ComplexEvaluator calls
// into at a decomposition leaf: given a flat sub-sequence and a set of
// enforced pairs inherited from ancestor splits, it returns the log partition function and pair-probability
// matrix over that leaf. nadesign does not implement the thermodynamic
// recurrences itself (nearest-neighbor energy tables, loop closures) —
// that numerical core is out of scope here, grounded on the teacher's own
// fold package being the place such a kernel would live for a two-state
// duplex fold, generalized to an ensemble kernel behind this interface.
type Kernel interface {
	// Evaluate computes a ThermoRecord for seq at the given temperature
	// (Kelvin), honoring enforcedPairs as near-infinite-affinity
	// constraints (the dG_clamp bonus described by DecompositionNode).
	Evaluate(ctx context.Context, seq []byte, enforcedPairs [][2]int, temperatureKelvin float64) (ThermoRecord, error)
}

// Model names which nearest-neighbor energy parameter set a Kernel
// implementation should use, mirroring fold.Energies' DNA/RNA selection in
// fold.NewFoldingContext.
type Model int

const (
	ModelDNA Model = iota
	ModelRNA
)
