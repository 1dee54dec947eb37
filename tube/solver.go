package tube

import "context"

// SolverOptions configures a ConcentrationSolver invocation.
type SolverOptions struct {
	Method        string
	Tolerance     float64
	MaxIterations int
}

// ConcentrationResult is what a ConcentrationSolver returns: equilibrium
// mole fractions, a convergence flag, and the solver's own error estimate.
type ConcentrationResult struct {
	MoleFractions []float64
	Converged     bool
	ErrorMagnitude float64
}

// ConcentrationSolver is the external mass-action equilibrium black box.
// Given stoichiometry A, initial log strand mole fractions, per-complex
// log Q, and solver options, it returns equilibrium complex mole
// fractions.
type ConcentrationSolver interface {
	Equilibrate(ctx context.Context, a *Matrix, logX0 []float64, logQ []float64, opts SolverOptions) (ConcentrationResult, error)
}
