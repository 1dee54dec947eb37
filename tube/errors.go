package tube

import "errors"

// ErrConcentrationNonConvergence is returned when a ConcentrationSolver
// fails to converge. Callers should treat this as fatal and dump the
// solve inputs (A, logX0, logQ, options) alongside it.
var ErrConcentrationNonConvergence = errors.New("tube: concentration solve did not converge")
