package constraint

import "errors"

// ErrUnsatisfiable is returned when the posted constraints leave no
// consistent assignment at all (an empty domain before search even starts,
// or a search space proven empty).
var ErrUnsatisfiable = errors.New("constraint: unsatisfiable")

// ErrMutationInfeasible names the outcome of a single-position mutation
// search in which no neighboring assignment satisfies every posted
// constraint. Engine.Mutation does not return it: such a position keeps
// its current value and the remaining positions are still processed.
var ErrMutationInfeasible = errors.New("constraint: no feasible neighbor")
