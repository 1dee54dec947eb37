package optimizer

import "context"

// Evaluation is the result of scoring a design at a given depth: the
// scalar weighted total the optimizer accepts/rejects on, and a
// per-position aggregate (summed across every objective, each already
// multiplied by its weight) that the scalarized sampler draws mutation
// candidates from.
type Evaluation struct {
	WeightedTotal float64
	PerPosition   map[int]float64
}

// Snapshot is an opaque, comparable handle to a Model's current sequence
// state, used to roll back a rejected mutation without re-deriving it.
type Snapshot interface{}

// Model is the narrow view of a Design the optimizer drives. A concrete
// Design (built on sequence.Model, constraint.Engine, eval.ComplexEvaluator,
// tube.Tube, objective.Objective, partition.Partition, and
// decompose.Node) implements this interface so optimizer never imports
// design, avoiding an import cycle the same way decompose.Evaluator keeps
// decompose from importing eval.
type Model interface {
	// NumPositions returns the length of the global sequence vector.
	NumPositions() int
	// MaxDepth returns the deepest decomposition level currently built.
	MaxDepth() int

	// Evaluate scores the current sequence assignment at depth across
	// every active complex/tube/objective, weighted per objective.weights.
	Evaluate(ctx context.Context, depth int) (Evaluation, error)

	// Snapshot captures the current sequence so a rejected mutation can
	// be rolled back cheaply.
	Snapshot() Snapshot
	// Restore rolls the sequence back to a previously captured snapshot.
	Restore(s Snapshot)
	// SequenceKey returns a canonical hash of the current sequence
	// assignment, used as the tabu set's membership key.
	SequenceKey() string

	// Mutate requests a new assignment for positions from the
	// constraint engine and, on success, writes it into the sequence.
	// It reports ok=false (not an error) when no feasible neighbor
	// exists for the given positions.
	Mutate(ctx context.Context, positions []int) (ok bool, err error)

	// Redecompose expands decomposition nodes at depth d per the
	// probability-guided redecomposition step, invalidating affected
	// higher-depth cache entries.
	Redecompose(ctx context.Context, d int) error

	// RefocusCandidates ranks currently passive complexes by their
	// fractional contribution to tube concentration defect, descending.
	RefocusCandidates(ctx context.Context) ([]int, error)
	// Activate promotes a passive complex to active and decomposes it
	// (structure-guided if it has a target, otherwise left as a leaf).
	Activate(ctx context.Context, complexIndex int) error

	// FullEvaluate scores the design with every complex active.
	FullEvaluate(ctx context.Context) (Evaluation, error)
}
