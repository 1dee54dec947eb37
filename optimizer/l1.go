package optimizer

import (
	"context"
	"fmt"

	"github.com/bebop/nadesign/internal/logging"
	"github.com/bebop/nadesign/internal/rng"
)

// mutationBatchSize bounds how many positions a single scalarized-
// sampling draw proposes at once; one is the literal reading of "pick
// mutation positions... request a mutation", but the constraint engine's
// Mutation operation already accepts a position set, so batches larger
// than one let L1 move through large designs faster at the cost of a
// coarser accept/reject granularity. Kept at 1 to match the per-position
// accept/reject semantics the spec describes.
const mutationBatchSize = 1

// MutateLeaves is L1: tabu mutation at the deepest decomposition level.
// It mutates model's sequence in place, leaving it at the best assignment
// found, and returns that assignment's Evaluation.
func MutateLeaves(ctx context.Context, model Model, source *rng.Source, params Parameters, log logging.Logger) (Evaluation, error) {
	depth := model.MaxDepth()
	best, err := model.Evaluate(ctx, depth)
	if err != nil {
		return Evaluation{}, fmt.Errorf("optimizer: L1 initial evaluation: %w", err)
	}
	bestSnapshot := model.Snapshot()

	tabu := newTabuSet(4096)
	stop := params.stopThreshold(depth)
	mBad := 0

	for best.WeightedTotal > stop && mBad < params.MBad {
		select {
		case <-ctx.Done():
			return best, ctx.Err()
		default:
		}

		positions, err := sampleMutationPositions(source, model.NumPositions(), best.PerPosition, mutationBatchSize)
		if err != nil {
			return best, fmt.Errorf("optimizer: L1 sampling: %w", err)
		}
		if len(positions) == 0 {
			break
		}

		ok, err := model.Mutate(ctx, positions)
		if err != nil {
			return best, fmt.Errorf("optimizer: L1 mutation: %w", err)
		}
		if !ok {
			mBad++
			continue
		}

		candidate, err := model.Evaluate(ctx, depth)
		if err != nil {
			return best, fmt.Errorf("optimizer: L1 candidate evaluation: %w", err)
		}

		key := model.SequenceKey()
		if candidate.WeightedTotal < best.WeightedTotal && !tabu.contains(key) {
			best = candidate
			bestSnapshot = model.Snapshot()
			mBad = 0
			if log != nil {
				log.Debugf("L1 accept at depth %d: weighted_total=%v", depth, best.WeightedTotal)
			}
		} else {
			tabu.add(key)
			model.Restore(bestSnapshot)
			mBad++
		}
	}

	model.Restore(bestSnapshot)
	return best, nil
}
