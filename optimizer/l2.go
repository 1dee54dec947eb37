package optimizer

import (
	"context"
	"fmt"

	"github.com/bebop/nadesign/internal/logging"
	"github.com/bebop/nadesign/internal/rng"
)

// OptimizeLeaves is L2: run L1, then reseed up to params.MReopt times
// while the result remains above the leaf stop threshold.
func OptimizeLeaves(ctx context.Context, model Model, source *rng.Source, params Parameters, log logging.Logger) (Evaluation, error) {
	best, err := MutateLeaves(ctx, model, source, params, log)
	if err != nil {
		return best, err
	}

	depth := model.MaxDepth()
	stop := params.stopThreshold(depth)
	bestSnapshot := model.Snapshot()

	for attempt := 0; best.WeightedTotal > stop && attempt < params.MReopt; attempt++ {
		select {
		case <-ctx.Done():
			return best, ctx.Err()
		default:
		}

		positions, err := sampleMutationPositions(source, model.NumPositions(), best.PerPosition, params.MReseed)
		if err != nil {
			return best, fmt.Errorf("optimizer: L2 reseed sampling: %w", err)
		}
		for _, pos := range positions {
			if _, err := model.Mutate(ctx, []int{pos}); err != nil {
				return best, fmt.Errorf("optimizer: L2 reseed mutation: %w", err)
			}
		}

		reoptimized, err := MutateLeaves(ctx, model, source, params, log)
		if err != nil {
			return best, err
		}
		if reoptimized.WeightedTotal < best.WeightedTotal {
			best = reoptimized
			bestSnapshot = model.Snapshot()
			if log != nil {
				log.Infof("L2 accept reseed %d: weighted_total=%v", attempt, best.WeightedTotal)
			}
		} else {
			model.Restore(bestSnapshot)
		}
	}

	model.Restore(bestSnapshot)
	return best, nil
}
