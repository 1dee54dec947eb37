package optimizer

import (
	"context"
	"fmt"

	"github.com/bebop/nadesign/internal/logging"
	"github.com/bebop/nadesign/internal/rng"
)

// OptimizeForest is L3: depth-wise merge with bounded redecomposition.
// It maintains best[d] for d = 0..maxDepth, running L2 at maxDepth and
// walking back up, redecomposing whenever a depth's defect isn't
// explained by its child depth's defect within params.FStringent.
func OptimizeForest(ctx context.Context, model Model, source *rng.Source, params Parameters, log logging.Logger) (Evaluation, error) {
	maxDepth := model.MaxDepth()
	best := make([]Evaluation, maxDepth+1)

	for {
		leafBest, err := OptimizeLeaves(ctx, model, source, params, log)
		if err != nil {
			return leafBest, err
		}
		best[maxDepth] = leafBest

		restart := false
		for d := maxDepth - 1; d >= 0; d-- {
			select {
			case <-ctx.Done():
				return best[maxDepth], ctx.Err()
			default:
			}

			current, err := model.Evaluate(ctx, d)
			if err != nil {
				return current, fmt.Errorf("optimizer: L3 evaluation at depth %d: %w", d, err)
			}
			best[d] = current

			threshold := params.stopThreshold(d)
			childBound := best[d+1].WeightedTotal / params.FStringent
			bound := threshold
			if childBound > bound {
				bound = childBound
			}

			if current.WeightedTotal > bound {
				if log != nil {
					log.Warnf("L3 merge unsuccessful at depth %d: %v > %v, redecomposing", d, current.WeightedTotal, bound)
				}
				if err := model.Redecompose(ctx, d+1); err != nil {
					return current, fmt.Errorf("optimizer: L3 redecompose at depth %d: %w", d+1, err)
				}
				restart = true
				break
			}
		}
		if !restart {
			return best[0], nil
		}
	}
}
