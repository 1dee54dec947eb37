package optimizer

import (
	"context"
	"fmt"

	"github.com/bebop/nadesign/internal/logging"
	"github.com/bebop/nadesign/internal/rng"
)

// OptimizeTubes is L4: full-ensemble refocusing. It repeatedly runs L3,
// checks the full (every complex active) defect, and when that full
// defect still exceeds the stop threshold, promotes passive complexes
// into the active partition — ranked by their contribution to tube
// concentration defect — until the gap between full and focused defect
// has closed by params.FRefocus of its initial value.
func OptimizeTubes(ctx context.Context, model Model, source *rng.Source, params Parameters, log logging.Logger) (Evaluation, error) {
	var focused Evaluation
	for {
		var err error
		focused, err = OptimizeForest(ctx, model, source, params, log)
		if err != nil {
			return focused, err
		}

		full, err := model.FullEvaluate(ctx)
		if err != nil {
			return focused, fmt.Errorf("optimizer: L4 full evaluation: %w", err)
		}

		if full.WeightedTotal <= maxFloat(params.FStop, focused.WeightedTotal) {
			return full, nil
		}

		initialGap := full.WeightedTotal - focused.WeightedTotal
		if log != nil {
			log.Infof("L4 refocusing: full=%v focused=%v gap=%v", full.WeightedTotal, focused.WeightedTotal, initialGap)
		}

		candidates, err := model.RefocusCandidates(ctx)
		if err != nil {
			return focused, fmt.Errorf("optimizer: L4 refocus candidates: %w", err)
		}

		for _, complexIndex := range candidates {
			select {
			case <-ctx.Done():
				return focused, ctx.Err()
			default:
			}

			if err := model.Activate(ctx, complexIndex); err != nil {
				return focused, fmt.Errorf("optimizer: L4 activate complex %d: %w", complexIndex, err)
			}

			refocused, err := model.Evaluate(ctx, model.MaxDepth())
			if err != nil {
				return focused, fmt.Errorf("optimizer: L4 refocused evaluation: %w", err)
			}
			gap := full.WeightedTotal - refocused.WeightedTotal
			if gap <= params.FRefocus*initialGap {
				break
			}
		}
		// clear per-level bests for levels > 0 happens naturally: the
		// next OptimizeForest call re-derives best[d] from scratch.
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
