package design

import (
	"context"
	"time"

	"github.com/bebop/nadesign/optimizer"
)

// Run drives the full four-level optimizer (L1..L4, via
// optimizer.OptimizeTubes) against this Designer starting from its
// current sequence assignment, and reports the best assignment reached
// along with run statistics.
func (m *Designer) Run(ctx context.Context) (DesignResult, error) {
	start := time.Now()
	final, err := optimizer.OptimizeTubes(ctx, m, m.source, m.params, m.log)
	m.elapsed += time.Since(start)
	if err != nil {
		return DesignResult{}, err
	}

	success := final.WeightedTotal <= m.params.FStop
	best, warnings := m.buildResult(success, m.elapsed)
	return DesignResult{
		Best: best,
		Stats: DesignStats{
			RunID:    newRunID(),
			Elapsed:  m.elapsed,
			Success:  success,
			Warnings: warnings,
		},
	}, nil
}
