package optimizer

import "github.com/bebop/nadesign/internal/rng"

// sampleMutationPositions draws count positions without replacement,
// weighted by their aggregated per-position defect contribution
// (perPosition), via internal/rng.Source.SampleWeighted — the
// scalarized-sampling step L1 uses to pick where to mutate next.
// Positions with zero weight are only drawn once every weighted
// candidate has been exhausted, since a weighted sampler can't draw a
// zero-weight item; any remainder is filled arbitrarily from the
// unweighted pool so a caller always gets up to count positions back.
func sampleMutationPositions(source *rng.Source, numPositions int, perPosition map[int]float64, count int) ([]int, error) {
	if count > numPositions {
		count = numPositions
	}
	remainingWeighted := make(map[int]float64, numPositions)
	var zeroWeight []int
	for i := 0; i < numPositions; i++ {
		w := perPosition[i]
		if w > 0 {
			remainingWeighted[i] = w
		} else {
			zeroWeight = append(zeroWeight, i)
		}
	}

	var chosen []int
	for len(chosen) < count && len(remainingWeighted) > 0 {
		choices := make([]rng.WeightedChoice, 0, len(remainingWeighted))
		for pos, w := range remainingWeighted {
			scaled := uint(w * 1e6)
			if scaled == 0 {
				scaled = 1
			}
			choices = append(choices, rng.WeightedChoice{Item: pos, Weight: scaled})
		}
		picked, err := source.SampleWeighted(choices)
		if err != nil {
			return nil, err
		}
		pos := picked.(int)
		chosen = append(chosen, pos)
		delete(remainingWeighted, pos)
	}

	for i := 0; len(chosen) < count && i < len(zeroWeight); i++ {
		chosen = append(chosen, zeroWeight[i])
	}
	return chosen, nil
}
