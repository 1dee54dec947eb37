package objective

import (
	"github.com/bebop/nadesign/defect"
	"github.com/bebop/nadesign/nucleotide"
)

// Similarity penalizes a window's match fraction against Reference for
// straying outside [Lo, Hi].
type Similarity struct {
	ReferenceName string
	Window        []int
	Reference     []nucleotide.Base
	Lo, Hi        float64
}

func (Similarity) Kind() Kind     { return KindSimilarity }
func (s Similarity) Name() string { return "similarity:" + s.ReferenceName }
func (Similarity) sealed()        {}

// Evaluate computes the window's match fraction against Reference (a
// position matches when seq and Reference share a bit, so degenerate
// reference codes count any member base as a match). If the fraction
// falls within [Lo, Hi] the objective contributes no defect. Otherwise
// every position on the wrong side of the bound (mismatching positions
// when below Lo, matching positions when above Hi) is penalized in
// proportion to how far the fraction strayed, normalized by the maximum
// possible error fraction (max(Lo, 1-Hi)).
func (s Similarity) Evaluate(seq []nucleotide.Base) defect.Defect {
	out := defect.New()
	n := len(s.Window)
	if n == 0 {
		return out
	}
	matchAt := make([]bool, n)
	var matches int
	for i, pos := range s.Window {
		if seq[pos]&s.Reference[i] != 0 {
			matchAt[i] = true
			matches++
		}
	}
	fraction := float64(matches) / float64(n)
	if fraction >= s.Lo && fraction <= s.Hi {
		return out
	}

	var deviation float64
	penalizeMatching := false
	if fraction < s.Lo {
		deviation = s.Lo - fraction
	} else {
		deviation = fraction - s.Hi
		penalizeMatching = true
	}

	var targetCount int
	for _, m := range matchAt {
		if m == penalizeMatching {
			targetCount++
		}
	}
	if targetCount == 0 {
		return out
	}
	share := deviation / float64(targetCount)
	maxError := s.Lo
	if 1-s.Hi > maxError {
		maxError = 1 - s.Hi
	}
	if maxError == 0 {
		maxError = 1
	}
	for i, pos := range s.Window {
		if matchAt[i] == penalizeMatching {
			out.Add(pos, share/maxError)
		}
	}
	return out
}
