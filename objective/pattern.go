/*
Pattern scans concrete sequence windows for forbidden degenerate
substrings, grounded on checks/patterns.go's IUPAC-aware pattern
compiler. checks/patterns.go compiles degenerate patterns to a regexp
over strings; here the sequence lives as []nucleotide.Base bitmasks
rather than characters, so matching is a position-wise bitmask AND
rather than a regexp character class, and "occurrence" is detected by a
sliding window instead of a regexp search.
*/
package objective

import "github.com/bebop/nadesign/defect"
import "github.com/bebop/nadesign/nucleotide"

// Pattern forbids a degenerate pattern from occurring in any window drawn
// from Windows (each a contiguous run of global sequence positions, e.g.
// one per strand or domain named by a specification).
type Pattern struct {
	PatternName string
	Forbidden   []nucleotide.Base
	Windows     [][]int
}

func (Pattern) Kind() Kind     { return KindPattern }
func (p Pattern) Name() string { return "pattern:" + p.PatternName }
func (Pattern) sealed()        {}

// Evaluate scans every sliding window of len(Forbidden) positions within
// each entry of Windows, adding 1/len(Forbidden) to every participating
// nucleotide for each occurrence, then normalizes by the total number of
// windows checked.
func (p Pattern) Evaluate(seq []nucleotide.Base) defect.Defect {
	out := defect.New()
	k := len(p.Forbidden)
	if k == 0 {
		return out
	}
	var totalWindows int
	for _, positions := range p.Windows {
		for start := 0; start+k <= len(positions); start++ {
			totalWindows++
			if p.matches(seq, positions[start:start+k]) {
				share := 1.0 / float64(k)
				for _, pos := range positions[start : start+k] {
					out.Add(pos, share)
				}
			}
		}
	}
	if totalWindows > 0 {
		out = out.Scale(1 / float64(totalWindows))
	}
	return out
}

func (p Pattern) matches(seq []nucleotide.Base, positions []int) bool {
	for i, pos := range positions {
		if seq[pos]&p.Forbidden[i] == 0 {
			return false
		}
	}
	return true
}
