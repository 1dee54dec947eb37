package constraint

import "github.com/bebop/nadesign/nucleotide"

// Kind is a posted propagator. Positions reports the variables it
// constrains (for variable-ordering heuristics); Consistent reports whether
// a (possibly partial) assignment is still compatible with the constraint —
// positions absent from assignment are treated as unconstrained.
type Kind interface {
	Positions() []int
	Consistent(assignment map[int]nucleotide.Base) bool
}

// Match requires two positions to take identical concrete values.
type Match struct {
	I, J int
}

func (c Match) Positions() []int { return []int{c.I, c.J} }

func (c Match) Consistent(a map[int]nucleotide.Base) bool {
	vi, oki := a[c.I]
	vj, okj := a[c.J]
	if !oki || !okj {
		return true
	}
	return vi == vj
}

// Complementarity requires two positions to be Watson-Crick complements
// (Strong) or allows G-U wobble in addition (Weak).
type Complementarity struct {
	I, J   int
	Wobble bool
}

func (c Complementarity) Positions() []int { return []int{c.I, c.J} }

func (c Complementarity) Consistent(a map[int]nucleotide.Base) bool {
	vi, oki := a[c.I]
	vj, okj := a[c.J]
	if !oki || !okj {
		return true
	}
	allowed := vi.Complement()
	if c.Wobble {
		allowed |= vi.WobblePartners()
	}
	return allowed.Allows(vj)
}

// Pattern forbids a degenerate pattern from matching anywhere within Window.
// Pattern compilation (degenerate-letter to regexp class) is grounded on
// checks/patterns.go's buildPatternTranslator; here the pattern is matched
// directly over Base bitmasks rather than compiled to a regular expression,
// since positions may still be ambiguity codes mid-search.
type Pattern struct {
	Window  []int
	Pattern []nucleotide.Base
}

func (c Pattern) Positions() []int { return c.Window }

func (c Pattern) Consistent(a map[int]nucleotide.Base) bool {
	n := len(c.Pattern)
	if n == 0 || n > len(c.Window) {
		return true
	}
	for start := 0; start+n <= len(c.Window); start++ {
		matchesHere := true
		allAssigned := true
		for k := 0; k < n; k++ {
			pos := c.Window[start+k]
			v, ok := a[pos]
			if !ok {
				allAssigned = false
				break
			}
			if !c.Pattern[k].Allows(v) {
				matchesHere = false
				break
			}
		}
		if allAssigned && matchesHere {
			return false
		}
	}
	return true
}

// Diversity requires every sub-window of length W (within the constraint's
// own Window) to contain at least K distinct concrete base identities.
type Diversity struct {
	Window []int
	W, K   int
}

func (c Diversity) Positions() []int { return c.Window }

func (c Diversity) Consistent(a map[int]nucleotide.Base) bool {
	if c.W <= 0 || c.W > len(c.Window) {
		return true
	}
	for start := 0; start+c.W <= len(c.Window); start++ {
		seen := make(map[nucleotide.Base]bool)
		assignedCount := 0
		for k := 0; k < c.W; k++ {
			v, ok := a[c.Window[start+k]]
			if !ok {
				continue
			}
			assignedCount++
			if v.IsConcrete() {
				seen[v] = true
			}
		}
		if assignedCount < c.W {
			// not fully assigned yet: best case is every remaining position
			// contributes a new identity, so only fail if already impossible.
			if len(seen)+(c.W-assignedCount) < c.K {
				return false
			}
			continue
		}
		if len(seen) < c.K {
			return false
		}
	}
	return true
}

// Word requires the window to equal one of an enumerated list of allowed
// (possibly degenerate) words.
type Word struct {
	Window []int
	Words  [][]nucleotide.Base
}

func (c Word) Positions() []int { return c.Window }

func (c Word) Consistent(a map[int]nucleotide.Base) bool {
	anyCouldMatch := false
	for _, word := range c.Words {
		if len(word) != len(c.Window) {
			continue
		}
		couldMatch := true
		for k, pos := range c.Window {
			if v, ok := a[pos]; ok && !word[k].Allows(v) {
				couldMatch = false
				break
			}
		}
		if couldMatch {
			anyCouldMatch = true
			break
		}
	}
	return anyCouldMatch
}

// Similarity requires the fraction of position-wise matches (membership in
// a degenerate reference code counts as a match) between Window and
// Reference to lie in [Lo, Hi].
type Similarity struct {
	Window    []int
	Reference []nucleotide.Base
	Lo, Hi    float64
}

func (c Similarity) Positions() []int { return c.Window }

func (c Similarity) Consistent(a map[int]nucleotide.Base) bool {
	n := len(c.Window)
	if n == 0 || n != len(c.Reference) {
		return true
	}
	matches, assigned := 0, 0
	for k, pos := range c.Window {
		v, ok := a[pos]
		if !ok {
			continue
		}
		assigned++
		if c.Reference[k].Allows(v) {
			matches++
		}
	}
	if assigned < n {
		// best/worst case bounds on the final fraction given what's left
		bestFrac := float64(matches+(n-assigned)) / float64(n)
		worstFrac := float64(matches) / float64(n)
		return bestFrac >= c.Lo && worstFrac <= c.Hi
	}
	frac := float64(matches) / float64(n)
	return frac >= c.Lo && frac <= c.Hi
}
