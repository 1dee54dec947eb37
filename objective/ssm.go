/*
SSM (sequence symmetry minimization) enumerates every fixed-length k-mer
actually present in a set of target complexes and penalizes reuse of the
same k-mer by unrelated variable groups.

Grounded on seqhash/lsh.go's bucket-by-feature enumeration idiom
(hash each item's features into a bucket, then inspect bucket
membership for collisions); generalized here from a fixed number of
random hash buckets to an exact map keyed by the k-mer's murmur3 hash,
since SSM needs every exact collision, not an approximate nearest-
neighbor bucket. murmur3 (wired via the sibling snapshot's go.mod)
hashes k-mers fast since collision resistance isn't a concern for an
in-memory grouping key, only speed.
*/
package objective

import (
	"github.com/spaolacci/murmur3"

	"github.com/bebop/nadesign/defect"
	"github.com/bebop/nadesign/nucleotide"
)

// SSM penalizes reuse of a k-mer across distinct, unrelated groups of
// positions. GroupOf maps a global position to the id of the
// Match/Complementarity-connected group it belongs to, so two windows
// tied together by those constraints are never flagged as unintended
// reuse of each other.
type SSM struct {
	ObjectiveName string
	WordSize      int
	Strands       [][]int
	GroupOf       func(pos int) int
}

func (SSM) Kind() Kind     { return KindSSM }
func (s SSM) Name() string { return "ssm:" + s.ObjectiveName }
func (SSM) sealed()        {}

type kmerOccurrence struct {
	positions []int
	groups    map[int]bool
}

// Evaluate enumerates every k-mer window across s.Strands, groups
// occurrences by their hashed k-mer key, and flags a violation whenever a
// k-mer's occurrences span more than one distinct group, or whenever a
// k-mer is a palindrome (equal to its own reverse complement under
// Watson-Crick pairing, A-T and C-G; G-T wobble pairs are not considered).
// Blame is spread evenly across every participating
// position; the total is normalized by the number of distinct k-mers
// seen.
func (s SSM) Evaluate(seq []nucleotide.Base) defect.Defect {
	out := defect.New()
	k := s.WordSize
	if k <= 0 {
		return out
	}

	occurrences := make(map[uint64]*kmerOccurrence)
	for _, strand := range s.Strands {
		for start := 0; start+k <= len(strand); start++ {
			window := strand[start : start+k]
			key := hashWindow(seq, window)
			occ, ok := occurrences[key]
			if !ok {
				occ = &kmerOccurrence{groups: make(map[int]bool)}
				occurrences[key] = occ
			}
			occ.positions = append(occ.positions, window...)
			if s.GroupOf != nil {
				occ.groups[s.GroupOf(window[0])] = true
			} else {
				occ.groups[start] = true
			}
		}
	}

	if len(occurrences) == 0 {
		return out
	}

	for _, occ := range occurrences {
		violations := 0
		if len(occ.groups) > 1 {
			violations++
		}
		if isPalindromic(seq, occ.positions[:k]) {
			violations++
		}
		if violations == 0 {
			continue
		}
		share := float64(violations) / float64(len(occ.positions))
		for _, pos := range occ.positions {
			out.Add(pos, share)
		}
	}
	return out.Scale(1 / float64(len(occurrences)))
}

func hashWindow(seq []nucleotide.Base, window []int) uint64 {
	bytes := make([]byte, len(window))
	for i, pos := range window {
		bytes[i] = byte(seq[pos])
	}
	return murmur3.Sum64(bytes)
}

func isPalindromic(seq []nucleotide.Base, window []int) bool {
	n := len(window)
	for i := 0; i < n/2; i++ {
		if seq[window[i]] != complementBase(seq[window[n-1-i]]) {
			return false
		}
	}
	return true
}

func complementBase(b nucleotide.Base) nucleotide.Base {
	var out nucleotide.Base
	if b&nucleotide.BaseA != 0 {
		out |= nucleotide.BaseT
	}
	if b&nucleotide.BaseT != 0 {
		out |= nucleotide.BaseA
	}
	if b&nucleotide.BaseC != 0 {
		out |= nucleotide.BaseG
	}
	if b&nucleotide.BaseG != 0 {
		out |= nucleotide.BaseC
	}
	return out
}
