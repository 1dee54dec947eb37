package sequence

import (
	"encoding/hex"
	"strings"

	"github.com/bebop/nadesign/nucleotide"
	"lukechampine.com/blake3"
)

// Complex is an ordered list of strand sequences interpreted up to
// rotational symmetry: two Complexes that differ only by a cyclic
// permutation of their strand list are considered the same Complex sequence.
type Complex struct {
	Strands [][]nucleotide.Base
}

// strandKey renders one strand as an uppercase DNA string for comparison
// and hashing purposes; ambiguity codes render as their IUPAC letter.
func strandKey(bases []nucleotide.Base) string {
	var sb strings.Builder
	sb.Grow(len(bases))
	for _, b := range bases {
		sb.WriteByte(b.Letter(nucleotide.DNA))
	}
	return sb.String()
}

// boothLeastRotation finds the start index of the lexicographically least
// rotation of a list of comparable keys, generalizing the teacher's
// BoothLeastRotation (which runs Booth's algorithm over a flat base string)
// to run over a sequence of whole-strand keys instead of individual
// characters, so strands rotate as atomic units.
func boothLeastRotation(keys []string) int {
	n := len(keys)
	if n == 0 {
		return 0
	}
	doubled := make([]string, 2*n)
	copy(doubled, keys)
	copy(doubled[n:], keys)

	leastRotationIndex := 0
	failure := make([]int, len(doubled))
	for i := range failure {
		failure[i] = -1
	}

	for characterIndex := 1; characterIndex < len(doubled); characterIndex++ {
		character := doubled[characterIndex]
		f := failure[characterIndex-leastRotationIndex-1]
		for f != -1 && character != doubled[leastRotationIndex+f+1] {
			if character < doubled[leastRotationIndex+f+1] {
				leastRotationIndex = characterIndex - f - 1
			}
			f = failure[f]
		}
		if character != doubled[leastRotationIndex+f+1] {
			if character < doubled[leastRotationIndex] {
				leastRotationIndex = characterIndex
			}
			failure[characterIndex-leastRotationIndex] = -1
		} else {
			failure[characterIndex-leastRotationIndex] = f + 1
		}
	}
	return leastRotationIndex % n
}

// Canonical returns a new Complex with strands rotated to the
// lexicographically lowest rotation of the strand-key sequence, the
// canonical form used for equality tests, tabu-set membership, and hashing.
func (c Complex) Canonical() Complex {
	n := len(c.Strands)
	if n <= 1 {
		return c
	}
	keys := make([]string, n)
	for i, s := range c.Strands {
		keys[i] = strandKey(s)
	}
	rot := boothLeastRotation(keys)
	if rot == 0 {
		return c
	}
	out := make([][]nucleotide.Base, n)
	for i := 0; i < n; i++ {
		out[i] = c.Strands[(i+rot)%n]
	}
	return Complex{Strands: out}
}

// Hash returns a blake3 digest of the canonical complex sequence, used as
// the tabu-set / thermo-cache key. Grounded on the teacher's
// Blake3SequenceHash, generalized from a single annotated strand to a
// multi-strand complex by joining canonical strand keys with a separator
// that cannot appear in an IUPAC-letter string.
func (c Complex) Hash() string {
	canon := c.Canonical()
	var sb strings.Builder
	for i, s := range canon.Strands {
		if i > 0 {
			sb.WriteByte('+')
		}
		sb.WriteString(strandKey(s))
	}
	sum := blake3.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// Equal reports whether two Complexes are identical up to rotation.
func (c Complex) Equal(other Complex) bool {
	if len(c.Strands) != len(other.Strands) {
		return false
	}
	return c.Canonical().Hash() == other.Canonical().Hash()
}

// RotationalSymmetryOrder returns the number of distinct rotations of the
// strand list that reproduce the same sequence of strand keys, i.e. the
// order ρ used to correct log Q for overcounting identical strand orderings.
func (c Complex) RotationalSymmetryOrder() int {
	n := len(c.Strands)
	if n == 0 {
		return 1
	}
	keys := make([]string, n)
	for i, s := range c.Strands {
		keys[i] = strandKey(s)
	}
	order := 0
	for rot := 0; rot < n; rot++ {
		match := true
		for i := 0; i < n; i++ {
			if keys[i] != keys[(i+rot)%n] {
				match = false
				break
			}
		}
		if match {
			order++
		}
	}
	if order == 0 {
		return 1
	}
	return order
}
