/*
Package nucleotide defines the 4-bit Base alphabet used throughout nadesign,
including the IUPAC degenerate codes used as "allowed base sets" by the
constraint engine.

The bitmask representation is a generalization of the rune-keyed ambiguity
map in transform/variants.AllVariantsIUPAC from the poly toolkit: instead of
expanding a degenerate code into its concrete variants up front, a Base value
*is* the set of bits still allowed at a position, so membership tests in the
constraint propagator's inner loop are a single AND instead of a map lookup
and slice scan.
*/
package nucleotide

import "fmt"

// Base is a bitmask over the four concrete nucleotides. A value with more
// than one bit set represents an IUPAC ambiguity code (an "allowed set").
type Base uint8

// Alphabet controls whether Strings render T or U for the Base holding bit BaseT.
type Alphabet int

const (
	DNA Alphabet = iota
	RNA
)

const (
	BaseNone Base = 0
	BaseA    Base = 1 << 0
	BaseC    Base = 1 << 1
	BaseG    Base = 1 << 2
	BaseT    Base = 1 << 3 // also stands for U under the RNA alphabet
	BaseAny  Base = BaseA | BaseC | BaseG | BaseT
)

// IUPAC degenerate codes, generalized from transform/variants.AllVariantsIUPAC.
const (
	BaseR Base = BaseA | BaseG         // puRine
	BaseY Base = BaseC | BaseT         // pYrimidine
	BaseM Base = BaseA | BaseC         // aMino
	BaseK Base = BaseG | BaseT         // Keto
	BaseS Base = BaseG | BaseC         // Strong
	BaseW Base = BaseA | BaseT         // Weak
	BaseH Base = BaseA | BaseC | BaseT // not G
	BaseB Base = BaseC | BaseG | BaseT // not A
	BaseV Base = BaseA | BaseC | BaseG // not T
	BaseD Base = BaseA | BaseG | BaseT // not C
	BaseN Base = BaseAny               // aNy
)

var letterToBase = map[byte]Base{
	'A': BaseA, 'C': BaseC, 'G': BaseG, 'T': BaseT, 'U': BaseT,
	'R': BaseR, 'Y': BaseY, 'M': BaseM, 'K': BaseK, 'S': BaseS, 'W': BaseW,
	'H': BaseH, 'B': BaseB, 'V': BaseV, 'D': BaseD, 'N': BaseN,
}

var baseToLetterDNA = map[Base]byte{}
var baseToLetterRNA = map[Base]byte{}

func init() {
	for letter, base := range letterToBase {
		if _, ok := baseToLetterDNA[base]; !ok {
			l := letter
			if l == 'U' {
				continue
			}
			baseToLetterDNA[base] = l
		}
	}
	for letter, base := range letterToBase {
		if letter == 'T' {
			continue
		}
		if _, ok := baseToLetterRNA[base]; !ok {
			baseToLetterRNA[base] = letter
		}
	}
}

// ParseBase converts an IUPAC letter (upper or lower case) into a Base.
func ParseBase(letter byte) (Base, error) {
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	base, ok := letterToBase[letter]
	if !ok {
		return BaseNone, fmt.Errorf("nucleotide: %q is not a recognized IUPAC code", letter)
	}
	return base, nil
}

// Letter renders a Base as its IUPAC letter under the given alphabet.
func (b Base) Letter(alphabet Alphabet) byte {
	table := baseToLetterDNA
	if alphabet == RNA {
		table = baseToLetterRNA
	}
	if l, ok := table[b]; ok {
		return l
	}
	return 'N'
}

// Count returns the number of concrete bases allowed by b.
func (b Base) Count() int {
	n := 0
	for v := b; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// IsConcrete reports whether b names exactly one concrete base.
func (b Base) IsConcrete() bool {
	return b != 0 && b&(b-1) == 0
}

// Intersect returns the allowed set shared between b and other.
func (b Base) Intersect(other Base) Base {
	return b & other
}

// Allows reports whether concrete is a member of the allowed set b.
func (b Base) Allows(concrete Base) bool {
	return b&concrete != 0
}

// Complement returns the Watson-Crick complement allowed set of b
// (A<->T/U, C<->G), generalized bitwise over ambiguity codes the same way
// transform.ComplementBase does over concrete runes.
func (b Base) Complement() Base {
	var out Base
	if b.Allows(BaseA) {
		out |= BaseT
	}
	if b.Allows(BaseT) {
		out |= BaseA
	}
	if b.Allows(BaseC) {
		out |= BaseG
	}
	if b.Allows(BaseG) {
		out |= BaseC
	}
	return out
}

// WobblePartners returns the set of concrete bases that may pair with b
// under G-U wobble pairing, in addition to Watson-Crick partners.
func (b Base) WobblePartners() Base {
	var out Base
	if b.Allows(BaseG) {
		out |= BaseT
	}
	if b.Allows(BaseT) {
		out |= BaseG
	}
	return out
}

// Bases returns the concrete bases named by b, in canonical A,C,G,T order.
func (b Base) Bases() []Base {
	var out []Base
	for _, c := range []Base{BaseA, BaseC, BaseG, BaseT} {
		if b.Allows(c) {
			out = append(out, c)
		}
	}
	return out
}
