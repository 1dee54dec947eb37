/*
Package sequence implements the flat nucleotide vector and domain/strand
naming layer that the rest of nadesign mutates and evaluates.

The flat-vector-plus-views idiom is a generalization of the poly toolkit's
flat-string sequence representation (transform.Reverse/Complement operate
directly on a string): here the vector holds []nucleotide.Base instead of
bytes so an ambiguity code can sit at a position transiently while the
constraint engine narrows it down to a single concrete base.
*/
package sequence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bebop/nadesign/nucleotide"
)

// DomainView is a half-open [Start, End) slice of the model's flat vector.
type DomainView struct {
	Start, End int
}

// Len returns the number of positions spanned by the view.
func (v DomainView) Len() int { return v.End - v.Start }

// StrandView names an ordered concatenation of domain views.
type StrandView struct {
	Domains []DomainView
}

// Len returns the total number of positions spanned by the strand.
func (v StrandView) Len() int {
	n := 0
	for _, d := range v.Domains {
		n += d.Len()
	}
	return n
}

// Model stores the flat nucleotide vector shared by an entire design, plus
// name-indexed views into it. It is the C1 SequenceModel of the design.
type Model struct {
	bases        []nucleotide.Base
	domains      map[string]DomainView
	strands      map[string]StrandView
	strandOrder  []string // insertion order, used for deterministic Complex flattening
	timesMutated []int    // per-position mutation counter, used only by sampling policies
}

// NewModel allocates a Model with n positions, all BaseN (fully ambiguous).
func NewModel(n int) *Model {
	bases := make([]nucleotide.Base, n)
	for i := range bases {
		bases[i] = nucleotide.BaseN
	}
	return &Model{
		bases:        bases,
		domains:      make(map[string]DomainView),
		strands:      make(map[string]StrandView),
		timesMutated: make([]int, n),
	}
}

// Len returns the number of positions in the flat vector.
func (m *Model) Len() int { return len(m.bases) }

// DefineDomain registers a named contiguous region of the flat vector.
func (m *Model) DefineDomain(name string, start, end int) error {
	if start < 0 || end > len(m.bases) || start > end {
		return fmt.Errorf("sequence: domain %q range [%d,%d) out of bounds for length %d", name, start, end, len(m.bases))
	}
	if _, exists := m.domains[name]; exists {
		return fmt.Errorf("sequence: domain %q already defined", name)
	}
	m.domains[name] = DomainView{Start: start, End: end}
	return nil
}

// DefineStrand registers a named ordered list of previously defined domains.
func (m *Model) DefineStrand(name string, domainNames ...string) error {
	if _, exists := m.strands[name]; exists {
		return fmt.Errorf("sequence: strand %q already defined", name)
	}
	views := make([]DomainView, 0, len(domainNames))
	for _, dn := range domainNames {
		v, ok := m.domains[dn]
		if !ok {
			return fmt.Errorf("sequence: %w: domain %q referenced by strand %q", ErrUnknownName, dn, name)
		}
		views = append(views, v)
	}
	m.strands[name] = StrandView{Domains: views}
	m.strandOrder = append(m.strandOrder, name)
	return nil
}

// Domain returns the view registered under name.
func (m *Model) Domain(name string) (DomainView, error) {
	v, ok := m.domains[name]
	if !ok {
		return DomainView{}, fmt.Errorf("sequence: %w: domain %q", ErrUnknownName, name)
	}
	return v, nil
}

// Strand returns the view registered under name.
func (m *Model) Strand(name string) (StrandView, error) {
	v, ok := m.strands[name]
	if !ok {
		return StrandView{}, fmt.Errorf("sequence: %w: strand %q", ErrUnknownName, name)
	}
	return v, nil
}

// ToSequence concatenates the bases named by a StrandView into a flat
// []nucleotide.Base (DomainSequence reads a single DomainView), generalizing the teacher's
// to_sequence-by-concatenation idiom.
func (m *Model) ToSequence(v StrandView) []nucleotide.Base {
	out := make([]nucleotide.Base, 0, v.Len())
	for _, d := range v.Domains {
		out = append(out, m.bases[d.Start:d.End]...)
	}
	return out
}

// Indices returns the global flat-vector positions spanned by a view, in
// order, for callers (such as a Complex) that need to address individual
// positions rather than just read concatenated bases.
func Indices(v StrandView) []int {
	out := make([]int, 0, v.Len())
	for _, d := range v.Domains {
		for i := d.Start; i < d.End; i++ {
			out = append(out, i)
		}
	}
	return out
}

// DomainSequence returns the bases of a single domain view.
func (m *Model) DomainSequence(v DomainView) []nucleotide.Base {
	out := make([]nucleotide.Base, v.Len())
	copy(out, m.bases[v.Start:v.End])
	return out
}

// InitializeSequence fills the entire flat vector, bypassing the constraint
// engine. Used only for bootstrapping an unconstrained starting sequence.
func (m *Model) InitializeSequence(bases []nucleotide.Base) error {
	if len(bases) != len(m.bases) {
		return fmt.Errorf("sequence: initialize length %d does not match model length %d", len(bases), len(m.bases))
	}
	copy(m.bases, bases)
	return nil
}

// SetSequence overwrites positions [start, start+len(bases)) directly,
// without constraint checking, and bumps their mutation counters.
func (m *Model) SetSequence(start int, bases []nucleotide.Base) error {
	if start < 0 || start+len(bases) > len(m.bases) {
		return fmt.Errorf("sequence: set range [%d,%d) out of bounds for length %d", start, start+len(bases), len(m.bases))
	}
	copy(m.bases[start:], bases)
	for i := start; i < start+len(bases); i++ {
		m.timesMutated[i]++
	}
	return nil
}

// Bases returns a defensive copy of the current flat vector.
func (m *Model) Bases() []nucleotide.Base {
	out := make([]nucleotide.Base, len(m.bases))
	copy(out, m.bases)
	return out
}

// TimesMutated returns the per-position mutation counter, used by sampling
// policies that prefer under-mutated positions.
func (m *Model) TimesMutated(position int) int {
	return m.timesMutated[position]
}

// String renders the flat vector under the given alphabet.
func (m *Model) String(alphabet nucleotide.Alphabet) string {
	var sb strings.Builder
	sb.Grow(len(m.bases))
	for _, b := range m.bases {
		sb.WriteByte(b.Letter(alphabet))
	}
	return sb.String()
}

// StrandNames returns the registered strand names in definition order.
func (m *Model) StrandNames() []string {
	out := make([]string, len(m.strandOrder))
	copy(out, m.strandOrder)
	return out
}

// DomainNames returns the registered domain names in lexicographic order.
func (m *Model) DomainNames() []string {
	out := make([]string, 0, len(m.domains))
	for name := range m.domains {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
