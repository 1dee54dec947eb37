/*
Package design implements the Specification/DesignResult input-output
contract and the Design/Designer types that own a SequenceModel, its
Complexes (each with a DecompositionTree), its Tubes, and the shared
ThermoCache — the top-level object the rest of nadesign's components
compose underneath.

Specification deserializes from JSON (encoding/json, matching the
external-interop contract) or from a human-edited YAML parameter file
(gopkg.in/yaml.v3), mirroring the config-by-file idiom the pack carries.
*/
package design

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bebop/nadesign/nucleotide"
	"github.com/bebop/nadesign/objective"
	"github.com/bebop/nadesign/optimizer"
	"github.com/bebop/nadesign/structure"
	"github.com/bebop/nadesign/thermo"
)

// DomainSpec names a contiguous region with an allowed-base pattern.
type DomainSpec struct {
	Name    string `json:"name" yaml:"name"`
	Length  int    `json:"length" yaml:"length"`
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"` // IUPAC letters, one per position; empty = all-N
}

// StrandSpec names an ordered list of domain names.
type StrandSpec struct {
	Name    string   `json:"name" yaml:"name"`
	Domains []string `json:"domains" yaml:"domains"`
}

// ComplexSpec names an ordered list of strand names and an optional
// target structure in dot-bracket notation.
type ComplexSpec struct {
	Name             string `json:"name" yaml:"name"`
	Strands          []string `json:"strands" yaml:"strands"`
	TargetDotBracket string `json:"target_dot_bracket,omitempty" yaml:"target_dot_bracket,omitempty"`
}

// TubeTargetSpec names an on-target complex within a tube.
type TubeTargetSpec struct {
	Complex    string  `json:"complex" yaml:"complex"`
	TargetConc float64 `json:"target_conc" yaml:"target_conc"`
}

// TubeSpec names a tube's on-target complexes and physical constants.
type TubeSpec struct {
	Name                string           `json:"name" yaml:"name"`
	Targets             []TubeTargetSpec `json:"targets" yaml:"targets"`
	OffTargetComplexes  []string         `json:"off_target_complexes,omitempty" yaml:"off_target_complexes,omitempty"`
	WaterMolarity       float64          `json:"water_molarity" yaml:"water_molarity"`
	TotalNucleotideConc float64          `json:"total_nucleotide_conc" yaml:"total_nucleotide_conc"`
}

// ObjectiveSpec configures one objective functor. Only the fields
// relevant to Kind are consulted; JSON/YAML files set the subset their
// objective needs.
type ObjectiveSpec struct {
	Kind    objective.Kind `json:"kind" yaml:"kind"`
	Name    string         `json:"name" yaml:"name"`
	Tube    string         `json:"tube,omitempty" yaml:"tube,omitempty"`
	Complex string         `json:"complex,omitempty" yaml:"complex,omitempty"`

	PatternForbidden string   `json:"pattern_forbidden,omitempty" yaml:"pattern_forbidden,omitempty"`
	PatternStrands   []string `json:"pattern_strands,omitempty" yaml:"pattern_strands,omitempty"`

	SimilarityReference string  `json:"similarity_reference,omitempty" yaml:"similarity_reference,omitempty"`
	SimilarityStrand    string  `json:"similarity_strand,omitempty" yaml:"similarity_strand,omitempty"`
	SimilarityLo        float64 `json:"similarity_lo,omitempty" yaml:"similarity_lo,omitempty"`
	SimilarityHi        float64 `json:"similarity_hi,omitempty" yaml:"similarity_hi,omitempty"`

	SSMWordSize int      `json:"ssm_word_size,omitempty" yaml:"ssm_word_size,omitempty"`
	SSMStrands  []string `json:"ssm_strands,omitempty" yaml:"ssm_strands,omitempty"`

	EnergyDomains []string `json:"energy_domains,omitempty" yaml:"energy_domains,omitempty"`
	EnergyRef     *float64 `json:"energy_ref,omitempty" yaml:"energy_ref,omitempty"`
	EnergyScale   float64  `json:"energy_scale,omitempty" yaml:"energy_scale,omitempty"`
}

// Specification is the full input to a Design: every domain/strand/
// complex/tube definition, the thermodynamic model, weights, objective
// configuration, and optimizer parameters.
type Specification struct {
	Domains           []DomainSpec         `json:"domains" yaml:"domains"`
	Strands           []StrandSpec         `json:"strands" yaml:"strands"`
	Complexes         []ComplexSpec        `json:"complexes" yaml:"complexes"`
	Tubes             []TubeSpec           `json:"tubes" yaml:"tubes"`
	ThermoModel       thermo.Model         `json:"thermo_model" yaml:"thermo_model"`
	TemperatureKelvin float64              `json:"temperature_kelvin" yaml:"temperature_kelvin"`
	Weights           objective.Weights    `json:"weights,omitempty" yaml:"weights,omitempty"`
	Objectives        []ObjectiveSpec      `json:"objectives" yaml:"objectives"`
	Parameters        optimizer.Parameters `json:"parameters" yaml:"parameters"`
	WobbleMutation    bool                 `json:"wobble_mutation" yaml:"wobble_mutation"`
}

// LoadSpecificationJSON deserializes a Specification from JSON bytes.
func LoadSpecificationJSON(data []byte) (Specification, error) {
	var spec Specification
	if err := json.Unmarshal(data, &spec); err != nil {
		return Specification{}, fmt.Errorf("design: decode specification json: %w", err)
	}
	return spec, nil
}

// LoadSpecificationYAML deserializes a Specification from a human-edited
// YAML parameter file.
func LoadSpecificationYAML(data []byte) (Specification, error) {
	var spec Specification
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return Specification{}, fmt.Errorf("design: decode specification yaml: %w", err)
	}
	return spec, nil
}

// domainPattern parses a DomainSpec's pattern string into a per-position
// allowed-base slice, defaulting every position to BaseN.
func domainPattern(spec DomainSpec) ([]nucleotide.Base, error) {
	out := make([]nucleotide.Base, spec.Length)
	for i := range out {
		out[i] = nucleotide.BaseN
	}
	if spec.Pattern == "" {
		return out, nil
	}
	if len(spec.Pattern) != spec.Length {
		return nil, fmt.Errorf("design: domain %q pattern length %d does not match declared length %d", spec.Name, len(spec.Pattern), spec.Length)
	}
	for i := 0; i < spec.Length; i++ {
		b, err := nucleotide.ParseBase(spec.Pattern[i])
		if err != nil {
			return nil, fmt.Errorf("design: domain %q pattern: %w", spec.Name, err)
		}
		out[i] = b
	}
	return out, nil
}

// parseTargetStructure parses a ComplexSpec's dot-bracket target against
// the concatenated lengths of its strands.
func parseTargetStructure(spec ComplexSpec, strandLengths []int) (*structure.Structure, error) {
	if spec.TargetDotBracket == "" {
		return nil, nil
	}
	pairs, err := structure.ParseDotBracket(spec.TargetDotBracket)
	if err != nil {
		return nil, fmt.Errorf("design: complex %q target: %w", spec.Name, err)
	}
	s := structure.NewStructure(strandLengths)
	if len(pairs) != len(s.Pairs) {
		return nil, fmt.Errorf("design: complex %q target length %d does not match strand lengths %d", spec.Name, len(pairs), len(s.Pairs))
	}
	s.Pairs = pairs
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("design: complex %q target: %w", spec.Name, err)
	}
	return &s, nil
}
