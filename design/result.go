package design

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bebop/nadesign/nucleotide"
	"github.com/bebop/nadesign/seqhash"
)

// ComplexResult reports one complex's resolved sequence and structural
// defect at the end of a run.
type ComplexResult struct {
	Name            string  `json:"name"`
	Sequence        string  `json:"sequence"`
	TargetStructure string  `json:"target_structure,omitempty"`
	Defect          float64 `json:"defect"`
}

// TubeResult reports one tube's resolved concentrations and defect.
type TubeResult struct {
	Name                   string             `json:"name"`
	ComplexConcentrations  map[string]float64 `json:"complex_concentrations"`
	Defect                 float64            `json:"defect"`
}

// ObjectiveResult reports one objective's raw and weighted defect total.
type ObjectiveResult struct {
	Name           string  `json:"name"`
	RawDefect      float64 `json:"raw_defect"`
	WeightedDefect float64 `json:"weighted_defect"`
}

// SingleResult is the best sequence assignment a run settled on, broken
// down per complex, per tube, and per objective.
type SingleResult struct {
	Sequence     string            `json:"sequence"`
	SequenceHash string            `json:"sequence_hash,omitempty"`
	Complexes    []ComplexResult   `json:"complexes"`
	Tubes        []TubeResult      `json:"tubes"`
	Objectives   []ObjectiveResult `json:"objectives"`
}

// DesignStats records run bookkeeping: a unique run identity, the wall
// time spent, whether the optimizer declared success (the final weighted
// total across all objectives at or below f_stop), and any errors
// buildResult hit while assembling the report. A non-empty Warnings
// means the corresponding Complexes/Tubes/Objectives/SequenceHash entry
// is missing or incomplete rather than silently zero-valued.
type DesignStats struct {
	RunID    string        `json:"run_id"`
	Elapsed  time.Duration `json:"elapsed_ns"`
	Success  bool          `json:"success"`
	Warnings []string      `json:"warnings,omitempty"`
}

// DesignResult is the full output of a Run call.
type DesignResult struct {
	Best  SingleResult `json:"best"`
	Stats DesignStats  `json:"stats"`
}

// buildResult reads the Designer's current sequence/objective state into
// a SingleResult. It does not fill in DesignStats: Run stamps the run
// identity, elapsed time and success flag itself. Any error encountered while assembling a piece of the
// report is appended to the returned warnings rather than discarded, per
// the never-silently-swallow-errors rule: a caller can tell from
// DesignStats.Warnings that a Complexes/Tubes/Objectives/SequenceHash
// entry is missing or incomplete instead of reading a quietly-zeroed one.
func (m *Designer) buildResult(success bool, elapsed time.Duration) (SingleResult, []string) {
	var warnings []string

	seq := m.design.Model.String(nucleotide.DNA)

	bases := m.design.Model.Bases()
	complexResults := make([]ComplexResult, 0, len(m.design.Complexes))
	for i, c := range m.design.Complexes {
		d, err := m.design.complexDefect(i)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("complex %q: defect: %s", c.Name, err))
			continue
		}
		var targetDB string
		if c.Target != nil {
			targetDB = c.Target.Pairs.DotBracket()
		}
		complexResults = append(complexResults, ComplexResult{
			Name:            c.Name,
			Sequence:        lettersAt(bases, c.GlobalIndices),
			TargetStructure: targetDB,
			Defect:          d.Total(),
		})
	}

	tubeResults := make([]TubeResult, 0, len(m.design.Tubes))
	for i, t := range m.design.Tubes {
		td, err := m.design.tubeDefect(i)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("tube %q: defect: %s", t.Name, err))
			continue
		}
		concs := map[string]float64{}
		if conc, err := m.design.tubeConcentrations(i); err != nil {
			warnings = append(warnings, fmt.Sprintf("tube %q: concentrations: %s", t.Name, err))
		} else {
			for _, tgt := range t.Targets {
				concs[m.design.Complexes[tgt.ComplexIndex].Name] = conc[tgt.ComplexIndex]
			}
		}
		tubeResults = append(tubeResults, TubeResult{Name: t.Name, ComplexConcentrations: concs, Defect: td.Total()})
	}

	objResults := make([]ObjectiveResult, 0, len(m.design.objectives))
	for _, b := range m.design.objectives {
		raw, err := b.evaluate(m.design)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("objective %q: evaluate: %s", b.name, err))
			continue
		}
		objResults = append(objResults, ObjectiveResult{
			Name:           b.name,
			RawDefect:      raw.Total(),
			WeightedDefect: m.design.Weights.Get(b.tubeName, b.name) * raw.Total(),
		})
	}

	hash, err := seqhash.Hash(seq, seqhash.DNA, false, false)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("sequence hash: %s", err))
	}

	return SingleResult{
		Sequence:     seq,
		SequenceHash: hash,
		Complexes:    complexResults,
		Tubes:        tubeResults,
		Objectives:   objResults,
	}, warnings
}

func newRunID() string {
	return uuid.NewString()
}

// lettersAt renders the bases at the given global indices as a DNA letter
// string, in index order.
func lettersAt(bases []nucleotide.Base, indices []int) string {
	out := make([]byte, len(indices))
	for i, pos := range indices {
		out[i] = bases[pos].Letter(nucleotide.DNA)
	}
	return string(out)
}
