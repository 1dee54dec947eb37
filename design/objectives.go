package design

import (
	"fmt"

	"github.com/bebop/nadesign/defect"
	"github.com/bebop/nadesign/nucleotide"
	"github.com/bebop/nadesign/objective"
	"github.com/bebop/nadesign/sequence"
)

// buildObjectiveBindings converts every ObjectiveSpec into a closure over
// the Design it will be evaluated against. Multitube/Tube/Complex
// objectives read the structural+concentration defects Design.refresh
// already produced; Pattern/Similarity/SSM/EnergyEqualization read the
// live sequence directly, since they don't depend on thermodynamic state.
func buildObjectiveBindings(spec Specification, d *Design, domains domainOffsetIndex) ([]objectiveBinding, error) {
	domainGroup := make(map[int]int, len(spec.Domains))
	for _, dm := range spec.Domains {
		for _, pos := range domains.positions(dm.Name) {
			domainGroup[pos] = domains.index[dm.Name]
		}
	}
	groupOf := func(pos int) int { return domainGroup[pos] }

	out := make([]objectiveBinding, 0, len(spec.Objectives))
	for _, os := range spec.Objectives {
		os := os
		switch os.Kind {
		case objective.KindMultitube:
			obj := objective.Multitube{TubeNames: tubeNamesOf(spec)}
			out = append(out, objectiveBinding{name: obj.Name(), evaluate: func(d *Design) (defect.Defect, error) {
				tubeDefects, err := d.tubeDefects()
				if err != nil {
					return defect.Defect{}, err
				}
				return obj.Evaluate(tubeDefects), nil
			}})

		case objective.KindTube:
			ti, err := d.TubeByName(os.Tube)
			if err != nil {
				return nil, err
			}
			obj := objective.Tube{TubeName: os.Tube}
			out = append(out, objectiveBinding{tubeName: os.Tube, name: obj.Name(), evaluate: func(d *Design) (defect.Defect, error) {
				cd, err := d.tubeDefect(ti)
				if err != nil {
					return defect.Defect{}, err
				}
				return obj.Evaluate(cd), nil
			}})

		case objective.KindComplex:
			ci, err := d.ComplexByName(os.Complex)
			if err != nil {
				return nil, err
			}
			obj := objective.Complex{ComplexName: os.Complex}
			out = append(out, objectiveBinding{name: obj.Name(), evaluate: func(d *Design) (defect.Defect, error) {
				cd, err := d.complexDefect(ci)
				if err != nil {
					return defect.Defect{}, err
				}
				return obj.Evaluate(cd, len(d.Complexes[ci].GlobalIndices)), nil
			}})

		case objective.KindPattern:
			forbidden, err := parseBasePattern(os.PatternForbidden)
			if err != nil {
				return nil, fmt.Errorf("design: objective %q: %w", os.Name, err)
			}
			windows := make([][]int, 0, len(os.PatternStrands))
			for _, strandName := range os.PatternStrands {
				view, err := d.Model.Strand(strandName)
				if err != nil {
					return nil, err
				}
				windows = append(windows, sequence.Indices(view))
			}
			obj := objective.Pattern{PatternName: os.Name, Forbidden: forbidden, Windows: windows}
			out = append(out, objectiveBinding{name: obj.Name(), evaluate: func(d *Design) (defect.Defect, error) {
				return obj.Evaluate(d.Model.Bases()), nil
			}})

		case objective.KindSimilarity:
			view, err := d.Model.Strand(os.SimilarityStrand)
			if err != nil {
				return nil, err
			}
			reference, err := parseBasePattern(os.SimilarityReference)
			if err != nil {
				return nil, fmt.Errorf("design: objective %q: %w", os.Name, err)
			}
			obj := objective.Similarity{
				ReferenceName: os.Name,
				Window:        sequence.Indices(view),
				Reference:     reference,
				Lo:            os.SimilarityLo,
				Hi:            os.SimilarityHi,
			}
			out = append(out, objectiveBinding{name: obj.Name(), evaluate: func(d *Design) (defect.Defect, error) {
				return obj.Evaluate(d.Model.Bases()), nil
			}})

		case objective.KindSSM:
			strands := make([][]int, 0, len(os.SSMStrands))
			for _, strandName := range os.SSMStrands {
				view, err := d.Model.Strand(strandName)
				if err != nil {
					return nil, err
				}
				strands = append(strands, sequence.Indices(view))
			}
			obj := objective.SSM{ObjectiveName: os.Name, WordSize: os.SSMWordSize, Strands: strands, GroupOf: groupOf}
			out = append(out, objectiveBinding{name: obj.Name(), evaluate: func(d *Design) (defect.Defect, error) {
				return obj.Evaluate(d.Model.Bases()), nil
			}})

		case objective.KindEnergyEqualization:
			obj := objective.EnergyEqualization{
				ObjectiveName: os.Name,
				DomainNames:   os.EnergyDomains,
				RefEnergy:     os.EnergyRef,
				Scale:         os.EnergyScale,
			}
			fold := kernelDuplexEnergy(d.Eval.Kernel, d.Eval.TemperatureKelvin)
			out = append(out, objectiveBinding{name: obj.Name(), evaluate: func(d *Design) (defect.Defect, error) {
				seqs := make(map[string][]nucleotide.Base, len(obj.DomainNames))
				positions := make(map[string][]int, len(obj.DomainNames))
				for _, name := range obj.DomainNames {
					view, err := d.Model.Domain(name)
					if err != nil {
						return defect.Defect{}, err
					}
					seqs[name] = d.Model.DomainSequence(view)
					positions[name] = domains.positions(name)
				}
				return obj.Evaluate(seqs, positions, fold)
			}})

		default:
			return nil, fmt.Errorf("design: objective %q: unknown kind %q", os.Name, os.Kind)
		}
	}
	return out, nil
}

func tubeNamesOf(spec Specification) []string {
	out := make([]string, len(spec.Tubes))
	for i, t := range spec.Tubes {
		out[i] = t.Name
	}
	return out
}

// parseBasePattern parses a string of IUPAC letters into a per-position
// Base slice, with no default broadening (unlike domainPattern, every
// position here must be explicit).
func parseBasePattern(s string) ([]nucleotide.Base, error) {
	out := make([]nucleotide.Base, len(s))
	for i := 0; i < len(s); i++ {
		b, err := nucleotide.ParseBase(s[i])
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}
