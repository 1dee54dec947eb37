package design

import (
	"github.com/bebop/nadesign/decompose"
	"github.com/bebop/nadesign/nucleotide"
	"github.com/bebop/nadesign/sequence"
	"github.com/bebop/nadesign/structure"
)

// Complex is one Design's complex: its ordered strand list flattened to
// global sequence positions, an optional target structure, the
// rotational symmetry order used by the log-Q correction, and the root
// of its DecompositionTree.
type Complex struct {
	Name          string
	StrandNames   []string
	GlobalIndices []int
	Target        *structure.Structure
	SymmetryOrder int
	Root          *decompose.Node
}

func buildComplex(spec ComplexSpec, model *sequence.Model) (*Complex, error) {
	var indices []int
	var strandLengths []int
	var strandBases [][]nucleotide.Base
	for _, strandName := range spec.Strands {
		view, err := model.Strand(strandName)
		if err != nil {
			return nil, err
		}
		indices = append(indices, sequence.Indices(view)...)
		strandLengths = append(strandLengths, view.Len())
		strandBases = append(strandBases, model.ToSequence(view))
	}

	target, err := parseTargetStructure(spec, strandLengths)
	if err != nil {
		return nil, err
	}

	c := sequence.Complex{Strands: strandBases}
	symmetry := c.RotationalSymmetryOrder()

	var root *decompose.Node
	if target != nil {
		root = decompose.NewRootNode(*target, 0)
	} else {
		root = decompose.NewRootNode(structure.NewStructure(strandLengths), 0)
	}
	root.GlobalIndices = indices

	return &Complex{
		Name:          spec.Name,
		StrandNames:   spec.Strands,
		GlobalIndices: indices,
		Target:        target,
		SymmetryOrder: symmetry,
		Root:          root,
	}, nil
}
