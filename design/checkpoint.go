package design

import (
	"encoding/json"
	"fmt"

	"github.com/bebop/nadesign/decompose"
	"github.com/bebop/nadesign/internal/logging"
	"github.com/bebop/nadesign/internal/rng"
	"github.com/bebop/nadesign/nucleotide"
	"github.com/bebop/nadesign/thermo"
	"github.com/bebop/nadesign/tube"
)

// Checkpoint is a serializable snapshot of a Designer's resumable state:
// the current sequence assignment, which complexes are active, each
// complex's decomposition depth, and cumulative run stats. Decomposition
// trees and the thermo cache are rebuilt fresh on resume rather than
// serialized; only the state a fresh rebuild cannot recover is carried.
type Checkpoint struct {
	Sequence     string      `json:"sequence"`
	ActiveMask   []bool      `json:"active_mask"`
	ComplexOrder []string    `json:"complex_order"` // complex names, positionally matching ActiveMask/Depths
	Depths       []int       `json:"depths"`
	Stats        DesignStats `json:"stats"`
}

// Checkpoint captures m's current resumable state, stamping the given
// stats (typically m's own cumulative Elapsed so far) into the snapshot.
func (m *Designer) Checkpoint(stats DesignStats) Checkpoint {
	names := make([]string, len(m.design.Complexes))
	mask := make([]bool, len(m.design.Complexes))
	for i, c := range m.design.Complexes {
		names[i] = c.Name
		mask[i] = m.design.Partition.IsActive(i)
	}
	return Checkpoint{
		Sequence:     m.design.Model.String(nucleotide.DNA),
		ActiveMask:   mask,
		ComplexOrder: names,
		Depths:       append([]int(nil), m.depths...),
		Stats:        stats,
	}
}

// Marshal serializes a Checkpoint to JSON, matching Specification's
// encoding/json idiom.
func (c Checkpoint) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// ParseCheckpoint deserializes a Checkpoint from JSON bytes.
func ParseCheckpoint(data []byte) (Checkpoint, error) {
	var c Checkpoint
	if err := json.Unmarshal(data, &c); err != nil {
		return Checkpoint{}, fmt.Errorf("design: decode checkpoint: %w", err)
	}
	return c, nil
}

// Resume rebuilds a Designer from spec and restores it to a checkpoint's
// state. It validates schema compatibility first: the checkpoint's
// sequence length must match the rebuilt model's length, and its complex
// set must name exactly the rebuilt Design's complexes — complexes are
// matched by name rather than by raw strand sequence, which
// reduces the spec's lowest-rotation equivalence to set equality once
// complexes are addressed by name.
func Resume(spec Specification, kernel thermo.Kernel, solver tube.ConcentrationSolver, source *rng.Source, log logging.Logger, ckpt Checkpoint) (*Designer, error) {
	if log == nil {
		log = logging.Noop{}
	}

	d, err := NewDesign(spec, kernel, solver, source)
	if err != nil {
		return nil, err
	}
	if len(ckpt.Sequence) != d.Model.Len() {
		return nil, fmt.Errorf("%w: checkpoint sequence length %d, want %d", ErrIncompatibleCheckpoint, len(ckpt.Sequence), d.Model.Len())
	}
	if len(ckpt.ComplexOrder) != len(d.Complexes) || len(ckpt.ActiveMask) != len(d.Complexes) || len(ckpt.Depths) != len(d.Complexes) {
		return nil, fmt.Errorf("%w: checkpoint names %d complexes, design has %d", ErrIncompatibleCheckpoint, len(ckpt.ComplexOrder), len(d.Complexes))
	}

	position := make(map[string]int, len(ckpt.ComplexOrder))
	for i, name := range ckpt.ComplexOrder {
		position[name] = i
	}

	bases := make([]nucleotide.Base, len(ckpt.Sequence))
	for i := 0; i < len(ckpt.Sequence); i++ {
		b, err := nucleotide.ParseBase(ckpt.Sequence[i])
		if err != nil {
			return nil, fmt.Errorf("%w: checkpoint sequence: %v", ErrIncompatibleCheckpoint, err)
		}
		bases[i] = b
	}
	if err := d.Model.InitializeSequence(bases); err != nil {
		return nil, err
	}

	designer := &Designer{
		design:  d,
		source:  source,
		log:     log,
		params:  d.Params,
		depths:  make([]int, len(d.Complexes)),
		elapsed: ckpt.Stats.Elapsed,
	}
	for i, c := range d.Complexes {
		ci, ok := position[c.Name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown complex %q in checkpoint", ErrIncompatibleCheckpoint, c.Name)
		}
		d.Partition.SetActive(i, ckpt.ActiveMask[ci])
		designer.depths[i] = ckpt.Depths[ci]
		if c.Target != nil && designer.depths[i] > 0 && c.Root.IsLeaf() {
			decompose.StructureGuided(c.Root, d.Params.NSplit, d.Params.HSplit)
		}
	}
	return designer, nil
}
