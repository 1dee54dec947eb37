package design

import (
	"context"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"lukechampine.com/blake3"

	"github.com/bebop/nadesign/constraint"
	"github.com/bebop/nadesign/decompose"
	"github.com/bebop/nadesign/internal/logging"
	"github.com/bebop/nadesign/internal/rng"
	"github.com/bebop/nadesign/nucleotide"
	"github.com/bebop/nadesign/optimizer"
	"github.com/bebop/nadesign/partition"
)

// Designer wraps a Design with the RNG source, logger, and optimizer
// parameters that drive one optimization run, implementing
// optimizer.Model so optimizer.OptimizeTubes can run against it directly.
type Designer struct {
	design *Design
	source *rng.Source
	log    logging.Logger
	params optimizer.Parameters

	depths  []int         // per-complex deepest decomposition level currently built
	elapsed time.Duration // design time carried over from a prior checkpointed run
}

// NewDesigner wraps a built Design for optimization, seeding the
// decomposition tree of every complex with a target structure
// structure-guided to HSplit/NSplit, per the initial-decomposition step
// before any optimizer level runs.
func NewDesigner(d *Design, source *rng.Source, log logging.Logger) (*Designer, error) {
	if log == nil {
		log = logging.Noop{}
	}
	des := &Designer{design: d, source: source, log: log, params: d.Params, depths: make([]int, len(d.Complexes))}

	initial, err := d.Engine.InitialSequence()
	if err != nil {
		return nil, fmt.Errorf("design: initial sequence: %w", err)
	}
	if err := d.Model.InitializeSequence(initial); err != nil {
		return nil, err
	}

	for i, c := range d.Complexes {
		if c.Target != nil {
			decompose.StructureGuided(c.Root, d.Params.NSplit, d.Params.HSplit)
			des.depths[i] = 1
		}
	}
	return des, nil
}

func (m *Designer) NumPositions() int { return m.design.Model.Len() }

func (m *Designer) MaxDepth() int {
	max := 0
	for _, depth := range m.depths {
		if depth > max {
			max = depth
		}
	}
	return max
}

func (m *Designer) Evaluate(ctx context.Context, depth int) (optimizer.Evaluation, error) {
	if err := m.design.refresh(ctx, depth, m.design.Partition); err != nil {
		return optimizer.Evaluation{}, err
	}
	return m.design.evaluateObjectives()
}

func (m *Designer) FullEvaluate(ctx context.Context) (optimizer.Evaluation, error) {
	full := partition.New(len(m.design.Complexes), 0)
	if err := m.design.refresh(ctx, m.MaxDepth(), full); err != nil {
		return optimizer.Evaluation{}, err
	}
	return m.design.evaluateObjectives()
}

// sequenceSnapshot is the opaque optimizer.Snapshot this Designer hands
// back: a defensive copy of the flat sequence, sufficient to roll back a
// rejected mutation without re-deriving anything from the constraint
// engine.
type sequenceSnapshot struct {
	bases []nucleotide.Base
}

func (m *Designer) Snapshot() optimizer.Snapshot {
	return sequenceSnapshot{bases: m.design.Model.Bases()}
}

func (m *Designer) Restore(s optimizer.Snapshot) {
	snap := s.(sequenceSnapshot)
	if err := m.design.Model.InitializeSequence(snap.bases); err != nil {
		panic(err) // snapshot length can never mismatch the live model
	}
}

func (m *Designer) SequenceKey() string {
	sum := blake3.Sum256([]byte(m.design.Model.String(nucleotide.DNA)))
	return hex.EncodeToString(sum[:])
}

func (m *Designer) Mutate(ctx context.Context, positions []int) (bool, error) {
	current := m.design.Model.Bases()
	policy := constraint.MutationPolicy{
		MsecCutoff:    m.design.Engine.AdaptiveMsecCutoff(),
		Deterministic: m.params.RNGSeed != 0,
	}
	mutated, err := m.design.Engine.Mutation(current, positions, policy)
	if err != nil {
		return false, err
	}
	changed := false
	for _, pos := range positions {
		if mutated[pos] == current[pos] {
			continue
		}
		changed = true
		if err := m.design.Model.SetSequence(pos, mutated[pos:pos+1]); err != nil {
			return false, err
		}
	}
	return changed, nil
}

// Redecompose runs probability-guided redecomposition to depth d across
// every active complex that has a target structure, invalidating the affected
// subtrees' mini caches.
func (m *Designer) Redecompose(ctx context.Context, d int) error {
	seq := m.design.Model.Bases()
	for i, c := range m.design.Complexes {
		if c.Target == nil || !m.design.Partition.IsActive(i) {
			continue
		}
		evaluator := m.design.Eval.ForSequence(seq)
		changed, err := decompose.ProbabilityGuided(ctx, c.Root, evaluator, d, m.params.NSplit, m.params.HSplit, m.params.FSplit, 1e-3)
		if err != nil {
			return err
		}
		if changed && m.depths[i] < d {
			m.depths[i] = d
		}
	}
	return nil
}

// refocusCandidate pairs a passive complex index with its summed target
// concentration across the tubes that target it, used to rank which
// passive complex to activate next.
type refocusCandidate struct {
	index int
	score float64
}

// RefocusCandidates ranks currently passive complexes, descending, by the
// sum of their TargetConc over every tube that lists them as a target;
// passive complexes that no tube targets score zero. The score does not
// use the solved concentrations and is not normalized into a fraction of
// each tube's concentration defect.
func (m *Designer) RefocusCandidates(ctx context.Context) ([]int, error) {
	passives := m.design.Partition.Passives()
	if len(passives) == 0 {
		return nil, nil
	}
	if err := m.design.refresh(ctx, m.MaxDepth(), m.design.Partition); err != nil {
		return nil, err
	}

	scores := make(map[int]float64, len(passives))
	for _, p := range passives {
		scores[p] = 0
	}
	for _, t := range m.design.Tubes {
		for _, tgt := range t.Targets {
			if _, isPassive := scores[tgt.ComplexIndex]; !isPassive {
				continue
			}
			scores[tgt.ComplexIndex] += tgt.TargetConc
		}
	}

	candidates := make([]refocusCandidate, 0, len(passives))
	for _, p := range passives {
		candidates = append(candidates, refocusCandidate{index: p, score: scores[p]})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	out := make([]int, len(candidates))
	for i, c := range candidates {
		out[i] = c.index
	}
	return out, nil
}

// Activate promotes a passive complex to active, decomposing it
// structure-guided if it carries a target structure (otherwise it is
// left as a single leaf, evaluated whole by the thermo kernel).
func (m *Designer) Activate(ctx context.Context, complexIndex int) error {
	m.design.Partition.Activate(complexIndex)
	c := m.design.Complexes[complexIndex]
	if c.Target != nil && c.Root.IsLeaf() {
		decompose.StructureGuided(c.Root, m.params.NSplit, m.params.HSplit)
		m.depths[complexIndex] = 1
	}
	return nil
}
