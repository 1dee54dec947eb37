package objective

import "github.com/bebop/nadesign/defect"

// Multitube aggregates the already-normalized per-tube defect across every
// tube in a design.
type Multitube struct {
	TubeNames []string
}

func (Multitube) Kind() Kind    { return KindMultitube }
func (m Multitube) Name() string { return "multitube" }
func (Multitube) sealed()        {}

// Evaluate merges one normalized Defect per tube (as produced by
// tube.Tube.Defect) into the multitube total.
func (Multitube) Evaluate(tubeDefects []defect.Defect) defect.Defect {
	return defect.MergeAll(tubeDefects)
}

// Tube is the single-tube normalized defect objective: a thin identifying
// wrapper, since tube.Tube.Defect already returns a normalized Defect.
type Tube struct {
	TubeName string
}

func (Tube) Kind() Kind     { return KindTube }
func (t Tube) Name() string { return "tube:" + t.TubeName }
func (Tube) sealed()        {}

// Evaluate returns the tube's own normalized defect unchanged.
func (Tube) Evaluate(tubeDefect defect.Defect) defect.Defect {
	return tubeDefect
}
