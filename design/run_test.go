package design

import (
	"context"
	"testing"

	"github.com/bebop/nadesign/internal/rng"
)

// TestDesignerRunReachesSuccess drives a Designer through a full Run call
// against the same single-hairpin fixture design_test.go's other cases
// use, checking the end-to-end wiring spec.md's scenario E1 (a design run
// that terminates successfully) describes: Run must return a non-empty
// resolved sequence, a Success flag consistent with the reported defect,
// and a RunID.
func TestDesignerRunReachesSuccess(t *testing.T) {
	spec := basicSpec()
	spec.Parameters.FStop = 1e9 // accept the very first assignment evaluated
	spec.Parameters.MBad = 1
	spec.Parameters.MReopt = 0

	d, err := NewDesign(spec, fakeKernel{}, fakeSolver{}, rng.New(1))
	if err != nil {
		t.Fatal(err)
	}
	designer, err := NewDesigner(d, rng.New(1), nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := designer.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !result.Stats.Success {
		t.Fatal("expected Run to report success with FStop set above any reachable defect")
	}
	if result.Stats.RunID == "" {
		t.Fatal("expected a non-empty RunID")
	}
	if result.Best.Sequence == "" || len(result.Best.Sequence) != designer.NumPositions() {
		t.Fatalf("Best.Sequence = %q, want length %d", result.Best.Sequence, designer.NumPositions())
	}
	if result.Best.SequenceHash == "" {
		t.Fatal("expected a non-empty SequenceHash")
	}
	if len(result.Best.Tubes) != 1 || result.Best.Tubes[0].Name != "T1" {
		t.Fatalf("expected one tube result named T1, got %+v", result.Best.Tubes)
	}
}

// TestDesignerCheckpointRoundTripsThroughResume covers spec.md's E6
// scenario: a Run's Checkpoint must resume into a Designer that can
// itself be Run further without error.
func TestDesignerCheckpointRoundTripsThroughResume(t *testing.T) {
	spec := basicSpec()
	spec.Parameters.FStop = 1e9
	spec.Parameters.MBad = 1
	spec.Parameters.MReopt = 0

	d, err := NewDesign(spec, fakeKernel{}, fakeSolver{}, rng.New(1))
	if err != nil {
		t.Fatal(err)
	}
	designer, err := NewDesigner(d, rng.New(1), nil)
	if err != nil {
		t.Fatal(err)
	}
	result, err := designer.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	ckpt := designer.Checkpoint(result.Stats)

	data, err := ckpt.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := ParseCheckpoint(data)
	if err != nil {
		t.Fatal(err)
	}

	resumed, err := Resume(spec, fakeKernel{}, fakeSolver{}, rng.New(2), nil, parsed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := resumed.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}
