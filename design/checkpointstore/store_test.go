package checkpointstore

import (
	"testing"

	"github.com/bebop/nadesign/design"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ckpt := design.Checkpoint{
		Sequence:     "ACGTACGT",
		ActiveMask:   []bool{true},
		ComplexOrder: []string{"C"},
		Depths:       []int{1},
		Stats:        design.DesignStats{RunID: "run-1", Success: false},
	}
	if err := store.Save("run-1", 0, ckpt); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load("run-1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Sequence != ckpt.Sequence {
		t.Fatalf("Sequence = %q, want %q", loaded.Sequence, ckpt.Sequence)
	}

	if _, err := store.Load("run-1", 1); err == nil {
		t.Fatal("expected an error loading a step that was never saved")
	}
}

func TestLatestStepAndSteps(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	ckpt := design.Checkpoint{Sequence: "AC", ActiveMask: []bool{true}, ComplexOrder: []string{"C"}, Depths: []int{1}}
	for _, step := range []int{0, 2, 5} {
		if err := store.Save("run-2", step, ckpt); err != nil {
			t.Fatal(err)
		}
	}

	latest, ok, err := store.LatestStep("run-2")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || latest != 5 {
		t.Fatalf("LatestStep = %d, %v, want 5, true", latest, ok)
	}

	steps, err := store.Steps("run-2")
	if err != nil {
		t.Fatal(err)
	}
	if len(steps) != 3 || steps[0] != 0 || steps[2] != 5 {
		t.Fatalf("Steps = %v, want [0 2 5]", steps)
	}

	if _, ok, err := store.LatestStep("unknown-run"); err != nil || ok {
		t.Fatalf("LatestStep for unknown run = %v, %v, want false, nil", ok, err)
	}
}
