package extkernel

import (
	"context"
	"testing"
)

// TestEvaluateRoundTrips shells out to bash the way commands_test.go's
// (commented) exec.Command("bash", "-c", command) idiom does, standing in
// for a real external partition-function binary.
func TestEvaluateRoundTrips(t *testing.T) {
	script := `cat <<'EOF'
{"log_q": -4.5, "pairs": [{"i": 0, "j": 7, "p": 0.9}, {"i": 1, "j": 6, "p": 0.8}]}
EOF`
	k := New("bash", "-c", script)

	rec, err := k.Evaluate(context.Background(), []byte("ACGTACGT"), nil, 310.15)
	if err != nil {
		t.Fatal(err)
	}
	if rec.LogQ != -4.5 {
		t.Fatalf("LogQ = %v, want -4.5", rec.LogQ)
	}
	if got := rec.Pairs.Get(0, 7); got != 0.9 {
		t.Fatalf("Pairs.Get(0,7) = %v, want 0.9", got)
	}
	if got := rec.Pairs.Get(1, 6); got != 0.8 {
		t.Fatalf("Pairs.Get(1,6) = %v, want 0.8", got)
	}
}

func TestEvaluatePropagatesNonzeroExit(t *testing.T) {
	k := New("bash", "-c", "echo 'boom' 1>&2; exit 1")
	if _, err := k.Evaluate(context.Background(), []byte("ACGT"), nil, 310.15); err == nil {
		t.Fatal("expected an error when the external kernel exits nonzero")
	}
}
