/*
Package extsolver adapts an external mass-action equilibrium solver into
a tube.ConcentrationSolver, the same externally-delegated-computation
idiom extkernel uses for thermo.Kernel (grounded on abondrn-poly/
annotate's exec.Command-based BlastTask/DiamondTask/InfernalTask): this
repository does not implement the nonlinear solve itself, it shells out
to a configured external program over a JSON stdin/stdout protocol.
*/
package extsolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/bebop/nadesign/tube"
)

// request is the JSON payload written to the subprocess's stdin: the
// stoichiometry matrix A (row-major, Rows x Cols), the initial log mole
// fractions, per-complex log Q, and solver options.
type request struct {
	Rows          int               `json:"rows"`
	Cols          int               `json:"cols"`
	A             []float64         `json:"a"`
	LogX0         []float64         `json:"log_x0"`
	LogQ          []float64         `json:"log_q"`
	Method        string            `json:"method"`
	Tolerance     float64           `json:"tolerance"`
	MaxIterations int               `json:"max_iterations"`
}

// response is the JSON payload read back from the subprocess's stdout.
type response struct {
	MoleFractions  []float64 `json:"mole_fractions"`
	Converged      bool      `json:"converged"`
	ErrorMagnitude float64   `json:"error_magnitude"`
}

// ExecSolver implements tube.ConcentrationSolver by running an external
// command once per Equilibrate call.
type ExecSolver struct {
	Name string
	Args []string
}

// New returns an ExecSolver that invokes name with args.
func New(name string, args ...string) ExecSolver {
	return ExecSolver{Name: name, Args: args}
}

func (s ExecSolver) Equilibrate(ctx context.Context, a *tube.Matrix, logX0 []float64, logQ []float64, opts tube.SolverOptions) (tube.ConcentrationResult, error) {
	flat := make([]float64, a.Rows*a.Cols)
	for i := 0; i < a.Rows; i++ {
		for j := 0; j < a.Cols; j++ {
			flat[i*a.Cols+j] = a.At(i, j)
		}
	}
	req := request{
		Rows: a.Rows, Cols: a.Cols, A: flat,
		LogX0: logX0, LogQ: logQ,
		Method: opts.Method, Tolerance: opts.Tolerance, MaxIterations: opts.MaxIterations,
	}
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return tube.ConcentrationResult{}, fmt.Errorf("extsolver: encode request: %w", err)
	}

	cmd := exec.CommandContext(ctx, s.Name, s.Args...)
	cmd.Stdin = bytes.NewReader(reqBytes)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return tube.ConcentrationResult{}, fmt.Errorf("extsolver: run %q: %w (stderr: %s)", s.Name, err, stderr.String())
	}

	var resp response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return tube.ConcentrationResult{}, fmt.Errorf("extsolver: decode response from %q: %w", s.Name, err)
	}
	return tube.ConcentrationResult{
		MoleFractions:  resp.MoleFractions,
		Converged:      resp.Converged,
		ErrorMagnitude: resp.ErrorMagnitude,
	}, nil
}
