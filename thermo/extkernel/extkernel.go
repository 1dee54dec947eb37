/*
Package extkernel adapts an external scientific subprocess into a
thermo.Kernel, so cmd/nadesign can run against a real partition-function
calculator without this repository reimplementing nearest-neighbor
thermodynamics itself.

Grounded on the pack's own externally-delegated-computation idiom:
abondrn-poly/annotate's BlastTask/DiamondTask/InfernalTask, which shell
out to blastn/diamond/cmscan via exec.Command rather than porting those
algorithms into Go. ExecKernel generalizes that from a file-in/file-out
protocol (those tasks write one output file per invocation) to a
stdin/stdout JSON request-response protocol, since a Kernel is called
once per decomposition leaf per mutation and spawning a process per call
needs a tighter round trip than intermediate files would allow.
*/
package extkernel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/bebop/nadesign/thermo"
)

// request is the JSON payload written to the subprocess's stdin.
type request struct {
	Sequence          string  `json:"sequence"`
	EnforcedPairs     [][2]int `json:"enforced_pairs"`
	TemperatureKelvin float64  `json:"temperature_kelvin"`
}

// pairEntry is one nonzero cell of a response's pair-probability matrix.
type pairEntry struct {
	I int     `json:"i"`
	J int     `json:"j"`
	P float64 `json:"p"`
}

// response is the JSON payload read back from the subprocess's stdout.
type response struct {
	LogQ  float64     `json:"log_q"`
	Pairs []pairEntry `json:"pairs"`
}

// ExecKernel implements thermo.Kernel by running an external command once
// per Evaluate call, passing the leaf sequence and its enforced pairs as
// JSON on stdin and reading the resulting log partition function and
// pair-probability matrix as JSON from stdout.
type ExecKernel struct {
	// Name is the external program to invoke (resolved via exec.LookPath
	// the same way abondrn-poly's BlastTask resolves "blastn").
	Name string
	// Args are extra arguments passed before the JSON protocol begins.
	Args []string
}

// New returns an ExecKernel that invokes name with args.
func New(name string, args ...string) ExecKernel {
	return ExecKernel{Name: name, Args: args}
}

func (k ExecKernel) Evaluate(ctx context.Context, seq []byte, enforcedPairs [][2]int, temperatureKelvin float64) (thermo.ThermoRecord, error) {
	req := request{Sequence: string(seq), EnforcedPairs: enforcedPairs, TemperatureKelvin: temperatureKelvin}
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return thermo.ThermoRecord{}, fmt.Errorf("extkernel: encode request: %w", err)
	}

	cmd := exec.CommandContext(ctx, k.Name, k.Args...)
	cmd.Stdin = bytes.NewReader(reqBytes)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return thermo.ThermoRecord{}, fmt.Errorf("extkernel: run %q: %w (stderr: %s)", k.Name, err, stderr.String())
	}

	var resp response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return thermo.ThermoRecord{}, fmt.Errorf("extkernel: decode response from %q: %w", k.Name, err)
	}

	pairs := thermo.NewSparseMatrix(len(seq))
	for _, e := range resp.Pairs {
		pairs.Set(e.I, e.J, e.P)
	}
	return thermo.ThermoRecord{LogQ: resp.LogQ, Pairs: pairs}, nil
}
