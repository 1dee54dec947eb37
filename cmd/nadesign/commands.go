package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/urfave/cli/v2"

	"github.com/bebop/nadesign/design"
	"github.com/bebop/nadesign/design/checkpointstore"
	"github.com/bebop/nadesign/internal/logging"
	"github.com/bebop/nadesign/internal/rng"
	"github.com/bebop/nadesign/thermo"
	"github.com/bebop/nadesign/thermo/extkernel"
	"github.com/bebop/nadesign/tube"
	"github.com/bebop/nadesign/tube/extsolver"
)

var runFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "kernel-cmd",
		Usage: "Shell command run per thermodynamic evaluation; the command reads a JSON request on stdin and writes a JSON {log_q, pairs} response on stdout.",
	},
	&cli.StringFlag{
		Name:  "solver-cmd",
		Usage: "Shell command run per concentration equilibration; reads a JSON request on stdin, writes a JSON {mole_fractions, converged, error_magnitude} response on stdout.",
	},
	&cli.Int64Flag{
		Name:  "seed",
		Usage: "Override the Specification's optimizer.Parameters.RNGSeed. 0 seeds from the platform clock.",
	},
	&cli.StringFlag{
		Name:  "checkpoint-out",
		Usage: "Path to write a JSON Checkpoint after the run completes without error.",
	},
	&cli.StringFlag{
		Name:  "checkpoint-db",
		Usage: "Optional path to a SQLite checkpoint history database (design/checkpointstore). Appends one row per run rather than overwriting.",
	},
}

// loadSpecification reads path and deserializes it via the JSON or YAML
// decoder matching its extension, the same extension-dispatch idiom the
// teacher's fileParser uses for genbank/gff/json input.
func loadSpecification(path string) (design.Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return design.Specification{}, fmt.Errorf("nadesign: read %q: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return design.LoadSpecificationYAML(data)
	default:
		return design.LoadSpecificationJSON(data)
	}
}

func validateCommand(c *cli.Context) error {
	path := c.Args().Get(0)
	if path == "" {
		return fmt.Errorf("nadesign: design validate requires a specification file argument")
	}
	spec, err := loadSpecification(path)
	if err != nil {
		return err
	}
	d, err := design.NewDesign(spec, nil, nil, rng.New(spec.Parameters.RNGSeed))
	if err != nil {
		return fmt.Errorf("nadesign: specification is invalid: %w", err)
	}
	summary := fmt.Sprintf(
		"Specification valid: %d domain(s), %d strand(s), %d complex(es), %d tube(s).",
		len(spec.Domains), len(spec.Strands), len(d.Complexes), len(d.Tubes),
	)
	fmt.Fprintln(c.App.Writer, wordwrap.WrapString(summary, 78))
	return nil
}

// resolveKernelSolver builds an ExecKernel/ExecSolver pair from the
// --kernel-cmd/--solver-cmd flags, required for run and resume (unlike
// validate, which never calls into either).
func resolveKernelSolver(c *cli.Context) (thermo.Kernel, tube.ConcentrationSolver, error) {
	kernelCmd := c.String("kernel-cmd")
	solverCmd := c.String("solver-cmd")
	if kernelCmd == "" || solverCmd == "" {
		return nil, nil, fmt.Errorf("nadesign: --kernel-cmd and --solver-cmd are required to run or resume a design (validate does not need them)")
	}
	return extkernel.New("sh", "-c", kernelCmd), extsolver.New("sh", "-c", solverCmd), nil
}

func runCommand(c *cli.Context) error {
	path := c.Args().Get(0)
	if path == "" {
		return fmt.Errorf("nadesign: design run requires a specification file argument")
	}
	spec, err := loadSpecification(path)
	if err != nil {
		return err
	}
	if seed := c.Int64("seed"); seed != 0 {
		spec.Parameters.RNGSeed = seed
	}

	kernel, solver, err := resolveKernelSolver(c)
	if err != nil {
		return err
	}

	source := rng.New(spec.Parameters.RNGSeed)
	d, err := design.NewDesign(spec, kernel, solver, source)
	if err != nil {
		return fmt.Errorf("nadesign: building design: %w", err)
	}
	designer, err := design.NewDesigner(d, source, logging.New())
	if err != nil {
		return fmt.Errorf("nadesign: building designer: %w", err)
	}

	return executeAndReport(c, designer)
}

func resumeCommand(c *cli.Context) error {
	specPath := c.Args().Get(0)
	checkpointPath := c.Args().Get(1)
	if specPath == "" || checkpointPath == "" {
		return fmt.Errorf("nadesign: design resume requires <spec.json> and <checkpoint.json> arguments")
	}
	spec, err := loadSpecification(specPath)
	if err != nil {
		return err
	}
	if seed := c.Int64("seed"); seed != 0 {
		spec.Parameters.RNGSeed = seed
	}

	kernel, solver, err := resolveKernelSolver(c)
	if err != nil {
		return err
	}

	ckptData, err := os.ReadFile(checkpointPath)
	if err != nil {
		return fmt.Errorf("nadesign: read checkpoint %q: %w", checkpointPath, err)
	}
	ckpt, err := design.ParseCheckpoint(ckptData)
	if err != nil {
		return err
	}

	source := rng.New(spec.Parameters.RNGSeed)
	designer, err := design.Resume(spec, kernel, solver, source, logging.New(), ckpt)
	if err != nil {
		return fmt.Errorf("nadesign: resuming design: %w", err)
	}

	return executeAndReport(c, designer)
}

// executeAndReport runs designer to completion, prints the resulting
// DesignResult as JSON to the app's writer (per the external-interop
// contract: DesignResult always serializes to JSON), and persists a
// checkpoint if --checkpoint-out or --checkpoint-db was given.
func executeAndReport(c *cli.Context, designer *design.Designer) error {
	result, err := designer.Run(context.Background())
	if err != nil {
		return fmt.Errorf("nadesign: run: %w", err)
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("nadesign: encode result: %w", err)
	}
	fmt.Fprintln(c.App.Writer, string(encoded))

	ckpt := designer.Checkpoint(result.Stats)

	if outPath := c.String("checkpoint-out"); outPath != "" {
		data, err := ckpt.Marshal()
		if err != nil {
			return fmt.Errorf("nadesign: encode checkpoint: %w", err)
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return fmt.Errorf("nadesign: write checkpoint %q: %w", outPath, err)
		}
	}

	if dbPath := c.String("checkpoint-db"); dbPath != "" {
		store, err := checkpointstore.Open(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()
		step, ok, err := store.LatestStep(result.Stats.RunID)
		if err != nil {
			return err
		}
		next := 0
		if ok {
			next = step + 1
		}
		if err := store.Save(result.Stats.RunID, next, ckpt); err != nil {
			return err
		}
	}

	return nil
}
