/*
This file is the entry point for nadesign's command line utility. It acts
as a general template outlining everything available to the user, in the
same shape as the teacher poly CLI's main.go: argparsing and the app
definition go through "github.com/urfave/cli/v2", and main is kept
separate from application() to ease testing.
*/
package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	run(os.Args)
}

// run is separated from main for debugging's sake.
func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

// application defines the nadesign CLI: a design subcommand family
// wrapping Specification validation and Designer runs/resumes.
func application() *cli.App {
	return &cli.App{
		Name:  "nadesign",
		Usage: "A command line utility for designing nucleic acid sequences against target structures and concentrations.",

		Commands: []*cli.Command{
			{
				Name:  "design",
				Usage: "Validate, run, or resume a sequence design.",
				Subcommands: []*cli.Command{
					{
						Name:      "validate",
						Usage:     "Parse and structurally validate a Specification file.",
						ArgsUsage: "<spec.json|spec.yaml>",
						Action:    validateCommand,
					},
					{
						Name:      "run",
						Usage:     "Run a design until the optimizer stops, printing the DesignResult as JSON.",
						ArgsUsage: "<spec.json|spec.yaml>",
						Flags:     runFlags,
						Action:    runCommand,
					},
					{
						Name:      "resume",
						Usage:     "Resume a design from a checkpoint file and continue running it.",
						ArgsUsage: "<spec.json|spec.yaml> <checkpoint.json>",
						Flags:     runFlags,
						Action:    resumeCommand,
					},
				},
			},
		},
	}
}
