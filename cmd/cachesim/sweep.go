package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachetrace/report"
	"github.com/sarchlab/cachetrace/sweep"
	"github.com/sarchlab/cachetrace/trace"
)

var (
	sweepSpecPath string
	sweepFormat   string
)

var sweepCmd = &cobra.Command{
	Use:   "sweep <trace-file>",
	Short: "Replay a trace against every geometry in a sweep spec and report the best",
	Args:  cobra.ExactArgs(1),
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().StringVar(&sweepSpecPath, "spec", "", "path to a sweep spec (JSON or YAML); defaults to the built-in geometry grid")
	sweepCmd.Flags().StringVar(&sweepFormat, "format", "table", "output format: table, csv, or json")
}

func runSweep(cmd *cobra.Command, args []string) error {
	spec := sweep.DefaultSweepSpec()
	if sweepSpecPath != "" {
		loaded, err := sweep.LoadSweepSpec(sweepSpecPath)
		if err != nil {
			return err
		}
		spec = *loaded
	}
	spec.TracePath = args[0]
	if err := spec.Validate(); err != nil {
		return err
	}

	f, err := os.Open(spec.TracePath)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer f.Close()

	refs, lineErrs := trace.ReadAll(f)
	for _, le := range lineErrs {
		fmt.Fprintln(cmd.ErrOrStderr(), le)
	}

	progress := report.NewSweepProgress(len(spec.Geometries))
	progress.Start()

	h := sweep.NewHarness(spec, refs, cmd.OutOrStdout())
	results := h.RunAll()
	for _, r := range results {
		progress.Advance(r.Name)
	}
	progress.Finish()

	best := h.Best(results)

	switch sweepFormat {
	case "csv":
		return h.PrintCSV(results)
	case "json":
		return h.PrintJSON(results)
	default:
		if report.IsInteractive() {
			fmt.Fprint(cmd.OutOrStdout(), report.SweepTable(results, best))
		} else {
			h.PrintResults(results)
		}
	}
	return nil
}
