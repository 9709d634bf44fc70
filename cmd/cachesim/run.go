package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachetrace/cache"
	"github.com/sarchlab/cachetrace/report"
	"github.com/sarchlab/cachetrace/trace"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a single trace against one cache geometry",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func openTraceInput() (*os.File, error) {
	if flagInput == "" {
		return os.Stdin, nil
	}
	f, err := os.Open(flagInput)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	return f, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	geom, err := geometryFromFlags()
	if err != nil {
		return err
	}

	f, err := openTraceInput()
	if err != nil {
		return err
	}
	if f != os.Stdin {
		defer f.Close()
	}

	sim := cache.Init(geom)
	if flagInvariants {
		sim.EnableInvariantChecks()
	}

	reader := trace.NewReader(f)
	var lineErrors int
	for {
		ref, err := reader.Next()
		if err != nil {
			if le, ok := err.(*trace.LineError); ok {
				lineErrors++
				fmt.Fprintln(cmd.ErrOrStderr(), le)
				continue
			}
			break
		}
		sim.Access(ref.RW, ref.Address)
	}

	stats := sim.Finalize()

	if flagHuman && report.IsInteractive() {
		fmt.Fprintln(cmd.OutOrStdout(), report.StatsTable(geom, stats))
	} else {
		printPlainStats(cmd, geom, stats)
	}

	if lineErrors > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %d malformed trace lines\n", lineErrors)
	}

	return nil
}

func printPlainStats(cmd *cobra.Command, g cache.Geometry, s cache.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "geometry: C=%d B=%d S=%d V=%d K=%d\n", g.C, g.B, g.S, g.V, g.K)
	fmt.Fprintf(out, "accesses: %d\n", s.Accesses)
	fmt.Fprintf(out, "reads: %d read_misses: %d\n", s.Reads, s.ReadMisses)
	fmt.Fprintf(out, "writes: %d write_misses: %d\n", s.Writes, s.WriteMisses)
	fmt.Fprintf(out, "vc_misses: %d write_backs: %d\n", s.VCMisses, s.WriteBacks)
	fmt.Fprintf(out, "prefetched_blocks: %d useful_prefetches: %d\n", s.PrefetchedBlocks, s.UsefulPrefetches)
	fmt.Fprintf(out, "bytes_transferred: %d\n", s.BytesTransferred)
	fmt.Fprintf(out, "miss_rate: %.4f\n", s.MissRate)
	fmt.Fprintf(out, "avg_access_time: %.4f\n", s.AvgAccessTime)
}
