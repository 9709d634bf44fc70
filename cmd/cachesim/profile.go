package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/sarchlab/cachetrace/cache"
	"github.com/sarchlab/cachetrace/trace"
)

var (
	profileCPUPath  string
	profileHeapPath string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Replay a trace while capturing CPU and heap profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileCPUPath, "cpu-profile", "cachesim.cpu.pprof", "path to write the CPU profile")
	profileCmd.Flags().StringVar(&profileHeapPath, "heap-profile", "cachesim.heap.pprof", "path to write the heap profile")
}

func runProfile(cmd *cobra.Command, args []string) error {
	geom, err := geometryFromFlags()
	if err != nil {
		return err
	}

	cpuFile, err := os.Create(profileCPUPath)
	if err != nil {
		return fmt.Errorf("failed to create CPU profile file: %w", err)
	}
	defer cpuFile.Close()

	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	defer pprof.StopCPUProfile()

	f, err := openTraceInput()
	if err != nil {
		return err
	}
	if f != os.Stdin {
		defer f.Close()
	}

	sim := cache.Init(geom)
	reader := trace.NewReader(f)
	for {
		ref, err := reader.Next()
		if err != nil {
			if _, ok := err.(*trace.LineError); ok {
				continue
			}
			break
		}
		sim.Access(ref.RW, ref.Address)
	}
	stats := sim.Finalize()
	fmt.Fprintf(cmd.OutOrStdout(), "accesses: %d misses: %d avg_access_time: %.4f\n",
		stats.Accesses, stats.Misses, stats.AvgAccessTime)

	heapFile, err := os.Create(profileHeapPath)
	if err != nil {
		return fmt.Errorf("failed to create heap profile file: %w", err)
	}
	defer heapFile.Close()

	if err := pprof.WriteHeapProfile(heapFile); err != nil {
		return fmt.Errorf("failed to write heap profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", profileCPUPath, profileHeapPath)
	return nil
}
