package sweep

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/sarchlab/cachetrace/cache"
	"github.com/sarchlab/cachetrace/trace"
)

// Result holds the outcome of replaying a trace against one geometry.
type Result struct {
	Name       string       `json:"name"`
	Geometry   GeometrySpec `json:"geometry"`
	MemoryKB   float64      `json:"memory_kb"`
	Skipped    bool         `json:"skipped"`
	SkipReason string       `json:"skip_reason,omitempty"`
	Stats      cache.Stats  `json:"stats"`
}

// Harness replays a single buffered trace against every geometry in a
// SweepSpec. Buffering once and constructing an independent cache.Simulator
// per geometry follows spec.md §5: no shared mutable state across
// instances, so geometries could in principle run concurrently even though
// RunAll runs them sequentially here.
type Harness struct {
	spec   SweepSpec
	refs   []trace.Reference
	output io.Writer
}

// NewHarness builds a Harness over an already-buffered set of references
// (typically produced once via trace.ReadAll and reused across geometries).
func NewHarness(spec SweepSpec, refs []trace.Reference, output io.Writer) *Harness {
	return &Harness{spec: spec, refs: refs, output: output}
}

// RunAll runs every geometry in the spec against the buffered trace,
// skipping any whose memory footprint exceeds the spec's budget (when the
// budget is positive), exactly as the original source's sweep driver does.
func (h *Harness) RunAll() []Result {
	results := make([]Result, 0, len(h.spec.Geometries))

	for _, gs := range h.spec.Geometries {
		geom := gs.Geometry()
		memKB := memoryBudgetKB(geom)

		result := Result{Name: gs.Name, Geometry: gs, MemoryKB: memKB}

		if h.spec.MemoryBudgetKB > 0 && memKB > h.spec.MemoryBudgetKB {
			result.Skipped = true
			result.SkipReason = fmt.Sprintf("memory budget exceeded: %.2fKB > %.2fKB", memKB, h.spec.MemoryBudgetKB)
			results = append(results, result)
			continue
		}

		sim := cache.Init(geom)
		for _, ref := range h.refs {
			sim.Access(ref.RW, ref.Address)
		}
		result.Stats = sim.Finalize()
		results = append(results, result)
	}

	return results
}

// Best returns the result with the lowest average access time among the
// non-skipped results, or nil if every geometry was skipped.
func (h *Harness) Best(results []Result) *Result {
	var best *Result
	bestAAT := math.Inf(1)
	for i := range results {
		r := &results[i]
		if r.Skipped {
			continue
		}
		if r.Stats.AvgAccessTime < bestAAT {
			bestAAT = r.Stats.AvgAccessTime
			best = r
		}
	}
	return best
}

// memoryBudgetKB estimates the metadata footprint (tag bits and one flag
// bit per entry, plus per-block data storage) of a geometry in KB. Ported
// directly from original_source/cachesim_driver_exp.cpp's inline formula:
// each L1 block costs (64-C+S+1) metadata bits plus 8*blockSize data bits,
// each victim-buffer entry costs (64-B+1) metadata bits plus the same data
// bits, and the total is converted from bits to KB.
func memoryBudgetKB(g cache.Geometry) float64 {
	dataStorageBits := float64(g.BlockSize()) * 8
	numBlocks := float64(uint64(1) << (g.C - g.B))
	cacheMemoryBits := numBlocks * (64 - float64(g.C) + float64(g.S) + 1 + dataStorageBits)
	vcMemoryBits := float64(g.V) * (64 - float64(g.B) + 1 + dataStorageBits)
	return (cacheMemoryBits + vcMemoryBits) / float64(1<<10*8)
}

// PrintResults writes a human-readable report, one block per geometry, in
// the shape of the teacher's benchmarks.Harness.PrintResults.
func (h *Harness) PrintResults(results []Result) {
	_, _ = fmt.Fprintln(h.output, "=== Cache Geometry Sweep Results ===")
	_, _ = fmt.Fprintln(h.output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.output, "Geometry: %s (C=%d B=%d S=%d V=%d K=%d)\n",
			r.Name, r.Geometry.C, r.Geometry.B, r.Geometry.S, r.Geometry.V, r.Geometry.K)
		_, _ = fmt.Fprintf(h.output, "  Memory footprint: %.2f KB\n", r.MemoryKB)

		if r.Skipped {
			_, _ = fmt.Fprintf(h.output, "  Skipped: %s\n\n", r.SkipReason)
			continue
		}

		_, _ = fmt.Fprintf(h.output, "  Accesses:          %d\n", r.Stats.Accesses)
		_, _ = fmt.Fprintf(h.output, "  Misses:            %d\n", r.Stats.Misses)
		_, _ = fmt.Fprintf(h.output, "  VC Misses:         %d\n", r.Stats.VCMisses)
		_, _ = fmt.Fprintf(h.output, "  Write Backs:       %d\n", r.Stats.WriteBacks)
		_, _ = fmt.Fprintf(h.output, "  Prefetched Blocks: %d\n", r.Stats.PrefetchedBlocks)
		_, _ = fmt.Fprintf(h.output, "  Useful Prefetches: %d\n", r.Stats.UsefulPrefetches)
		_, _ = fmt.Fprintf(h.output, "  Miss Rate:         %.4f\n", r.Stats.MissRate)
		_, _ = fmt.Fprintf(h.output, "  Avg Access Time:   %.4f cycles\n", r.Stats.AvgAccessTime)
		_, _ = fmt.Fprintln(h.output, "")
	}

	if best := h.Best(results); best != nil {
		_, _ = fmt.Fprintf(h.output, "Best AAT: %.4f (%s)\n", best.Stats.AvgAccessTime, best.Name)
	}
}

// PrintCSV writes one row per geometry for spreadsheet comparison.
func (h *Harness) PrintCSV(results []Result) error {
	w := csv.NewWriter(h.output)
	defer w.Flush()

	header := []string{
		"name", "c", "b", "s", "v", "k", "memory_kb", "skipped",
		"accesses", "misses", "vc_misses", "write_backs",
		"prefetched_blocks", "useful_prefetches", "miss_rate", "avg_access_time",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Name,
			fmt.Sprintf("%d", r.Geometry.C),
			fmt.Sprintf("%d", r.Geometry.B),
			fmt.Sprintf("%d", r.Geometry.S),
			fmt.Sprintf("%d", r.Geometry.V),
			fmt.Sprintf("%d", r.Geometry.K),
			fmt.Sprintf("%.2f", r.MemoryKB),
			fmt.Sprintf("%t", r.Skipped),
			fmt.Sprintf("%d", r.Stats.Accesses),
			fmt.Sprintf("%d", r.Stats.Misses),
			fmt.Sprintf("%d", r.Stats.VCMisses),
			fmt.Sprintf("%d", r.Stats.WriteBacks),
			fmt.Sprintf("%d", r.Stats.PrefetchedBlocks),
			fmt.Sprintf("%d", r.Stats.UsefulPrefetches),
			fmt.Sprintf("%.4f", r.Stats.MissRate),
			fmt.Sprintf("%.4f", r.Stats.AvgAccessTime),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// PrintJSON writes the full result set as indented JSON.
func (h *Harness) PrintJSON(results []Result) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize sweep results: %w", err)
	}
	_, err = h.output.Write(append(data, '\n'))
	return err
}
