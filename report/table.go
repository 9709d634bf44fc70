// Package report renders cache simulation and sweep results for the
// terminal: a styled summary table when output is a TTY, and a trace-replay
// progress indicator for long-running sweeps.
//
// Its table styling follows the teacher's own text-report shape (one labeled
// line per counter) dressed in lipgloss the way the retrieval pack's
// dashboard code styles tabular output; its progress bar is grounded on the
// same pack's bubbletea/bubbles usage.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sarchlab/cachetrace/cache"
	"github.com/sarchlab/cachetrace/sweep"
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Dark: "#697098", Light: "#8990a3"}).
			Width(20)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Dark: "#82aaff", Light: "#2e7de9"})

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Dark: "#eeffff", Light: "#343b58"})

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Dark: "#5c6370", Light: "#c4c8da"}).
			Padding(0, 1)

	skippedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Dark: "#ff5370", Light: "#f52a65"})

	bestStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Dark: "#c3e88d", Light: "#587539"})
)

func row(label string, value any) string {
	return labelStyle.Render(label) + valueStyle.Render(fmt.Sprintf("%v", value))
}

// StatsTable renders a single run's Stats as a bordered, labeled box.
func StatsTable(g cache.Geometry, s cache.Stats) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("Geometry C=%d B=%d S=%d V=%d K=%d", g.C, g.B, g.S, g.V, g.K)))
	b.WriteString("\n\n")
	b.WriteString(row("Accesses", s.Accesses) + "\n")
	b.WriteString(row("Reads", s.Reads) + "\n")
	b.WriteString(row("Read misses", s.ReadMisses) + "\n")
	b.WriteString(row("Writes", s.Writes) + "\n")
	b.WriteString(row("Write misses", s.WriteMisses) + "\n")
	b.WriteString(row("VC misses", s.VCMisses) + "\n")
	b.WriteString(row("Write backs", s.WriteBacks) + "\n")
	b.WriteString(row("Prefetched blocks", s.PrefetchedBlocks) + "\n")
	b.WriteString(row("Useful prefetches", s.UsefulPrefetches) + "\n")
	b.WriteString(row("Bytes transferred", s.BytesTransferred) + "\n")
	b.WriteString(row("Miss rate", fmt.Sprintf("%.4f", s.MissRate)) + "\n")
	b.WriteString(row("Avg access time", fmt.Sprintf("%.4f cycles", s.AvgAccessTime)))

	return boxStyle.Render(b.String())
}

// SweepTable renders a sweep.Harness result set as one box per geometry,
// highlighting the best (lowest average access time) entry.
func SweepTable(results []sweep.Result, best *sweep.Result) string {
	var b strings.Builder

	for i, r := range results {
		if i > 0 {
			b.WriteString("\n")
		}
		if r.Skipped {
			b.WriteString(boxStyle.Render(
				headerStyle.Render(r.Name) + "\n\n" +
					skippedStyle.Render("skipped: "+r.SkipReason),
			))
			b.WriteString("\n")
			continue
		}

		isBest := best != nil && best.Name == r.Name
		name := r.Name
		if isBest {
			name = bestStyle.Render(r.Name + " (best)")
		} else {
			name = headerStyle.Render(r.Name)
		}

		var inner strings.Builder
		inner.WriteString(name)
		inner.WriteString("\n\n")
		inner.WriteString(row("Miss rate", fmt.Sprintf("%.4f", r.Stats.MissRate)) + "\n")
		inner.WriteString(row("Avg access time", fmt.Sprintf("%.4f cycles", r.Stats.AvgAccessTime)) + "\n")
		inner.WriteString(row("Memory", fmt.Sprintf("%.2f KB", r.MemoryKB)))

		b.WriteString(boxStyle.Render(inner.String()))
		b.WriteString("\n")
	}

	return b.String()
}

// WriteStatsTable writes StatsTable's rendering to w.
func WriteStatsTable(w io.Writer, g cache.Geometry, s cache.Stats) error {
	_, err := fmt.Fprintln(w, StatsTable(g, s))
	return err
}

// WriteSweepTable writes SweepTable's rendering to w.
func WriteSweepTable(w io.Writer, results []sweep.Result, best *sweep.Result) error {
	_, err := fmt.Fprintln(w, SweepTable(results, best))
	return err
}
