package report

import (
	"fmt"
	"os"

	teaprogress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// IsInteractive reports whether stdout is a terminal capable of hosting the
// bubbletea progress indicator, matching the retrieval pack's own
// isatty/x-term gating of its dashboards.
func IsInteractive() bool {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	_, _, err := term.GetSize(int(os.Stdout.Fd()))
	return err == nil
}

// SweepProgress drives a bubbletea progress bar across a multi-geometry
// sweep, one tick per completed geometry. It is a no-op wrapper when stdout
// is not a terminal, so sweep runs in CI or a pipe show no progress bar.
type SweepProgress struct {
	program *tea.Program
	model   *progressModel
	total   int
}

type progressModel struct {
	bar      teaprogress.Model
	done     int
	total    int
	label    string
	finished bool
}

type stepDoneMsg struct{ label string }
type doneMsg struct{}

// NewSweepProgress creates a progress indicator for a sweep of `total`
// geometries. Returns nil if the terminal is not interactive; callers should
// treat a nil *SweepProgress as "do nothing" and fall back to plain output.
func NewSweepProgress(total int) *SweepProgress {
	if !IsInteractive() || total <= 0 {
		return nil
	}

	bar := teaprogress.New(teaprogress.WithDefaultGradient())
	model := &progressModel{bar: bar, total: total}

	return &SweepProgress{
		model: model,
		total: total,
	}
}

// Start launches the bubbletea program in the background.
func (p *SweepProgress) Start() {
	if p == nil {
		return
	}
	p.program = tea.NewProgram(p.model)
	go func() {
		_, _ = p.program.Run()
	}()
}

// Advance reports that one more geometry finished, labeled for the status
// line (typically the geometry's name).
func (p *SweepProgress) Advance(label string) {
	if p == nil || p.program == nil {
		return
	}
	p.program.Send(stepDoneMsg{label: label})
}

// Finish stops the program, leaving the final frame on screen.
func (p *SweepProgress) Finish() {
	if p == nil || p.program == nil {
		return
	}
	p.program.Send(doneMsg{})
	p.program.Wait()
}

func (m *progressModel) Init() tea.Cmd {
	return nil
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = msg.Width - 4
	case stepDoneMsg:
		m.done++
		m.label = msg.label
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	pct := float64(m.done) / float64(m.total)
	bar := m.bar.ViewAs(pct)
	status := fmt.Sprintf("%d/%d", m.done, m.total)
	if m.label != "" {
		status += "  " + m.label
	}
	return bar + "  " + status + "\n"
}
