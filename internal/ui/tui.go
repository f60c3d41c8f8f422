// Package ui provides the terminal interface for a benchmark run.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/nibzard/mandelbench/internal/bench"
	"github.com/nibzard/mandelbench/internal/report"
)

// ErrQuit is returned when the user leaves the TUI before the benchmark ends.
var ErrQuit = errors.New("benchmark aborted from the terminal UI")

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	showBands bool
	output    io.Writer
}

// WithBands shows the per-band table from the start.
func WithBands(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.showBands = enabled
	}
}

// WithOutput sets the terminal the TUI draws to. It must be a TTY.
func WithOutput(w io.Writer) TUIOption {
	return func(c *tuiConfig) {
		c.output = w
	}
}

// RunTUI runs the benchmark while showing its progress, then keeps the report
// on screen until the user quits.
func RunTUI(ctx context.Context, runner *bench.Runner, opts ...TUIOption) (*bench.Result, error) {
	c := &tuiConfig{output: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	if !IsTTY(c.output) {
		return nil, fmt.Errorf("tui requires a TTY")
	}

	statusCh := make(chan bench.Status, 16)
	model := newTUIModel(runner.Workers(), statusCh, c.showBands)

	var res *bench.Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		res, err = runner.RunWithStatus(gctx, statusCh)
		return err
	})
	g.Go(func() error {
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx), tea.WithOutput(c.output))
		finalModel, err := program.Run()
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return err
		}
		if m, ok := finalModel.(*tuiModel); ok && m.result == nil && m.err == nil {
			return ErrQuit
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

type phaseLine struct {
	phase   bench.Phase
	message string
	started time.Time
	elapsed time.Duration
	done    bool
}

type tuiModel struct {
	workers      int
	statusCh     <-chan bench.Status
	phases       []phaseLine
	result       *bench.Result
	err          error
	showBands    bool
	showHelp     bool
	tickInterval time.Duration
	now          time.Time
}

type tickMsg time.Time

type statusMsg struct {
	status bench.Status
}

type benchDoneMsg struct{}

func newTUIModel(workers int, statusCh <-chan bench.Status, showBands bool) *tuiModel {
	return &tuiModel{
		workers:      workers,
		statusCh:     statusCh,
		showBands:    showBands,
		tickInterval: 100 * time.Millisecond,
		now:          time.Now(),
	}
}

func (m *tuiModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(m.tickInterval), waitForStatus(m.statusCh))
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "b":
			m.showBands = !m.showBands
			return m, nil
		case "h", "?":
			m.showHelp = !m.showHelp
			return m, nil
		}
	case tickMsg:
		m.now = time.Time(msg)
		if m.result != nil || m.err != nil {
			return m, nil
		}
		return m, tickCmd(m.tickInterval)
	case statusMsg:
		m.apply(msg.status)
		if msg.status.Error != nil {
			return m, tea.Quit
		}
		return m, waitForStatus(m.statusCh)
	case benchDoneMsg:
		return m, nil
	}
	return m, nil
}

// apply records a status update, closing the previous phase.
func (m *tuiModel) apply(s bench.Status) {
	if s.Error != nil {
		m.err = s.Error
		return
	}
	if n := len(m.phases); n > 0 && !m.phases[n-1].done {
		m.phases[n-1].done = true
		m.phases[n-1].elapsed = s.Elapsed
	}
	if s.Phase == bench.PhaseDone {
		m.result = s.Result
		return
	}
	m.phases = append(m.phases, phaseLine{
		phase:   s.Phase,
		message: s.Message,
		started: m.now,
	})
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
)

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.workers)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.result != nil)
		return b.String()
	}

	for _, p := range m.phases {
		writePhase(&b, p, m.now)
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render("Benchmark failed: "+m.err.Error()) + "\n\n")
	}
	if m.result != nil {
		writeReport(&b, m.result)
		if m.showBands {
			b.WriteString(report.Bands(m.result))
			b.WriteString("\n")
		}
	}

	writeFooter(&b, m.result != nil)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForStatus(ch <-chan bench.Status) tea.Cmd {
	return func() tea.Msg {
		status, ok := <-ch
		if !ok {
			return benchDoneMsg{}
		}
		return statusMsg{status: status}
	}
}

func writeTitle(b *strings.Builder, workers int) {
	title := fmt.Sprintf("Mandelbrot benchmark (%d workers)", workers)
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writePhase(b *strings.Builder, p phaseLine, now time.Time) {
	mark := ">"
	elapsed := now.Sub(p.started)
	if p.done {
		mark = "x"
		elapsed = p.elapsed
	}
	if elapsed < 0 {
		elapsed = 0
	}
	line := fmt.Sprintf("  [%s] %-10s %s", mark, p.phase, p.message)
	if p.phase == bench.PhaseVerify {
		b.WriteString(line + "\n")
		return
	}
	b.WriteString(fmt.Sprintf("%s  %s\n", line, dimStyle.Render(elapsed.Round(time.Millisecond).String())))
}

func writeReport(b *strings.Builder, res *bench.Result) {
	body := titleStyle.Render(report.Title) + "\n\n" + strings.TrimRight(report.Format(res), "\n")
	if !res.Identical {
		body += "\n\n" + errStyle.Render("parallel image differs from sequential image")
	}
	b.WriteString(boxStyle.Render(body) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, esc, ctrl+c  Quit\n")
	b.WriteString("  b               Toggle band timings\n")
	b.WriteString("  h, ?            Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder, finished bool) {
	if finished {
		b.WriteString(dimStyle.Render("Press b for band timings | h for help | q to quit") + "\n")
		return
	}
	b.WriteString(dimStyle.Render("Rendering... press q to abort") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
