package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUIRenderer draws live progress lines with bubbletea. Finished stages
// are printed above the live line and stay in the scrollback.
type TUIRenderer struct {
	mu      sync.Mutex
	cfg     Config
	program *tea.Program
	model   *progressModel
	tracker *ProgressTracker
	started bool
	done    chan struct{}
}

// NewTUIRenderer creates a TUI renderer.
// Returns an error if the output is not a terminal.
func NewTUIRenderer(cfg Config) (*TUIRenderer, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}

	tracker := NewProgressTracker()
	model := newProgressModel(tracker)

	if cfg.NoColor || DetectNoColor() {
		model.styles = NoColorStyles()
	}

	return &TUIRenderer{
		cfg:     cfg,
		tracker: tracker,
		model:   model,
		done:    make(chan struct{}),
	}, nil
}

// Start implements Renderer.
func (r *TUIRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	r.program = tea.NewProgram(r.model,
		tea.WithContext(ctx),
		tea.WithOutput(r.cfg.Output),
		tea.WithInput(nil),
	)
	r.started = true

	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()

	return nil
}

// UpdateProgress implements Renderer.
func (r *TUIRenderer) UpdateProgress(event ProgressEvent) {
	// The model polls the tracker on every tick, so no message is sent.
	r.tracker.Update(event)
}

// FinishStage implements Renderer.
func (r *TUIRenderer) FinishStage(stage Stage) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := r.tracker.Stats()
	if stats.Stage != stage {
		stats = ProgressStats{Stage: stage, Progress: 1}
	}
	if r.program != nil {
		r.program.Send(stageDoneMsg(stats))
	}
}

// Complete implements Renderer.
func (r *TUIRenderer) Complete(stats CompletionStats) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracker.SetStage(StageComplete, 0)

	if r.program != nil {
		r.program.Send(completeMsg(stats))
	}
}

// Stop implements Renderer.
func (r *TUIRenderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		r.program.Quit()

		// Wait with timeout to avoid hanging on an unresponsive terminal
		select {
		case <-r.done:
		case <-time.After(2 * time.Second):
		}
	}

	return nil
}

// Message types for bubbletea
type stageDoneMsg ProgressStats
type completeMsg CompletionStats
type tickMsg time.Time

// progressModel is the bubbletea model for a single live progress line.
type progressModel struct {
	tracker     *ProgressTracker
	spinner     spinner.Model
	progressBar progress.Model
	styles      Styles
	finished    map[Stage]bool
	complete    bool
	stats       CompletionStats
}

func newProgressModel(tracker *ProgressTracker) *progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime))

	p := progress.New(
		progress.WithSolidFill(ColorLime),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return &progressModel{
		tracker:     tracker,
		spinner:     s,
		progressBar: p,
		styles:      DefaultStyles(),
		finished:    make(map[Stage]bool),
	}
}

// Init implements tea.Model.
func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// tickCmd returns a command that ticks every 100ms.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progressBar.Width = msg.Width / 3
		if m.progressBar.Width < 10 {
			m.progressBar.Width = 10
		}
		if m.progressBar.Width > 50 {
			m.progressBar.Width = 50
		}

	case stageDoneMsg:
		stats := ProgressStats(msg)
		m.finished[stats.Stage] = true
		return m, tea.Println(m.renderDone(stats))

	case completeMsg:
		m.complete = true
		m.stats = CompletionStats(msg)
		return m, tea.Quit

	case tickMsg:
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *progressModel) View() string {
	if m.complete {
		return m.styles.Success.Render("✓ ") + m.styles.Label.Render(summaryLine(m.stats)) + "\n"
	}

	stats := m.tracker.Stats()
	if stats.Stage == StageComplete || m.finished[stats.Stage] {
		return ""
	}

	if stats.Stage == StageCollecting {
		return m.spinner.View() + " " + m.styles.Active.Render(stats.Line())
	}

	return m.renderBar(stats)
}

// renderBar renders the extraction line with a bar between label and counts.
func (m *progressModel) renderBar(stats ProgressStats) string {
	label, rest, _ := strings.Cut(stats.Line(), ": ")
	return fmt.Sprintf("%s %s %s",
		m.styles.Active.Render(label+":"),
		m.progressBar.ViewAs(stats.Progress),
		m.styles.Label.Render(rest))
}

// renderDone renders a finished stage line.
func (m *progressModel) renderDone(stats ProgressStats) string {
	return m.styles.Success.Render("✓ ") + stats.Line() + doneSuffix
}

// Ensure TUIRenderer implements Renderer
var _ Renderer = (*TUIRenderer)(nil)
