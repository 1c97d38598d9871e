package panel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aelexs/atomic-clock/internal/domain"
)

// ModelConfig holds the dependencies of the TUI model.
type ModelConfig struct {
	Source   Source
	Timer    domain.HighResTimer
	Location *time.Location
	Renderer *Renderer
	Interval time.Duration // redraw cadence; defaults to domain.FrameInterval
}

// Model is the bubbletea model that redraws the panel once per frame.
type Model struct {
	source   Source
	timer    domain.HighResTimer
	loc      *time.Location
	renderer *Renderer
	interval time.Duration

	frame    Frame
	quitting bool
}

// frameMsg triggers a redraw.
type frameMsg time.Time

// NewModel creates the TUI model and captures an initial frame.
func NewModel(cfg ModelConfig) Model {
	if cfg.Interval <= 0 {
		cfg.Interval = domain.FrameInterval
	}
	m := Model{
		source:   cfg.Source,
		timer:    cfg.Timer,
		loc:      cfg.Location,
		renderer: cfg.Renderer,
		interval: cfg.Interval,
	}
	m.frame = Capture(m.source, m.timer, m.loc)
	return m
}

// Init schedules the first redraw.
//
//nolint:gocritic // bubbletea models must be passed by value
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Update handles messages.
//
//nolint:gocritic // bubbletea models must be passed by value
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.renderer.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case frameMsg:
		m.frame = Capture(m.source, m.timer, m.loc)
		return m, m.tick()
	}

	return m, nil
}

// View renders the UI.
//
//nolint:gocritic // bubbletea models must be passed by value
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderer.Render(m.frame)
}

// Frame returns the most recently captured frame.
//
//nolint:gocritic // bubbletea models must be passed by value
func (m Model) Frame() Frame {
	return m.frame
}

// RunTUI runs the full-screen program until the user quits or ctx is
// cancelled. Both end the program without error.
func RunTUI(ctx context.Context, m Model, in io.Reader, out io.Writer) error {
	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}

	_, err := tea.NewProgram(m, opts...).Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
