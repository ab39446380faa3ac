// Package ui renders the live plot as a Bubble Tea TUI.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jlazear/pyoscope/internal/oscope"
)

const defaultFrameInterval = 250 * time.Millisecond

// Options configure the viewer.
type Options struct {
	Session    *oscope.Session
	FrameEvery time.Duration
	ThemeName  string

	// X selects the x-axis column; empty plots against the row index.
	X string
	// Ys selects the series columns; empty plots every column except X.
	Ys []string
	// Window limits each series to its last N points; zero keeps all.
	Window int
	// Legend shows column-name labels under the chart.
	Legend bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	session    *oscope.Session
	frameEvery time.Duration

	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool

	x      string
	ys     []string
	window int
	legend bool

	plot     oscope.Plot
	plotErr  error
	paused   bool
	showHelp bool
}

// New creates the viewer model.
func New(opts Options) Model {
	frameEvery := opts.FrameEvery
	if frameEvery <= 0 {
		frameEvery = defaultFrameInterval
	}
	return Model{
		session:    opts.Session,
		frameEvery: frameEvery,
		theme:      GetTheme(opts.ThemeName),
		keys:       DefaultKeyMap(),
		help:       help.New(),
		x:          opts.X,
		ys:         opts.Ys,
		window:     opts.Window,
		legend:     opts.Legend,
	}
}

type frameMsg time.Time

func frameCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.EnterAltScreen, frameCmd(m.frameEvery))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case frameMsg:
		if !m.paused {
			m.refreshPlot()
		}
		return m, frameCmd(m.frameEvery)
	}
	return m, nil
}

// refreshPlot pulls a fresh consistent selection from the session.
func (m *Model) refreshPlot() {
	columns := m.session.Columns()
	if len(columns) == 0 {
		// No schema yet; keep showing the waiting state.
		m.plot = oscope.Plot{}
		m.plotErr = nil
		return
	}
	ys := m.ys
	if len(ys) == 0 {
		for _, name := range columns {
			if name != m.x {
				ys = append(ys, name)
			}
		}
	}
	plot, err := m.session.Series(m.x, ys, m.window)
	if err != nil {
		m.plotErr = err
		return
	}
	m.plot = plot
	m.plotErr = nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Legend):
		m.legend = !m.legend

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))

	case key.Matches(msg, m.keys.GrowWindow):
		if m.window > 0 {
			m.window *= 2
		}

	case key.Matches(msg, m.keys.ShrinkWindow):
		switch {
		case m.window == 0:
			m.window = 512
		case m.window > 16:
			m.window /= 2
		}

	case key.Matches(msg, m.keys.FullHistory):
		m.window = 0
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.help.FullHelpView(m.keys.FullHelp())
	}

	header := m.renderHeader()
	footer := m.renderStatus()

	chartHeight := m.height - 2 // header + footer
	if m.legend {
		chartHeight--
	}
	body := renderChart(m.plot, m.width, chartHeight, m.theme)

	out := header + "\n" + body
	if m.legend {
		out += "\n" + renderLegend(m.plot, m.theme)
	}
	return out + "\n" + footer
}

// Run starts the Bubble Tea program and blocks until quit.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
