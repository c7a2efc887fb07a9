// Package tui replays a completed evolution in the terminal: a scrolling
// population graph with a styled metrics panel, scrubbing, and variable
// playback speed.
package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/qpulse/internal/experiment"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

const historyWindow = 200

type Model struct {
	name   string
	result *experiment.Result
	state  int // highlighted product state index

	frame  int
	speed  int
	paused bool

	width  int
	height int
}

func NewModel(name string, result *experiment.Result, stateIndex int) *Model {
	return &Model{
		name:   name,
		result: result,
		state:  stateIndex,
		speed:  1,
		width:  80,
		height: 24,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "left", "h":
			m.frame -= 10 * m.speed
			if m.frame < 0 {
				m.frame = 0
			}
		case "right", "l":
			m.advance(10 * m.speed)
		case "+", "=":
			if m.speed < 64 {
				m.speed *= 2
			}
		case "-":
			if m.speed > 1 {
				m.speed /= 2
			}
		case "tab":
			if n := m.states(); n > 0 {
				m.state = (m.state + 1) % n
			}
		case "r":
			m.frame = 0
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if !m.paused {
			m.advance(m.speed)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) states() int {
	if len(m.result.Populations) == 0 {
		return 0
	}
	return len(m.result.Populations[0])
}

func (m *Model) advance(by int) {
	m.frame += by
	if last := len(m.result.Times) - 1; m.frame > last {
		m.frame = last
	}
}

func (m *Model) View() string {
	if len(m.result.Times) == 0 {
		return dim.Render("nothing recorded")
	}

	var b strings.Builder
	t := m.result.Times[m.frame]
	b.WriteString(cyan.Render(fmt.Sprintf("qpulse  %s", m.name)))
	b.WriteString(dim.Render(fmt.Sprintf("   t=%.3f  step %d/%d  speed %dx",
		t, m.frame+1, len(m.result.Times), m.speed)))
	if m.paused {
		b.WriteString(yellow.Render("  paused"))
	}
	b.WriteString("\n\n")

	start := m.frame - historyWindow
	if start < 0 {
		start = 0
	}
	series := make([]float64, 0, m.frame-start+1)
	for i := start; i <= m.frame; i++ {
		series = append(series, m.result.Populations[i][m.state])
	}
	graphWidth := m.width - 12
	if graphWidth < 20 {
		graphWidth = 20
	}
	if len(series) > 1 {
		b.WriteString(asciigraph.Plot(series,
			asciigraph.Height(10),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(fmt.Sprintf("population of |%d⟩", m.state)),
		))
	}
	b.WriteString("\n\n")

	pops := m.result.Populations[m.frame]
	for i, p := range pops {
		bar := strings.Repeat("█", int(p*30+0.5))
		label := fmt.Sprintf("|%d⟩ %.4f ", i, p)
		if i == m.state {
			b.WriteString(white.Render(label) + green.Render(bar))
		} else {
			b.WriteString(dim.Render(label + bar))
		}
		b.WriteString("\n")
	}

	if len(m.result.Metrics) > 0 {
		b.WriteString("\n")
		names := make([]string, 0, len(m.result.Metrics))
		for name := range m.result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			b.WriteString(dim.Render(fmt.Sprintf("%s=%.3g  ", name, m.result.Metrics[name])))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + dim.Render("space pause  ←/→ scrub  +/- speed  tab state  r restart  q quit"))
	return b.String()
}

// Run starts the replay UI and blocks until it exits.
func Run(name string, result *experiment.Result, stateIndex int) error {
	_, err := tea.NewProgram(NewModel(name, result, stateIndex), tea.WithAltScreen()).Run()
	return err
}
