// Package tui renders replay timelines: an interactive bubbletea viewer that
// steps through a plan minute by minute, and a static table for plain output.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-planner/pkg/replay"
)

// DefaultInterval is the playback speed, one simulated minute per tick.
const DefaultInterval = 400 * time.Millisecond

type tickMsg time.Time

// Model is the bubbletea model of the replay viewer.
type Model struct {
	timeline *replay.Timeline
	table    table.Model
	help     help.Model
	keys     keyMap
	minute   int
	playing  bool
	interval time.Duration
	width    int
	height   int
}

// New builds a viewer positioned at minute 0.
func New(tl *replay.Timeline) Model {
	columns := []table.Column{
		{Title: "Time", Width: 5},
		{Title: "Agent", Width: 6},
		{Title: "Node", Width: 8},
		{Title: "Rate", Width: 6},
		{Title: "Wait", Width: 5},
		{Title: "Gain", Width: 7},
		{Title: "Total", Width: 7},
		{Title: "Route", Width: 40},
	}

	var rows []table.Row
	for _, r := range stepRows(tl) {
		rows = append(rows, table.Row(r))
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return Model{
		timeline: tl,
		table:    t,
		help:     help.New(),
		keys:     keys,
		interval: DefaultInterval,
	}
}

// WithInterval returns a copy of m that plays back at the given speed.
func (m Model) WithInterval(d time.Duration) Model {
	if d > 0 {
		m.interval = d
	}
	return m
}

// Minute returns the minute currently displayed.
func (m Model) Minute() int { return m.minute }

// Playing reports whether playback is running.
func (m Model) Playing() bool { return m.playing }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(5, msg.Height-16))
		return m, nil

	case tickMsg:
		if !m.playing {
			return m, nil
		}
		if m.minute >= m.timeline.Budget {
			m.playing = false
			return m, nil
		}
		m.seek(m.minute + 1)
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Forward):
			m.seek(m.minute + 1)
		case key.Matches(msg, m.keys.Back):
			m.seek(m.minute - 1)
		case key.Matches(msg, m.keys.Next):
			m.seek(m.nextActivation())
		case key.Matches(msg, m.keys.Prev):
			m.seek(m.prevActivation())
		case key.Matches(msg, m.keys.Start):
			m.seek(0)
		case key.Matches(msg, m.keys.End):
			m.seek(m.timeline.Budget)
		case key.Matches(msg, m.keys.Play):
			m.playing = !m.playing
			if m.playing {
				if m.minute >= m.timeline.Budget {
					m.seek(0)
				}
				return m, m.tick()
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// seek moves to minute t, clamped to the budget, and selects the latest
// activation at or before it.
func (m *Model) seek(t int) {
	m.minute = min(max(t, 0), m.timeline.Budget)
	if len(m.timeline.Steps) == 0 {
		return
	}

	cursor := 0
	for i, s := range m.timeline.Steps {
		if s.Time > m.minute {
			break
		}
		cursor = i
	}
	m.table.SetCursor(cursor)
}

func (m Model) nextActivation() int {
	for _, s := range m.timeline.Steps {
		if s.Time > m.minute {
			return s.Time
		}
	}
	return m.timeline.Budget
}

func (m Model) prevActivation() int {
	prev := 0
	for _, s := range m.timeline.Steps {
		if s.Time >= m.minute {
			break
		}
		prev = s.Time
	}
	return prev
}

func (m Model) View() string {
	var b strings.Builder
	tl := m.timeline
	snap := tl.At(m.minute)

	starts := make([]string, len(tl.Starts))
	for i, id := range tl.Starts {
		starts[i] = string(id)
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Plan replay  budget %d  agents %s", tl.Budget, strings.Join(starts, ","))))
	b.WriteString("\n\n")

	state := "paused"
	if m.playing {
		state = "playing"
	}
	stats := []string{
		fmt.Sprintf("%s %d/%d (%s)", labelStyle.Render("Minute:"), snap.Time, tl.Budget, state),
		fmt.Sprintf("%s %d/min", labelStyle.Render("Flow:"), snap.Flow),
		fmt.Sprintf("%s %d of %d", labelStyle.Render("Released:"), snap.Released, tl.Score),
		fmt.Sprintf("%s %s", labelStyle.Render("Nodes:"), m.nodeStrip(snap)),
	}
	b.WriteString(statsBoxStyle.Render(strings.Join(stats, "\n")))
	b.WriteString("\n\n")

	if len(tl.Steps) == 0 {
		b.WriteString(errorStyle.Render("  no activations in this plan"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}
	if m.minute == tl.Budget {
		b.WriteString(successStyle.Render(fmt.Sprintf("  done: %d released", tl.Score)))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) nodeStrip(snap replay.Snapshot) string {
	g := m.timeline.Graph
	var parts []string
	for _, id := range g.Useful() {
		if snap.Open.Has(g.Bit(id)) {
			parts = append(parts, openStyle.Render(string(id)))
		} else {
			parts = append(parts, closedStyle.Render(string(id)))
		}
	}
	return strings.Join(parts, " ")
}

// Run starts an interactive viewer for tl and blocks until the user quits.
func Run(tl *replay.Timeline, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(tl), opts...).Run()
	return err
}
