package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/dd0wney/cluso-planner/pkg/replay"
)

func stepRows(tl *replay.Timeline) [][]string {
	rows := make([][]string, len(tl.Steps))
	for i, s := range tl.Steps {
		rows[i] = []string{
			strconv.Itoa(s.Time),
			strconv.Itoa(s.Agent),
			string(s.Node),
			strconv.Itoa(s.Rate),
			strconv.Itoa(s.Wait),
			strconv.Itoa(s.Gain),
			strconv.Itoa(s.Total),
			formatRoute(s),
		}
	}
	return rows
}

func formatRoute(s replay.Step) string {
	parts := make([]string, len(s.Route))
	for i, id := range s.Route {
		parts[i] = string(id)
	}
	return strings.Join(parts, " -> ")
}

// Render writes tl as a bordered table followed by a score line. Plans with
// more than one agent also get a line per agent.
func Render(w io.Writer, tl *replay.Timeline) error {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("TIME", "AGENT", "NODE", "RATE", "WAIT", "GAIN", "TOTAL", "ROUTE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, row := range stepRows(tl) {
		t.Row(row...)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	if len(tl.Starts) > 1 {
		for agent, start := range tl.Starts {
			if _, err := fmt.Fprintln(w, agentSummary(tl, agent, start)); err != nil {
				return err
			}
		}
	}
	snap := tl.At(tl.Budget)
	_, err := fmt.Fprintf(w, "%s  activations %d  open %s\n",
		successStyle.Render(fmt.Sprintf("score %d", tl.Score)),
		len(tl.Steps),
		snap.Open.Format(tl.Graph))
	return err
}

func agentSummary(tl *replay.Timeline, agent int, start graph.NodeID) string {
	steps := tl.AgentSteps(agent)
	gain := 0
	nodes := make([]string, len(steps))
	for i, s := range steps {
		gain += s.Gain
		nodes[i] = string(s.Node)
	}
	visited := "-"
	if len(nodes) > 0 {
		visited = strings.Join(nodes, ",")
	}
	return fmt.Sprintf("%s  from %s  gain %d  opens %s",
		labelStyle.Render(fmt.Sprintf("agent %d", agent)), start, gain, visited)
}
