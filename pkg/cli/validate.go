package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-planner/pkg/algorithms"
	"github.com/dd0wney/cluso-planner/pkg/config"
	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/dd0wney/cluso-planner/pkg/loader"
)

// validateOptions holds options for the validate command.
type validateOptions struct {
	configPath string
	graph      string
	format     string
	agents     []string
}

func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a graph description and report its shape",
		Long: `Validate parses a graph description and reports its size, its
positive-rate nodes and any of them no agent can ever reach.

Examples:
  # Validate a graph
  planner validate -f valves.txt

  # Validate a run configuration and the graph it names
  planner validate -c run.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validate(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Path to a run configuration file")
	cmd.Flags().StringVarP(&opts.graph, "file", "f", "", "Graph description file")
	cmd.Flags().StringVar(&opts.format, "format", "", "Graph format: text or yaml (default: from the file extension)")
	cmd.Flags().StringArrayVarP(&opts.agents, "agent", "a", nil, "Start node to check reachability from (repeatable)")

	return cmd
}

func (a *App) validate(opts *validateOptions) error {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.LoadFile(opts.configPath)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		cfg = *loaded
		cfg.Graph = relativeTo(opts.configPath, cfg.Graph)
		fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	}
	if opts.graph != "" {
		cfg.Graph = opts.graph
	}
	if opts.format != "" {
		cfg.Format = opts.format
	}
	if len(opts.agents) > 0 {
		cfg.Agents = opts.agents
	}
	if cfg.Graph == "" {
		return ErrNoGraph
	}

	g, err := loader.New(nil, nil).LoadFile(cfg.Graph, loader.Format(cfg.Format))
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	edges := 0
	for _, id := range g.Nodes() {
		edges += len(g.Neighbors(id))
	}
	components := algorithms.ConnectedComponents(g)

	fmt.Fprintf(a.stdout, "✓ Graph is valid\n")
	fmt.Fprintf(a.stdout, "  Nodes: %d\n", g.Len())
	fmt.Fprintf(a.stdout, "  Tunnels: %d\n", edges/2)
	fmt.Fprintf(a.stdout, "  Components: %d\n", len(components.Components))
	fmt.Fprintf(a.stdout, "  Useful nodes: %d (total rate %d)\n", len(g.Useful()), g.TotalRate(g.UsefulSet()))
	for _, id := range g.Useful() {
		fmt.Fprintf(a.stdout, "    - %s (rate %d)\n", id, g.Rate(id))
	}

	starts := cfg.Starts()
	for _, s := range starts {
		if !g.Has(s) {
			return fmt.Errorf("validation failed: start %s is not a node of the graph", s)
		}
	}
	if unreachable := components.Unreachable(g, starts...); len(unreachable) > 0 {
		fmt.Fprintf(a.stdout, "  Unreachable from %s: %s\n", joinIDs(starts), joinIDs(unreachable))
	}
	return nil
}

func joinIDs(ids []graph.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}
