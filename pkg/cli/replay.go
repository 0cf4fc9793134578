package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-planner/pkg/algorithms"
	"github.com/dd0wney/cluso-planner/pkg/loader"
	"github.com/dd0wney/cluso-planner/pkg/replay"
	"github.com/dd0wney/cluso-planner/pkg/tui"
)

// replayOptions holds options for the replay command.
type replayOptions struct {
	planPath    string
	graph       string
	format      string
	interactive bool
	logLevel    string
}

func (a *App) newReplayCmd() *cobra.Command {
	opts := &replayOptions{}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Verify a saved plan and show it step by step",
		Long: `Replay re-checks a plan written by "solve --save" against its graph and
prints every activation with its route, gain and running total.

Examples:
  # Print the plan as a table
  planner replay -p plan.yaml

  # Step through it interactively
  planner replay -p plan.yaml --tui`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := a.loadTimeline(opts)
			if err != nil {
				return err
			}
			if opts.interactive {
				return tui.Run(tl, tea.WithInput(a.stdin), tea.WithOutput(a.stdout), tea.WithContext(cmd.Context()))
			}
			return tui.Render(a.stdout, tl)
		},
	}

	cmd.Flags().StringVarP(&opts.planPath, "plan", "p", "", "Plan file written by solve --save")
	cmd.Flags().StringVarP(&opts.graph, "file", "f", "", "Graph description file (default: the graph recorded in the plan)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Graph format: text or yaml (default: from the file extension)")
	cmd.Flags().BoolVar(&opts.interactive, "tui", false, "Step through the plan interactively")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	_ = cmd.MarkFlagRequired("plan")

	return cmd
}

func (a *App) loadTimeline(opts *replayOptions) (*replay.Timeline, error) {
	f, err := os.Open(opts.planPath)
	if err != nil {
		return nil, fmt.Errorf("open plan file: %w", err)
	}
	defer f.Close()

	file, err := replay.Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.planPath, err)
	}

	graphPath := opts.graph
	if graphPath == "" {
		if file.Graph == "" {
			return nil, ErrNoGraph
		}
		graphPath = file.Graph
		if _, err := os.Stat(graphPath); err != nil {
			graphPath = relativeTo(opts.planPath, graphPath)
		}
	}

	g, err := loader.New(a.newLogger(opts.logLevel), nil).LoadFile(graphPath, loader.Format(opts.format))
	if err != nil {
		return nil, err
	}
	return file.Verify(algorithms.NewDistanceOracle(g))
}
