package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-planner/pkg/config"
	"github.com/dd0wney/cluso-planner/pkg/loader"
	"github.com/dd0wney/cluso-planner/pkg/logging"
	"github.com/dd0wney/cluso-planner/pkg/metrics"
	"github.com/dd0wney/cluso-planner/pkg/planner"
	"github.com/dd0wney/cluso-planner/pkg/replay"
	"github.com/dd0wney/cluso-planner/pkg/tui"
)

// ErrNoGraph is returned when neither a flag nor the config names a graph file.
var ErrNoGraph = errors.New("graph file is required (-f flag or graph: in the config)")

// solveOptions holds options for the solve command.
type solveOptions struct {
	configPath  string
	graph       string
	format      string
	budget      int
	agents      []string
	targets     []string
	strategy    string
	workers     int
	maxStates   int
	timeout     time.Duration
	logLevel    string
	showPlan    bool
	savePath    string
	showMetrics bool
}

func (a *App) newSolveCmd() *cobra.Command {
	opts := &solveOptions{}

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Find the best activation plan for a graph",
		Long: `Solve reads a graph description and prints the best achievable score.

Examples:
  # One agent starting at AA with 30 steps
  planner solve -f valves.txt

  # Two agents sharing AA with 26 steps, showing the plan
  planner solve -f valves.txt -t 26 -a AA -a AA --plan

  # Run settings from a config file, saving the plan for replay
  planner solve -c run.yaml --save plan.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return a.solve(cmd.Context(), cfg, opts)
		},
	}

	def := config.Default()
	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to a run configuration file")
	flags.StringVarP(&opts.graph, "file", "f", "", "Graph description file")
	flags.StringVar(&opts.format, "format", "", "Graph format: text or yaml (default: from the file extension)")
	flags.IntVarP(&opts.budget, "time", "t", def.Budget, "Time budget in steps")
	flags.StringArrayVarP(&opts.agents, "agent", "a", def.Agents, "Start node of an agent (repeat for a second agent)")
	flags.StringSliceVar(&opts.targets, "targets", nil, "Only consider activating these nodes")
	flags.StringVar(&opts.strategy, "strategy", def.Strategy, "Search strategy: auto, joint or decompose")
	flags.IntVar(&opts.workers, "workers", def.Workers, "Decomposition workers (0 = one per CPU)")
	flags.IntVar(&opts.maxStates, "max-states", def.MaxStates, "Stop after exploring this many states (0 = unlimited)")
	flags.DurationVar(&opts.timeout, "timeout", def.Timeout, "Give up after this long and report the best plan so far")
	flags.StringVar(&opts.logLevel, "log-level", def.LogLevel, "Log level: debug, info, warn or error")
	flags.BoolVar(&opts.showPlan, "plan", false, "Print the activation plan")
	flags.StringVar(&opts.savePath, "save", "", "Write the plan to this file for later replay")
	flags.BoolVar(&opts.showMetrics, "metrics", false, "Print search metrics in Prometheus text format")

	return cmd
}

// resolve merges the config file, if any, with the flags the user set.
func (o *solveOptions) resolve(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.LoadFile(o.configPath)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
		cfg.Graph = relativeTo(o.configPath, cfg.Graph)
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Graph = o.graph
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if flags.Changed("time") {
		cfg.Budget = o.budget
	}
	if flags.Changed("agent") {
		cfg.Agents = o.agents
	}
	if flags.Changed("targets") {
		cfg.Targets = o.targets
	}
	if flags.Changed("strategy") {
		cfg.Strategy = o.strategy
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("max-states") {
		cfg.MaxStates = o.maxStates
	}
	if flags.Changed("timeout") {
		cfg.Timeout = o.timeout
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Graph == "" {
		return nil, ErrNoGraph
	}
	return &cfg, nil
}

func (a *App) solve(ctx context.Context, cfg *config.Config, opts *solveOptions) error {
	logger := a.newLogger(cfg.LogLevel)
	reg := metrics.NewRegistry()

	g, err := loader.New(logger, reg).LoadFile(cfg.Graph, loader.Format(cfg.Format))
	if err != nil {
		return err
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	solver := planner.NewSolver(g, append(cfg.SolverOptions(logger), planner.WithMetrics(reg))...)
	starts := cfg.Starts()

	result, solveErr := solver.Solve(ctx, cfg.Budget, starts...)
	if result == nil {
		return solveErr
	}

	fmt.Fprintln(a.stdout, result.Score)
	if solveErr != nil || result.Stats.Truncated {
		fmt.Fprintf(a.stderr, "warning: search stopped early after %d states; the score is a lower bound\n", result.Stats.Explored)
	}

	if opts.showPlan {
		tl, err := replay.Build(solver.Oracle(), cfg.Budget, starts, result.Plan)
		if err != nil {
			return err
		}
		if result.Strategy == planner.StrategyDecompose {
			fmt.Fprintf(a.stdout, "split: %s | %s\n", result.Split[0].Format(g), result.Split[1].Format(g))
		}
		if err := tui.Render(a.stdout, tl); err != nil {
			return err
		}
	}

	if opts.savePath != "" {
		file := replay.NewFile(cfg.Budget, starts, result)
		file.Graph = cfg.Graph
		if err := writePlanFile(opts.savePath, file); err != nil {
			return err
		}
		logger.Info("plan saved", logging.File(opts.savePath), logging.RunID(result.RunID))
	}

	if opts.showMetrics {
		if err := reg.WriteText(a.stdout); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if solveErr != nil {
		return fmt.Errorf("search interrupted: %w", solveErr)
	}
	return nil
}

// relativeTo resolves a relative path named inside the file at base against
// base's directory.
func relativeTo(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(base), path)
}

func writePlanFile(path string, file *replay.File) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plan file: %w", err)
	}
	if err := replay.Write(f, file); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (a *App) newLogger(level string) logging.Logger {
	return logging.NewJSONLogger(a.stderr, logging.ParseLevel(level))
}
