package replay

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-planner/pkg/algorithms"
	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/dd0wney/cluso-planner/pkg/planner"
)

// File is the saved form of a solved plan.
type File struct {
	Graph   string   `yaml:"graph,omitempty"`
	RunID   string   `yaml:"run_id,omitempty"`
	Budget  int      `yaml:"budget"`
	Agents  []string `yaml:"agents"`
	Score   int      `yaml:"score"`
	Actions []Record `yaml:"actions"`
}

// Record is one action in a File.
type Record struct {
	Time  int    `yaml:"time"`
	Agent int    `yaml:"agent"`
	Node  string `yaml:"node"`
}

// NewFile captures a solver result.
func NewFile(budget int, starts []graph.NodeID, result *planner.Result) *File {
	f := &File{
		RunID:   result.RunID,
		Budget:  budget,
		Score:   result.Score,
		Agents:  make([]string, len(starts)),
		Actions: make([]Record, len(result.Plan)),
	}
	for i, s := range starts {
		f.Agents[i] = string(s)
	}
	for i, a := range result.Plan {
		f.Actions[i] = Record{Time: a.Time, Agent: a.Agent, Node: string(a.Node)}
	}
	return f
}

// Starts returns the agents' start nodes.
func (f *File) Starts() []graph.NodeID {
	out := make([]graph.NodeID, len(f.Agents))
	for i, a := range f.Agents {
		out[i] = graph.NodeID(a)
	}
	return out
}

// Plan returns the recorded actions.
func (f *File) Plan() planner.Plan {
	out := make(planner.Plan, len(f.Actions))
	for i, r := range f.Actions {
		out[i] = planner.Action{Time: r.Time, Agent: r.Agent, Node: graph.NodeID(r.Node)}
	}
	return out
}

// Verify replays the file and checks the recorded score.
func (f *File) Verify(oracle *algorithms.DistanceOracle) (*Timeline, error) {
	tl, err := Build(oracle, f.Budget, f.Starts(), f.Plan())
	if err != nil {
		return nil, err
	}
	if tl.Score != f.Score {
		return tl, fmt.Errorf("%w: recorded score %d, replayed %d", ErrInvalidPlan, f.Score, tl.Score)
	}
	return tl, nil
}

// Write encodes f as YAML.
func Write(w io.Writer, f *File) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return enc.Close()
}

// Read decodes a YAML plan file.
func Read(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	return &f, nil
}
