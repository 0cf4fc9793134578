package replay

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-planner/pkg/algorithms"
	"github.com/dd0wney/cluso-planner/pkg/graph"
	"github.com/dd0wney/cluso-planner/pkg/planner"
)

func exampleOracle(t *testing.T) *algorithms.DistanceOracle {
	t.Helper()
	g, err := graph.New([]graph.Node{
		{ID: "AA", Neighbors: []graph.NodeID{"DD", "II", "BB"}},
		{ID: "BB", Rate: 13, Neighbors: []graph.NodeID{"CC", "AA"}},
		{ID: "CC", Rate: 2, Neighbors: []graph.NodeID{"DD", "BB"}},
		{ID: "DD", Rate: 20, Neighbors: []graph.NodeID{"CC", "AA", "EE"}},
		{ID: "EE", Rate: 3, Neighbors: []graph.NodeID{"FF", "DD"}},
		{ID: "FF", Neighbors: []graph.NodeID{"EE", "GG"}},
		{ID: "GG", Neighbors: []graph.NodeID{"FF", "HH"}},
		{ID: "HH", Rate: 22, Neighbors: []graph.NodeID{"GG"}},
		{ID: "II", Neighbors: []graph.NodeID{"AA", "JJ"}},
		{ID: "JJ", Rate: 21, Neighbors: []graph.NodeID{"II"}},
	})
	require.NoError(t, err)
	return algorithms.NewDistanceOracle(g)
}

var singlePlan = planner.Plan{
	{Time: 2, Node: "DD"},
	{Time: 5, Node: "BB"},
	{Time: 9, Node: "JJ"},
	{Time: 17, Node: "HH"},
	{Time: 21, Node: "EE"},
	{Time: 24, Node: "CC"},
}

func TestBuild_SingleAgent(t *testing.T) {
	tl, err := Build(exampleOracle(t), 30, []graph.NodeID{"AA"}, singlePlan)
	require.NoError(t, err)

	assert.Equal(t, 1651, tl.Score)
	require.Len(t, tl.Steps, 6)

	wantTotals := []int{560, 885, 1326, 1612, 1639, 1651}
	for i, s := range tl.Steps {
		assert.Equal(t, wantTotals[i], s.Total, "step %d", i)
		assert.Zero(t, s.Wait, "step %d", i)
	}
	assert.Equal(t, 28*20, tl.Steps[0].Gain)
	assert.Equal(t, []graph.NodeID{"AA", "DD"}, tl.Steps[0].Route)
	assert.Equal(t, []graph.NodeID{"JJ", "II", "AA", "DD", "EE", "FF", "GG", "HH"}, tl.Steps[3].Route)
	assert.Equal(t, 81, tl.Steps[5].Flow)
	assert.Equal(t, tl.Graph.UsefulSet(), tl.Steps[5].Open)
}

func TestBuild_TwoAgents(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "two_agents.yaml"))
	require.NoError(t, err)
	defer f.Close()

	file, err := Read(f)
	require.NoError(t, err)

	tl, err := file.Verify(exampleOracle(t))
	require.NoError(t, err)
	assert.Equal(t, 1707, tl.Score)

	assert.Len(t, tl.AgentSteps(0), 3)
	assert.Len(t, tl.AgentSteps(1), 3)
	for _, s := range tl.AgentSteps(1) {
		assert.Equal(t, 1, s.Agent)
	}
}

func TestTimeline_At(t *testing.T) {
	tl, err := Build(exampleOracle(t), 30, []graph.NodeID{"AA"}, singlePlan)
	require.NoError(t, err)

	start := tl.At(0)
	assert.Zero(t, start.Released)
	assert.True(t, start.Open.Empty())

	snap := tl.At(5)
	assert.Equal(t, 33, snap.Flow)
	assert.Equal(t, 3*20, snap.Released)
	assert.Equal(t, 2, snap.Open.Len())

	assert.Equal(t, tl.Score, tl.At(30).Released)
	assert.Equal(t, tl.At(30), tl.At(99), "time is clamped to the budget")
	assert.Equal(t, tl.At(0), tl.At(-4))
}

func TestBuild_Invalid(t *testing.T) {
	oracle := exampleOracle(t)

	tests := []struct {
		name   string
		budget int
		starts []graph.NodeID
		plan   planner.Plan
		reason string
	}{
		{"no agents", 30, nil, nil, "0 agents"},
		{"unknown start", 30, []graph.NodeID{"ZZ"}, nil, "unknown start"},
		{"negative budget", -1, []graph.NodeID{"AA"}, nil, "negative budget"},
		{"out of order", 30, []graph.NodeID{"AA"}, planner.Plan{{Time: 5, Node: "BB"}, {Time: 2, Node: "DD"}}, "out of time order"},
		{"unknown agent", 30, []graph.NodeID{"AA"}, planner.Plan{{Time: 2, Agent: 1, Node: "DD"}}, "no such agent"},
		{"unknown node", 30, []graph.NodeID{"AA"}, planner.Plan{{Time: 2, Node: "ZZ"}}, "unknown node"},
		{"zero rate", 30, []graph.NodeID{"AA"}, planner.Plan{{Time: 2, Node: "II"}}, "zero rate"},
		{"twice", 30, []graph.NodeID{"AA", "AA"}, planner.Plan{{Time: 2, Node: "DD"}, {Time: 2, Agent: 1, Node: "DD"}}, "already activated"},
		{"past budget", 30, []graph.NodeID{"AA"}, planner.Plan{{Time: 31, Node: "DD"}}, "past the budget"},
		{"too early", 30, []graph.NodeID{"AA"}, planner.Plan{{Time: 2, Node: "DD"}, {Time: 3, Node: "BB"}}, "earliest possible time is 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(oracle, tt.budget, tt.starts, tt.plan)
			require.ErrorIs(t, err, ErrInvalidPlan)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestBuild_Unreachable(t *testing.T) {
	g, err := graph.New([]graph.Node{
		{ID: "A", Neighbors: []graph.NodeID{"B"}},
		{ID: "B", Rate: 1},
		{ID: "C", Rate: 5},
	})
	require.NoError(t, err)

	_, err = Build(algorithms.NewDistanceOracle(g), 10, []graph.NodeID{"A"}, planner.Plan{{Time: 4, Node: "C"}})
	require.ErrorIs(t, err, ErrInvalidPlan)
	assert.Contains(t, err.Error(), "unreachable from A")
}

func TestFile_RoundTripsSolverResult(t *testing.T) {
	oracle := exampleOracle(t)
	solver := planner.NewSolver(oracle.Graph(), planner.WithOracle(oracle))
	starts := []graph.NodeID{"AA", "AA"}

	result, err := solver.Solve(context.Background(), 26, starts...)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, NewFile(26, starts, result)))
	assert.Contains(t, buf.String(), "run_id: "+result.RunID)

	file, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, starts, file.Starts())
	assert.Equal(t, result.Plan, file.Plan())

	tl, err := file.Verify(oracle)
	require.NoError(t, err)
	assert.Equal(t, result.Score, tl.Score)
}

func TestFile_VerifyScoreMismatch(t *testing.T) {
	file := &File{Budget: 30, Agents: []string{"AA"}, Score: 1700}
	for _, a := range singlePlan {
		file.Actions = append(file.Actions, Record{Time: a.Time, Agent: a.Agent, Node: string(a.Node)})
	}

	tl, err := file.Verify(exampleOracle(t))
	require.ErrorIs(t, err, ErrInvalidPlan)
	assert.Contains(t, err.Error(), "recorded score 1700, replayed 1651")
	require.NotNil(t, tl)
}

func TestRead_RejectsUnknownKeys(t *testing.T) {
	_, err := Read(bytes.NewBufferString("budget: 30\nvalves: [AA]\n"))
	assert.Error(t, err)
}
