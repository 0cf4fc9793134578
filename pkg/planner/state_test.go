package planner

import (
	"strings"
	"testing"
)

// testSites is a site table: a zero-rate start followed by two targets.
var testSites = []site{
	{node: "S"},
	{node: "B", rate: 5, mask: 2},
	{node: "C", rate: 7, mask: 4},
}

func twoAgentState(time, budget int, a, b Agent) *State {
	s := newState(budget, []Agent{a, b})
	s.time = time
	return s
}

func TestNewState_TooManyAgents(t *testing.T) {
	expectPanic(t, "three agents", func() {
		newState(10, []Agent{StationAt(0, 0), StationAt(0, 0), StationAt(0, 0)})
	})
}

func TestState_AdvanceTime(t *testing.T) {
	s := twoAgentState(2, 10,
		StationAt(0, 0).MoveTo(1, 2, 4, 2),
		StationAt(0, 0).MoveTo(2, 4, 7, 2),
	)

	next := s.advanceTime()
	if next.Time() != 4 {
		t.Fatalf("Expected time 4, got %d", next.Time())
	}
	agents := next.Agents()
	if agents[0].Kind != Stationed || agents[0].Site != 1 {
		t.Errorf("Agent 0 should have arrived: %+v", agents[0])
	}
	if agents[1].Kind != Moving || agents[1].Arrival != 7 {
		t.Errorf("Agent 1 should still be moving: %+v", agents[1])
	}
	if s.Time() != 2 {
		t.Error("advanceTime modified its receiver")
	}

	idle := newState(10, []Agent{StationAt(0, 0)})
	if got := idle.advanceTime().Time(); got != 10 {
		t.Errorf("With nobody moving time should jump to the budget, got %d", got)
	}
}

func TestState_Activate(t *testing.T) {
	s := twoAgentState(3, 10, StationAt(1, 2), StationAt(0, 0).MoveTo(2, 4, 4, 3))

	next := s.activate(testSites)
	if next.Time() != 4 {
		t.Fatalf("Expected time 4, got %d", next.Time())
	}
	if !next.Activated().Has(2) {
		t.Error("Node B should be activated")
	}
	if next.Score() != (10-4)*5 {
		t.Errorf("Expected score %d, got %d", (10-4)*5, next.Score())
	}
	if next.Agents()[1].Kind != Stationed {
		t.Error("Agent 1 should have arrived during the activation step")
	}

	plan := next.Plan()
	if len(plan) != 1 || plan[0] != (Action{Time: 4, Agent: 0, Node: "B"}) {
		t.Errorf("Unexpected plan: %+v", plan)
	}
	if len(s.Plan()) != 0 {
		t.Error("Parent history changed")
	}
}

func TestState_ActivateTwicePanics(t *testing.T) {
	s := twoAgentState(0, 10, StationAt(1, 2), StationAt(1, 2))
	expectPanic(t, "double activation", func() { s.activate(testSites) })
}

func TestState_MustMove(t *testing.T) {
	tests := []struct {
		name  string
		state *State
		want  [2]bool
	}{
		{"both on openable nodes", twoAgentState(0, 10, StationAt(1, 2), StationAt(2, 4)), [2]bool{false, false}},
		{"sharing an openable node", twoAgentState(0, 10, StationAt(1, 2), StationAt(1, 2)), [2]bool{false, true}},
		{"on a zero-rate node", twoAgentState(0, 10, StationAt(0, 0), StationAt(2, 4)), [2]bool{true, false}},
		{"moving", twoAgentState(0, 10, StationAt(0, 0).MoveTo(1, 2, 3, 0), StationAt(0, 0)), [2]bool{false, true}},
		{"retired", twoAgentState(0, 10, Agent{Site: 0, Done: true}, StationAt(2, 4)), [2]bool{false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := range tt.want {
				if got := tt.state.mustMove(i); got != tt.want[i] {
					t.Errorf("mustMove(%d) = %v, want %v", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestState_Claimed(t *testing.T) {
	s := twoAgentState(0, 10, StationAt(1, 2), StationAt(0, 0).MoveTo(2, 4, 3, 0))
	s.activated = 8

	if got := s.claimed(0); got != 8|4 {
		t.Errorf("claimed(0) = %b, want %b", got, 8|4)
	}
	if got := s.claimed(1); got != 8|2 {
		t.Errorf("claimed(1) = %b, want %b", got, 8|2)
	}
}

func TestState_PendingScore(t *testing.T) {
	s := twoAgentState(2, 10, StationAt(0, 0).MoveTo(2, 4, 6, 2), StationAt(0, 0).MoveTo(1, 2, 9, 2))
	s.score = 11

	// C arrives at 6 and activates at 7: 3 steps at rate 7. B activates at
	// the budget and adds nothing.
	if got := s.pendingScore(testSites); got != 11+3*7 {
		t.Errorf("Expected %d, got %d", 11+3*7, got)
	}
}

func TestState_String(t *testing.T) {
	s := twoAgentState(1, 10, StationAt(1, 2), Agent{Done: true})
	got := s.String()
	for _, want := range []string{"t=1/10", "[0 @1]", "[1 done@0]"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, missing %q", got, want)
		}
	}
}
