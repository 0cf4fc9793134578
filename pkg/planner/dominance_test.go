package planner

import "testing"

func TestKeyOf_IgnoresSlotOrder(t *testing.T) {
	moving := StationAt(0, 0).MoveTo(2, 4, 6, 3)
	a := twoAgentState(3, 10, StationAt(1, 2), moving)
	b := twoAgentState(3, 10, moving, StationAt(1, 2))

	if keyOf(a) != keyOf(b) {
		t.Errorf("Swapped agents produced different keys:\n%+v\n%+v", keyOf(a), keyOf(b))
	}
}

func TestKeyOf_Fields(t *testing.T) {
	moving := twoAgentState(3, 10,
		StationAt(0, 0).MoveTo(2, 4, 6, 3),
		Agent{Site: 1, Mask: 2, Done: true},
	)
	key := keyOf(moving)

	if key.set != 4 {
		t.Errorf("Travel target should join the prospective set, got %b", key.set)
	}
	if key.time != -1 {
		t.Errorf("Time should be dropped when no agent is ready, got %d", key.time)
	}
	retired := Agent{Site: 0, Done: true}
	other := twoAgentState(3, 10, StationAt(0, 0).MoveTo(2, 4, 6, 3), retired)
	if keyOf(other) != key {
		t.Error("Retired agents should compare equal regardless of site")
	}

	ready := twoAgentState(3, 10, StationAt(1, 2), retired)
	if keyOf(ready).time != 3 {
		t.Errorf("Expected time 3 with a ready agent, got %d", keyOf(ready).time)
	}
}

func TestDominanceTable_Admit(t *testing.T) {
	table := NewDominanceTable()
	base := twoAgentState(2, 10, StationAt(0, 0).MoveTo(1, 2, 4, 2), StationAt(0, 0).MoveTo(2, 4, 6, 2))

	if !table.admit(base, testSites) {
		t.Fatal("First state should be admitted")
	}
	if table.admit(base, testSites) {
		t.Error("Equal guaranteed score should be pruned")
	}

	better := *base
	better.score = 1
	if !table.admit(&better, testSites) {
		t.Error("Higher guaranteed score should be admitted")
	}

	// Already activated B plus a move to C is the same prospective set, but
	// the agent configuration differs.
	other := twoAgentState(2, 10, StationAt(0, 0).MoveTo(2, 4, 6, 2), Agent{Done: true})
	other.activated = 2
	if !table.admit(other, testSites) {
		t.Error("Different agent configuration should be admitted")
	}

	if table.Len() != 2 {
		t.Errorf("Expected 2 keys, got %d", table.Len())
	}
}
