package gate

import (
	"encoding/json"
	"testing"
)

// testAction carries an optional control payload for by-action tests.
type testAction struct {
	name    string
	control string // "" means not a control action
}

type testState struct {
	mode State
}

func controlOf(a testAction) (string, bool) {
	return a.control, a.control != ""
}

func newTestGate(initial State) *ByAction[testAction, testAction, testState, string] {
	return NewByAction[testAction, testAction, testState, string](controlOf, "on", "off", initial)
}

func TestStateRoundTrip(t *testing.T) {
	for _, s := range []State{Active, Bypass} {
		parsed, err := ParseState(s.String())
		if err != nil {
			t.Fatalf("parse %q: %v", s.String(), err)
		}
		if parsed != s {
			t.Fatalf("round trip %v: got %v", s, parsed)
		}
	}
}

func TestStateParseUnknown(t *testing.T) {
	if _, err := ParseState("open"); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}

func TestStateJSONRoundTrip(t *testing.T) {
	b, err := json.Marshal(Bypass)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"bypass"` {
		t.Fatalf("expected \"bypass\", got %s", b)
	}
	var s State
	if err := json.Unmarshal(b, &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s != Bypass {
		t.Fatalf("expected Bypass, got %v", s)
	}
}

func TestByActionInitialValue(t *testing.T) {
	g := newTestGate(Active)
	if !g.ShouldHandle(testAction{name: "tick"}, testState{}) {
		t.Fatal("active gate should forward non-control action")
	}

	g = newTestGate(Bypass)
	if g.ShouldHandle(testAction{name: "tick"}, testState{}) {
		t.Fatal("bypassed gate should suppress non-control action")
	}
}

func TestByActionControlAlwaysForwarded(t *testing.T) {
	g := newTestGate(Bypass)

	// Even while bypassed, every control action is forwarded — including one
	// whose payload matches neither sentinel.
	for _, control := range []string{"off", "toggle", "on", "off"} {
		if !g.ShouldHandle(testAction{name: "ctl", control: control}, testState{}) {
			t.Fatalf("control action %q not forwarded", control)
		}
	}
}

func TestByActionToggleSequence(t *testing.T) {
	g := newTestGate(Active)

	if g.Current() != Active {
		t.Fatalf("expected initial active, got %v", g.Current())
	}

	g.ShouldHandle(testAction{name: "ctl", control: "off"}, testState{})
	if g.Current() != Bypass {
		t.Fatalf("expected bypass after turn-off, got %v", g.Current())
	}
	if g.ShouldHandle(testAction{name: "tick"}, testState{}) {
		t.Fatal("non-control action forwarded while bypassed")
	}
	if g.ShouldDispatch(testAction{name: "out"}, testState{}) {
		t.Fatal("dispatch permitted while bypassed")
	}

	g.ShouldHandle(testAction{name: "ctl", control: "on"}, testState{})
	if g.Current() != Active {
		t.Fatalf("expected active after turn-on, got %v", g.Current())
	}
	if !g.ShouldHandle(testAction{name: "tick"}, testState{}) {
		t.Fatal("non-control action suppressed while active")
	}
	if !g.ShouldDispatch(testAction{name: "out"}, testState{}) {
		t.Fatal("dispatch suppressed while active")
	}
}

func TestByActionUnmatchedControlLeavesGateUnchanged(t *testing.T) {
	g := newTestGate(Bypass)
	g.ShouldHandle(testAction{name: "ctl", control: "toggle"}, testState{})
	if g.Current() != Bypass {
		t.Fatalf("unmatched control payload mutated gate to %v", g.Current())
	}
}

func TestByActionTieBreakTurnOnWins(t *testing.T) {
	// Malformed configuration: both sentinels are the same value. The
	// turn-on comparison happens first, so the gate ends up active.
	g := NewByAction[testAction, testAction, testState, string](controlOf, "x", "x", Bypass)
	g.ShouldHandle(testAction{name: "ctl", control: "x"}, testState{})
	if g.Current() != Active {
		t.Fatalf("expected turn-on to win tie-break, got %v", g.Current())
	}
}

func TestByActionDispatchReflectsMutationInSameAction(t *testing.T) {
	g := newTestGate(Active)
	g.ShouldHandle(testAction{name: "ctl", control: "off"}, testState{})
	// The dispatch decision sees the value mutated moments ago.
	if g.ShouldDispatch(testAction{name: "out"}, testState{}) {
		t.Fatal("dispatch should reflect the just-applied turn-off")
	}
}

func TestByActionMostRecentControlWins(t *testing.T) {
	g := newTestGate(Bypass)
	seq := []string{"on", "off", "toggle", "on"}
	for _, c := range seq {
		g.ShouldHandle(testAction{name: "ctl", control: c}, testState{})
	}
	if g.Current() != Active {
		t.Fatalf("expected active after sequence %v, got %v", seq, g.Current())
	}
}

func TestByStateFollowsProjection(t *testing.T) {
	g := NewByState[testAction, testAction, testState](func(s testState) State { return s.mode })

	if !g.ShouldHandle(testAction{name: "tick"}, testState{mode: Active}) {
		t.Fatal("active projection should forward")
	}
	if g.ShouldHandle(testAction{name: "tick"}, testState{mode: Bypass}) {
		t.Fatal("bypass projection should suppress")
	}
	if !g.ShouldDispatch(testAction{name: "out"}, testState{mode: Active}) {
		t.Fatal("active projection should permit dispatch")
	}
	if g.ShouldDispatch(testAction{name: "out"}, testState{mode: Bypass}) {
		t.Fatal("bypass projection should drop dispatch")
	}
}

func TestByStateIgnoresControlActions(t *testing.T) {
	// The by-state strategy never treats any action as special.
	g := NewByState[testAction, testAction, testState](func(s testState) State { return s.mode })
	if g.ShouldHandle(testAction{name: "ctl", control: "on"}, testState{mode: Bypass}) {
		t.Fatal("by-state gate forwarded an action while projection says bypass")
	}
}
