package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/statemux/gated/pkg/gate"
	"github.com/statemux/gated/pkg/middleware"
)

// #region fixture-types

// Gating modes a fixture can exercise.
const (
	ModeByAction = "by_action"
	ModeByState  = "by_state"
)

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description  string        `json:"description"`
	Mode         string        `json:"mode"`
	InitialGate  gate.State    `json:"initial_gate"`
	Echo         bool          `json:"echo"`
	EchoDeferred bool          `json:"echo_deferred"`
	Steps        []FixtureStep `json:"steps"`
}

// FixtureStep pairs one action with its expected outcome.
type FixtureStep struct {
	Action Action        `json:"action"`
	Expect FixtureExpect `json:"expect"`
}

// FixtureExpect captures the expected per-step observations.
type FixtureExpect struct {
	Handled    bool `json:"handled"`
	Deferred   bool `json:"deferred"`
	Dispatched int  `json:"dispatched"`
}

// StepOutcome is one step's observed result checked against its expectation.
type StepOutcome struct {
	Index      int    `json:"index"`
	Kind       string `json:"kind"`
	Handled    bool   `json:"handled"`
	Deferred   bool   `json:"deferred"`
	Dispatched int    `json:"dispatched"`
	Pass       bool   `json:"pass"`
}

// #endregion fixture-types

// #region load

// Load reads and validates a fixture file.
func Load(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture: %w", err)
	}
	if f.Mode != ModeByAction && f.Mode != ModeByState {
		return Fixture{}, fmt.Errorf("fixture mode %q: want %q or %q", f.Mode, ModeByAction, ModeByState)
	}
	if len(f.Steps) == 0 {
		return Fixture{}, fmt.Errorf("fixture has no steps")
	}
	return f, nil
}

// #endregion load

// #region run

// gatedProbe builds the gated probe middleware the fixture describes.
func (f Fixture) gatedProbe(probe *Probe) middleware.Middleware[Action, Action, AppState] {
	if f.Mode == ModeByAction {
		return middleware.GatedByAction[Action, Action, AppState](probe, ControlOf, "on", "off", f.InitialGate)
	}
	return middleware.GatedByState[Action, Action](probe, GateOf)
}

// Run drives the fixture's steps through a gated probe and checks each
// outcome against its expectation.
func (f Fixture) Run() ([]StepOutcome, error) {
	if f.Mode != ModeByAction && f.Mode != ModeByState {
		return nil, fmt.Errorf("fixture mode %q", f.Mode)
	}

	probe := &Probe{Echo: f.Echo, EchoDeferred: f.EchoDeferred}
	h := NewHarness(f.gatedProbe(probe), Reduce, AppState{Gate: f.InitialGate})

	outcomes := make([]StepOutcome, 0, len(f.Steps))
	for i, step := range f.Steps {
		before := probe.HandledCount
		res := h.Step(step.Action, middleware.Source("fixture"))

		out := StepOutcome{
			Index:      i,
			Kind:       step.Action.Kind,
			Handled:    probe.HandledCount > before,
			Deferred:   res.Deferred,
			Dispatched: len(res.Dispatched),
		}
		out.Pass = out.Handled == step.Expect.Handled &&
			out.Deferred == step.Expect.Deferred &&
			out.Dispatched == step.Expect.Dispatched
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}

// Passed reports whether every step met its expectation.
func Passed(outcomes []StepOutcome) bool {
	for _, o := range outcomes {
		if !o.Pass {
			return false
		}
	}
	return true
}

// #endregion run
