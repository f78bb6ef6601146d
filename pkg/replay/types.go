package replay

import (
	"encoding/json"

	"github.com/statemux/gated/pkg/gate"
)

// #region action

// Action is the concrete action model used by fixtures and the replay
// tooling. Control carries the optional gate-toggling payload; "on" and
// "off" are the sentinels, any other non-empty value is a control action
// that matches neither.
type Action struct {
	Kind    string          `json:"kind"`
	Control string          `json:"control,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ControlOf is the control-action mapping for Action.
func ControlOf(a Action) (string, bool) {
	return a.Control, a.Control != ""
}

// #endregion action

// #region app-state

// AppState is the application state driven by replays: the reducer folds
// control actions into the Gate field, which the by-state strategy projects.
type AppState struct {
	Gate    gate.State `json:"gate"`
	Handled int        `json:"handled"`
}

// GateOf projects the gate value out of the application state.
func GateOf(s AppState) gate.State {
	return s.Gate
}

// Reduce is the reducer used by replays: control actions flip the gate
// field, every action bumps the handled counter.
func Reduce(s AppState, a Action) AppState {
	switch a.Control {
	case "on":
		s.Gate = gate.Active
	case "off":
		s.Gate = gate.Bypass
	}
	s.Handled++
	return s
}

// #endregion app-state
