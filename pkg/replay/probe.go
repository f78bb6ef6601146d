package replay

import "github.com/statemux/gated/pkg/middleware"

// #region probe

// Probe is the instrumented inner middleware replays drive: it counts its
// two phases and optionally echoes through the sink in each, so a run shows
// exactly which phases the gate admitted and which emissions got through.
type Probe struct {
	HandledCount  int
	DeferredCount int
	Echo          bool // emit <kind>.echo during the pre-reducer phase
	EchoDeferred  bool // emit <kind>.after during the deferred phase

	output middleware.Output[Action]
}

// ReceiveContext captures the output sink.
func (p *Probe) ReceiveContext(_ middleware.StateReader[AppState], output middleware.Output[Action]) {
	p.output = output
}

// Handle counts the pre-reducer phase and returns a continuation counting
// the deferred phase.
func (p *Probe) Handle(action Action, from middleware.ActionSource) middleware.AfterReducer {
	p.HandledCount++
	if p.Echo {
		p.output.Dispatch(Action{Kind: action.Kind + ".echo"}, from)
	}
	return func() {
		p.DeferredCount++
		if p.EchoDeferred {
			p.output.Dispatch(Action{Kind: action.Kind + ".after"}, from)
		}
	}
}

// #endregion probe
