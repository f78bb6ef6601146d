package middleware

import (
	"testing"

	"github.com/statemux/gated/pkg/gate"
)

// probeHandler is a Handler that counts invocations and returns an effect
// emitting one result action.
type probeHandler struct {
	handled  int
	executed int
	silent   bool // return a nil effect
}

func (p *probeHandler) Handle(action probeAction, from ActionSource, _ StateReader[probeState]) Effect[probeAction] {
	p.handled++
	if p.silent {
		return nil
	}
	return func(output Output[probeAction]) {
		p.executed++
		output.Dispatch(probeAction{kind: action.kind + ".result"}, from)
	}
}

// collect runs an effect against a sink that gathers dispatched actions.
func collect(effect Effect[probeAction]) []probeAction {
	var got []probeAction
	if effect == nil {
		return got
	}
	effect(OutputFunc[probeAction](func(a probeAction, _ ActionSource) {
		got = append(got, a)
	}))
	return got
}

func TestHandlerBypassedReturnsInertEffect(t *testing.T) {
	p := &probeHandler{}
	m := HandlerByAction[probeAction, probeAction, probeState](p, controlOf, "on", "off", gate.Bypass)

	state := probeState{}
	effect := m.Handle(probeAction{kind: "tick"}, Source("test"), func() probeState { return state })
	if effect != nil {
		t.Fatal("expected nil effect while bypassed")
	}
	if p.handled != 0 {
		t.Fatal("inner handler must not run while bypassed")
	}
}

func TestHandlerActiveDispatches(t *testing.T) {
	p := &probeHandler{}
	m := HandlerByAction[probeAction, probeAction, probeState](p, controlOf, "on", "off", gate.Active)

	state := probeState{}
	effect := m.Handle(probeAction{kind: "tick"}, Source("test"), func() probeState { return state })
	got := collect(effect)
	if len(got) != 1 || got[0].kind != "tick.result" {
		t.Fatalf("expected one result dispatch, got %v", got)
	}
	if p.executed != 1 {
		t.Fatalf("expected inner effect to run once, got %d", p.executed)
	}
}

func TestHandlerReValidatesAtExecutionTime(t *testing.T) {
	p := &probeHandler{}
	m := HandlerByState[probeAction, probeAction](p, func(s probeState) gate.State { return s.mode })

	state := probeState{mode: gate.Active}
	getState := func() probeState { return state }

	effect := m.Handle(probeAction{kind: "tick"}, Source("test"), getState)
	if effect == nil {
		t.Fatal("expected effect while active")
	}

	// State mutates (reducer ran) before the deferred effect executes: the
	// double-check must keep the inner effect away from the sink.
	state.mode = gate.Bypass
	got := collect(effect)
	if len(got) != 0 {
		t.Fatalf("expected nothing dispatched after bypass, got %v", got)
	}
	if p.executed != 0 {
		t.Fatal("inner effect ran despite execution-time bypass")
	}
}

func TestHandlerControlActionEmissionUsesMutatedGate(t *testing.T) {
	p := &probeHandler{}
	m := HandlerByAction[probeAction, probeAction, probeState](p, controlOf, "on", "off", gate.Active)

	state := probeState{}
	effect := m.Handle(probeAction{kind: "ctl", control: "off"}, Source("test"), func() probeState { return state })
	if p.handled != 1 {
		t.Fatal("turn-off control action must reach the inner handler")
	}
	// The control action is re-recognized at execution time, so the inner
	// effect runs, but its emission is judged by the just-mutated gate.
	got := collect(effect)
	if len(got) != 0 {
		t.Fatalf("expected emission dropped after turn-off, got %v", got)
	}
	if p.executed != 1 {
		t.Fatal("control action's effect should still execute")
	}
}

func TestHandlerNilInnerEffectStaysNil(t *testing.T) {
	p := &probeHandler{silent: true}
	m := HandlerByAction[probeAction, probeAction, probeState](p, controlOf, "on", "off", gate.Active)

	state := probeState{}
	effect := m.Handle(probeAction{kind: "tick"}, Source("test"), func() probeState { return state })
	if effect != nil {
		t.Fatal("nil inner effect must not be wrapped")
	}
}

func TestHandlerRecorderCounts(t *testing.T) {
	rec := &countingRecorder{}
	p := &probeHandler{}
	m := HandlerByAction[probeAction, probeAction, probeState](p, controlOf, "on", "off", gate.Active).WithRecorder("timers", rec)

	state := probeState{}
	getState := func() probeState { return state }

	collect(m.Handle(probeAction{kind: "tick"}, Source("test"), getState))
	m.Handle(probeAction{kind: "ctl", control: "off"}, Source("test"), getState)
	m.Handle(probeAction{kind: "tick"}, Source("test"), getState)

	if rec.handled != 2 || rec.suppressed != 1 {
		t.Fatalf("action counts wrong: handled=%d suppressed=%d", rec.handled, rec.suppressed)
	}
	if rec.dispatched != 1 {
		t.Fatalf("expected one dispatch recorded, got %d", rec.dispatched)
	}
}

func TestFromHandlerBridgesLifecycle(t *testing.T) {
	p := &probeHandler{}
	m := FromHandler[probeAction, probeAction, probeState](p)
	host := &testHost{}
	host.wire(m)

	host.send(m, probeAction{kind: "tick"}, nil)
	if p.handled != 1 || p.executed != 1 {
		t.Fatalf("expected handler driven through both phases, got handled=%d executed=%d", p.handled, p.executed)
	}
	if len(host.dispatched) != 1 || host.dispatched[0].kind != "tick.result" {
		t.Fatalf("expected bridged dispatch, got %v", host.dispatched)
	}
}

func TestFromHandlerGatedByState(t *testing.T) {
	// A gated handler bridged into the context-then-handle lifecycle keeps
	// the execution-time double-check: the reducer flips the gate before the
	// after-reducer phase, so the effect runs inert.
	p := &probeHandler{}
	m := FromHandler[probeAction, probeAction, probeState](
		HandlerByState[probeAction, probeAction](p, func(s probeState) gate.State { return s.mode }),
	)
	host := &testHost{state: probeState{mode: gate.Active}}
	host.wire(m)

	host.send(m, probeAction{kind: "tick"}, func(s *probeState) { s.mode = gate.Bypass })
	if p.handled != 1 {
		t.Fatal("pre-reducer phase should have run while active")
	}
	if len(host.dispatched) != 0 {
		t.Fatalf("expected nothing dispatched after mid-action bypass, got %v", host.dispatched)
	}
}
