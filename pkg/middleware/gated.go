package middleware

import (
	"sync/atomic"

	"github.com/statemux/gated/pkg/gate"
)

// #region gated

// Gated wraps one inner middleware and suppresses its participation in the
// action pipeline according to a gate strategy. It implements the
// context-then-handle host contract.
//
// Construct via the combinator functions (GatedByAction, GatedByState, ...);
// each call produces an independent composite owning its own gate.
type Gated[In, Out, S any] struct {
	inner Middleware[In, Out, S]
	gate  gate.Gate[In, Out, S]

	// getState is the most recently captured state reader. Until the host
	// supplies one the gate is treated as closed.
	getState StateReader[S]

	// alive gates the wrapped output sink after teardown. The sink closure
	// checks it at call time so in-flight emissions become no-ops instead of
	// reaching a discarded pipeline.
	alive atomic.Bool

	name string
	rec  Recorder
}

// NewGated creates a gated composite from an inner middleware and a gate
// strategy. Most callers want the combinator functions instead.
func NewGated[In, Out, S any](inner Middleware[In, Out, S], g gate.Gate[In, Out, S]) *Gated[In, Out, S] {
	m := &Gated[In, Out, S]{inner: inner, gate: g}
	m.alive.Store(true)
	return m
}

// WithRecorder attaches a decision recorder under the given gate name and
// returns the composite for chaining.
func (m *Gated[In, Out, S]) WithRecorder(name string, rec Recorder) *Gated[In, Out, S] {
	m.name = name
	m.rec = rec
	return m
}

// #endregion gated

// #region lifecycle

// ReceiveContext forwards the context to the inner middleware with the
// output sink wrapped: every emission re-checks the gate against the state
// at the moment of emission and is silently dropped when the gate is closed
// or the composite has been torn down.
func (m *Gated[In, Out, S]) ReceiveContext(getState StateReader[S], output Output[Out]) {
	m.getState = getState
	m.inner.ReceiveContext(getState, OutputFunc[Out](func(action Out, from ActionSource) {
		if !m.alive.Load() {
			return
		}
		if !m.gate.ShouldDispatch(action, getState()) {
			m.dropped()
			return
		}
		m.dispatched()
		output.Dispatch(action, from)
	}))
}

// Handle evaluates the gate against the pre-reducer state snapshot and
// forwards the action only when permitted. The inner middleware's deferred
// continuation is returned untouched, so the host's after-reducer timing is
// preserved; its emissions are re-gated at emission time by the wrapped
// sink.
func (m *Gated[In, Out, S]) Handle(action In, from ActionSource) AfterReducer {
	if m.getState == nil {
		// No context captured yet: treat the gate as closed.
		m.suppressed()
		return nil
	}
	if !m.gate.ShouldHandle(action, m.getState()) {
		m.suppressed()
		return nil
	}
	m.handled()
	return m.inner.Handle(action, from)
}

// Teardown invalidates the composite. Emissions attempted by the inner
// middleware afterwards are dropped rather than forwarded.
func (m *Gated[In, Out, S]) Teardown() {
	m.alive.Store(false)
}

// #endregion lifecycle

// #region recording

func (m *Gated[In, Out, S]) handled() {
	if m.rec != nil {
		m.rec.ActionHandled(m.name)
	}
}

func (m *Gated[In, Out, S]) suppressed() {
	if m.rec != nil {
		m.rec.ActionSuppressed(m.name)
	}
}

func (m *Gated[In, Out, S]) dispatched() {
	if m.rec != nil {
		m.rec.OutputDispatched(m.name)
	}
}

func (m *Gated[In, Out, S]) dropped() {
	if m.rec != nil {
		m.rec.OutputDropped(m.name)
	}
}

// #endregion recording
