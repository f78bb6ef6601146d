package middleware

import "github.com/statemux/gated/pkg/gate"

// #region gated-handler

// GatedHandler wraps one inner handler and suppresses it according to a gate
// strategy. It implements the state-passed-as-argument host contract: a
// closed gate is expressed as a nil (inert) effect, never an error.
type GatedHandler[In, Out, S any] struct {
	inner Handler[In, Out, S]
	gate  gate.Gate[In, Out, S]

	name string
	rec  Recorder
}

// NewGatedHandler creates a gated composite from an inner handler and a gate
// strategy. Most callers want the combinator functions instead.
func NewGatedHandler[In, Out, S any](inner Handler[In, Out, S], g gate.Gate[In, Out, S]) *GatedHandler[In, Out, S] {
	return &GatedHandler[In, Out, S]{inner: inner, gate: g}
}

// WithRecorder attaches a decision recorder under the given gate name and
// returns the composite for chaining.
func (m *GatedHandler[In, Out, S]) WithRecorder(name string, rec Recorder) *GatedHandler[In, Out, S] {
	m.name = name
	m.rec = rec
	return m
}

// Handle evaluates the gate against the current snapshot. When permitted it
// obtains the inner handler's effect and composes one that re-validates the
// gate at execution time: the effect may run after further state mutation
// (after the reducer), so both predicates must still hold before the inner
// effect touches the real sink.
func (m *GatedHandler[In, Out, S]) Handle(action In, from ActionSource, getState StateReader[S]) Effect[Out] {
	if !m.gate.ShouldHandle(action, getState()) {
		if m.rec != nil {
			m.rec.ActionSuppressed(m.name)
		}
		return nil
	}
	if m.rec != nil {
		m.rec.ActionHandled(m.name)
	}

	effect := m.inner.Handle(action, from, getState)
	if effect == nil {
		return nil
	}

	return func(output Output[Out]) {
		if !m.gate.ShouldHandle(action, getState()) {
			return
		}
		effect(OutputFunc[Out](func(result Out, from ActionSource) {
			if !m.gate.ShouldDispatch(result, getState()) {
				if m.rec != nil {
					m.rec.OutputDropped(m.name)
				}
				return
			}
			if m.rec != nil {
				m.rec.OutputDispatched(m.name)
			}
			output.Dispatch(result, from)
		}))
	}
}

// #endregion gated-handler
