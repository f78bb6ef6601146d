package replay

import "github.com/statemux/gated/pkg/middleware"

// #region types

// StepResult captures what one action turn did.
type StepResult[Out any] struct {
	// Deferred reports whether the middleware returned an after-reducer
	// continuation (which the harness then ran).
	Deferred bool

	// Dispatched holds every action that reached the harness sink during
	// this turn, both phases included.
	Dispatched []Out
}

// #endregion types

// #region harness

// Harness emulates the store side of the context-then-handle lifecycle for a
// single middleware: wire context once, then per action run handle, the
// reducer, and the deferred continuation, in that order. It is replay
// tooling, not a store: actions come from the caller, nothing is scheduled.
type Harness[In, Out, S any] struct {
	mw     middleware.Middleware[In, Out, S]
	reduce func(S, In) S
	state  S

	dispatched []Out
}

// NewHarness wires the middleware and returns a harness starting at initial.
func NewHarness[In, Out, S any](mw middleware.Middleware[In, Out, S], reduce func(S, In) S, initial S) *Harness[In, Out, S] {
	h := &Harness[In, Out, S]{mw: mw, reduce: reduce, state: initial}
	mw.ReceiveContext(
		func() S { return h.state },
		middleware.OutputFunc[Out](func(action Out, _ middleware.ActionSource) {
			h.dispatched = append(h.dispatched, action)
		}),
	)
	return h
}

// State returns the current application state.
func (h *Harness[In, Out, S]) State() S {
	return h.state
}

// Step runs one full action turn: pre-reducer handle, reducer, deferred
// continuation. The middleware reads pre-reducer state during handle and
// post-reducer state during the continuation, exactly as a host store
// sequences it.
func (h *Harness[In, Out, S]) Step(action In, from middleware.ActionSource) StepResult[Out] {
	h.dispatched = nil

	after := h.mw.Handle(action, from)
	h.state = h.reduce(h.state, action)

	res := StepResult[Out]{}
	if after != nil {
		after()
		res.Deferred = true
	}
	res.Dispatched = h.dispatched
	return res
}

// #endregion harness
