package middleware

import "github.com/statemux/gated/pkg/gate"

// The combinator functions are the construction surface: Go has no extension
// methods, so the fluent gating operation of other ecosystems maps to this
// function family plus the chaining setters on the composites.

// #region by-action

// GatedByAction gates a middleware on control actions: mapping extracts an
// optional control payload, and payloads equal to turnOn/turnOff flip the
// gate. Control actions always reach the inner middleware.
func GatedByAction[In, Out, S any, C comparable](inner Middleware[In, Out, S], mapping func(In) (C, bool), turnOn, turnOff C, initial gate.State) *Gated[In, Out, S] {
	return NewGated(inner, gate.NewByAction[In, Out, S](mapping, turnOn, turnOff, initial))
}

// GatedByBool specializes the control payload to bool: true turns the gate
// on, false turns it off.
func GatedByBool[In, Out, S any](inner Middleware[In, Out, S], mapping func(In) (bool, bool), initial gate.State) *Gated[In, Out, S] {
	return GatedByAction(inner, mapping, true, false, initial)
}

// GatedByGateState specializes the control payload to gate.State itself.
func GatedByGateState[In, Out, S any](inner Middleware[In, Out, S], mapping func(In) (gate.State, bool), initial gate.State) *Gated[In, Out, S] {
	return GatedByAction(inner, mapping, gate.Active, gate.Bypass, initial)
}

// #endregion by-action

// #region by-state

// GatedByState gates a middleware on a projection of the application state.
func GatedByState[In, Out, S any](inner Middleware[In, Out, S], project func(S) gate.State) *Gated[In, Out, S] {
	return NewGated(inner, gate.NewByState[In, Out, S](project))
}

// GatedByStateBool is the bool-projection convenience: true maps to active.
func GatedByStateBool[In, Out, S any](inner Middleware[In, Out, S], project func(S) bool) *Gated[In, Out, S] {
	return GatedByState(inner, func(s S) gate.State {
		if project(s) {
			return gate.Active
		}
		return gate.Bypass
	})
}

// #endregion by-state

// #region handler-variants

// HandlerByAction is GatedByAction for the state-passed-as-argument contract.
func HandlerByAction[In, Out, S any, C comparable](inner Handler[In, Out, S], mapping func(In) (C, bool), turnOn, turnOff C, initial gate.State) *GatedHandler[In, Out, S] {
	return NewGatedHandler(inner, gate.NewByAction[In, Out, S](mapping, turnOn, turnOff, initial))
}

// HandlerByBool specializes the control payload to bool.
func HandlerByBool[In, Out, S any](inner Handler[In, Out, S], mapping func(In) (bool, bool), initial gate.State) *GatedHandler[In, Out, S] {
	return HandlerByAction(inner, mapping, true, false, initial)
}

// HandlerByGateState specializes the control payload to gate.State.
func HandlerByGateState[In, Out, S any](inner Handler[In, Out, S], mapping func(In) (gate.State, bool), initial gate.State) *GatedHandler[In, Out, S] {
	return HandlerByAction(inner, mapping, gate.Active, gate.Bypass, initial)
}

// HandlerByState gates a handler on a projection of the application state.
func HandlerByState[In, Out, S any](inner Handler[In, Out, S], project func(S) gate.State) *GatedHandler[In, Out, S] {
	return NewGatedHandler(inner, gate.NewByState[In, Out, S](project))
}

// HandlerByStateBool is the bool-projection convenience for handlers.
func HandlerByStateBool[In, Out, S any](inner Handler[In, Out, S], project func(S) bool) *GatedHandler[In, Out, S] {
	return HandlerByState(inner, func(s S) gate.State {
		if project(s) {
			return gate.Active
		}
		return gate.Bypass
	})
}

// #endregion handler-variants
