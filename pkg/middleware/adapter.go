package middleware

// #region from-handler

// fromHandler bridges the state-passed-as-argument contract onto the
// context-then-handle one: the handler's effect becomes the after-reducer
// continuation, executed against the sink captured from the context step.
type fromHandler[In, Out, S any] struct {
	handler  Handler[In, Out, S]
	getState StateReader[S]
	output   Output[Out]
}

// FromHandler adapts a Handler so hosts (and the replay harness) that speak
// the context-then-handle lifecycle can drive it.
func FromHandler[In, Out, S any](h Handler[In, Out, S]) Middleware[In, Out, S] {
	return &fromHandler[In, Out, S]{handler: h}
}

func (a *fromHandler[In, Out, S]) ReceiveContext(getState StateReader[S], output Output[Out]) {
	a.getState = getState
	a.output = output
}

func (a *fromHandler[In, Out, S]) Handle(action In, from ActionSource) AfterReducer {
	if a.getState == nil {
		return nil
	}
	effect := a.handler.Handle(action, from, a.getState)
	if effect == nil {
		return nil
	}
	return func() {
		effect(a.output)
	}
}

// #endregion from-handler
