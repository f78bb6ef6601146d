package middleware

import "github.com/google/uuid"

// #region state-reader

// StateReader returns the current application state snapshot.
type StateReader[S any] func() S

// #endregion state-reader

// #region action-source

// ActionSource describes where an action came from. It is opaque to the
// gating layer and passed through unmodified.
type ActionSource struct {
	ID     string
	Origin string
}

// Source creates an ActionSource with a fresh ID.
func Source(origin string) ActionSource {
	return ActionSource{ID: uuid.New().String(), Origin: origin}
}

// #endregion action-source

// #region output

// Output is the sink through which a middleware emits actions toward the
// store's dispatch pipeline.
type Output[Out any] interface {
	Dispatch(action Out, from ActionSource)
}

// OutputFunc adapts a function to the Output interface.
type OutputFunc[Out any] func(action Out, from ActionSource)

// Dispatch calls f.
func (f OutputFunc[Out]) Dispatch(action Out, from ActionSource) {
	f(action, from)
}

// #endregion output

// #region middleware

// AfterReducer is the deferred continuation a middleware may return from
// Handle. The host runs it after the reducer has processed the action; a nil
// continuation means the middleware has no post-reducer work.
type AfterReducer func()

// Middleware is the context-then-handle host contract: the store wires in a
// state reader and an output sink once, then feeds actions one at a time.
type Middleware[In, Out, S any] interface {
	// ReceiveContext supplies the state reader and output sink for the
	// lifetime of the middleware.
	ReceiveContext(getState StateReader[S], output Output[Out])

	// Handle processes one incoming action before the reducer runs. The
	// returned continuation, if any, runs after the reducer.
	Handle(action In, from ActionSource) AfterReducer
}

// #endregion middleware

// #region handler

// Effect is a deferred unit of work produced by a Handler. The host executes
// it later against a real output sink; a nil Effect is inert.
type Effect[Out any] func(output Output[Out])

// Handler is the state-passed-as-argument host contract: there is no context
// step, each call receives the state reader directly and returns a deferred
// effect.
type Handler[In, Out, S any] interface {
	Handle(action In, from ActionSource, getState StateReader[S]) Effect[Out]
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc[In, Out, S any] func(action In, from ActionSource, getState StateReader[S]) Effect[Out]

// Handle calls f.
func (f HandlerFunc[In, Out, S]) Handle(action In, from ActionSource, getState StateReader[S]) Effect[Out] {
	return f(action, from, getState)
}

// #endregion handler

// #region recorder

// Recorder observes gate decisions. Implementations must be cheap: the
// callbacks run inline on the action path.
type Recorder interface {
	ActionHandled(gateName string)
	ActionSuppressed(gateName string)
	OutputDispatched(gateName string)
	OutputDropped(gateName string)
}

// #endregion recorder
