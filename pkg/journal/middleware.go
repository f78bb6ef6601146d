package journal

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/statemux/gated/pkg/middleware"
)

// #region middleware

// Middleware records every action it is allowed to handle. Gate it to get a
// journal of exactly the actions the gate admitted. It emits nothing and has
// no post-reducer work.
//
// Store failures are logged, never surfaced into the pipeline: action flow
// has no error path.
type Middleware[In, Out, S any] struct {
	store *Store

	// Kind derives the journaled kind from an action. Defaults to the
	// action's Go type.
	Kind func(In) string
}

// New creates a journaling middleware writing to store.
func New[In, Out, S any](store *Store) *Middleware[In, Out, S] {
	return &Middleware[In, Out, S]{store: store}
}

// ReceiveContext is a no-op: the journal reads neither state nor sink.
func (m *Middleware[In, Out, S]) ReceiveContext(_ middleware.StateReader[S], _ middleware.Output[Out]) {}

// Handle journals the action under the handled phase.
func (m *Middleware[In, Out, S]) Handle(action In, from middleware.ActionSource) middleware.AfterReducer {
	payload, err := json.Marshal(action)
	if err != nil {
		log.Printf("[JOURNAL] marshal action: %v", err)
		payload = nil
	}

	kind := fmt.Sprintf("%T", action)
	if m.Kind != nil {
		kind = m.Kind(action)
	}

	entry := Entry{
		Kind:     kind,
		Payload:  string(payload),
		SourceID: from.ID,
		Origin:   from.Origin,
		Phase:    PhaseHandled,
	}
	if err := m.store.Append(entry); err != nil {
		log.Printf("[JOURNAL] append: %v", err)
	}
	return nil
}

// #endregion middleware

// #region sink

// Sink wraps an output sink and journals every action that passes through it
// under the dispatched phase, then forwards to next. Use it as the store-side
// sink to record what the gate actually let out.
func Sink[Out any](store *Store, next middleware.Output[Out]) middleware.Output[Out] {
	return middleware.OutputFunc[Out](func(action Out, from middleware.ActionSource) {
		payload, err := json.Marshal(action)
		if err != nil {
			log.Printf("[JOURNAL] marshal output: %v", err)
			payload = nil
		}
		entry := Entry{
			Kind:     fmt.Sprintf("%T", action),
			Payload:  string(payload),
			SourceID: from.ID,
			Origin:   from.Origin,
			Phase:    PhaseDispatched,
		}
		if err := store.Append(entry); err != nil {
			log.Printf("[JOURNAL] append output: %v", err)
		}
		next.Dispatch(action, from)
	})
}

// #endregion sink
