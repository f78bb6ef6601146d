package gate

// #region by-action

// ByAction is the stateful gate strategy: it owns the current gate value and
// mutates it as a side effect of evaluating control actions. The mapping
// extracts an optional control payload from an incoming action; any action
// with a payload is a control action and is always forwarded, whether or not
// the payload matches a sentinel.
type ByAction[In, Out, S any, C comparable] struct {
	mapping func(In) (C, bool)
	turnOn  C
	turnOff C

	// current is the single source of truth for this gate. It is written
	// only inside ShouldHandle and assumes the host serializes action
	// processing.
	current State
}

// NewByAction creates a by-action gate starting at initial.
func NewByAction[In, Out, S any, C comparable](mapping func(In) (C, bool), turnOn, turnOff C, initial State) *ByAction[In, Out, S, C] {
	return &ByAction[In, Out, S, C]{
		mapping: mapping,
		turnOn:  turnOn,
		turnOff: turnOff,
		current: initial,
	}
}

// ShouldHandle evaluates the mapping. Control actions update the gate value
// and are always forwarded; other actions are forwarded only while the gate
// is active.
func (g *ByAction[In, Out, S, C]) ShouldHandle(action In, _ S) bool {
	payload, ok := g.mapping(action)
	if !ok {
		return g.current == Active
	}
	// turnOn is compared first: a payload equal to both sentinels turns the
	// gate on. The comparison order is load-bearing.
	switch {
	case payload == g.turnOn:
		g.current = Active
	case payload == g.turnOff:
		g.current = Bypass
	}
	return true
}

// ShouldDispatch reflects the gate value at call time, including a mutation
// applied earlier in the same action's processing.
func (g *ByAction[In, Out, S, C]) ShouldDispatch(_ Out, _ S) bool {
	return g.current == Active
}

// Current returns the gate value as of the last evaluated control action.
func (g *ByAction[In, Out, S, C]) Current() State {
	return g.current
}

// #endregion by-action

// #region by-state

// ByState is the stateless gate strategy: the gate value is recomputed from
// the application state snapshot on every evaluation. No action is treated
// as special; toggling is entirely the host reducer's business.
type ByState[In, Out, S any] struct {
	project func(S) State
}

// NewByState creates a by-state gate from a state projection.
func NewByState[In, Out, S any](project func(S) State) ByState[In, Out, S] {
	return ByState[In, Out, S]{project: project}
}

// ShouldHandle forwards the action iff the projected gate value is active.
func (g ByState[In, Out, S]) ShouldHandle(_ In, state S) bool {
	return g.project(state) == Active
}

// ShouldDispatch permits the emission iff the projection of the snapshot
// supplied at call time is active.
func (g ByState[In, Out, S]) ShouldDispatch(_ Out, state S) bool {
	return g.project(state) == Active
}

// #endregion by-state
