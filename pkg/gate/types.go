package gate

import "fmt"

// #region state

// State is the two-valued gating mode: Active lets the inner middleware
// participate in action processing, Bypass suppresses it.
type State int

const (
	Active State = iota
	Bypass
)

// String returns the stable lowercase encoding used for serialization.
func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Bypass:
		return "bypass"
	default:
		return "unknown"
	}
}

// ParseState decodes the textual form produced by String.
func ParseState(text string) (State, error) {
	switch text {
	case "active":
		return Active, nil
	case "bypass":
		return Bypass, nil
	default:
		return Active, fmt.Errorf("parse gate state: unknown value %q", text)
	}
}

// MarshalText implements encoding.TextMarshaler so the state survives
// whatever serialization the host applies to its application state.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	parsed, err := ParseState(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// #endregion state

// #region gate-interface

// Gate decides whether an inner middleware sees an incoming action and
// whether an action it wants to emit actually reaches the store.
// Implementations are invoked from the host's serialized action loop and
// are not designed for concurrent unsynchronized use.
type Gate[In, Out, S any] interface {
	// ShouldHandle reports whether the incoming action is forwarded to the
	// inner middleware's pre-reducer phase. state is the snapshot visible
	// before the reducer processes the action.
	ShouldHandle(action In, state S) bool

	// ShouldDispatch reports whether an action emitted by the inner
	// middleware is forwarded to the store, evaluated against the state
	// snapshot at the moment of emission.
	ShouldDispatch(action Out, state S) bool
}

// #endregion gate-interface
