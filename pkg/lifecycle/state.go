package lifecycle

// State represents the operational phase of a component.
//
// States form an acyclic progression: each state is only reachable from its
// predecessor in declaration order, except StateFailed which is reachable
// from any state that has not already failed.
type State int32

const (
	// StateNew is the initial state. A component in this state is inactive;
	// it does minimal work and consumes minimal resources.
	StateNew State = iota

	// StateStarting indicates the component is transitioning to StateRunning.
	StateStarting

	// StateRunning indicates the component is operational.
	StateRunning

	// StateStopping indicates the component is transitioning to StateTerminated.
	StateStopping

	// StateTerminated indicates the component completed execution normally.
	StateTerminated

	// StateFailed indicates the component encountered a problem and may not
	// be operational. It cannot be started nor stopped.
	StateFailed

	// stateCount sizes the epoch table. Keep last.
	stateCount
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateTerminated:
		return "terminated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the declared states.
func (s State) Valid() bool {
	return s >= StateNew && s < stateCount
}

// canTransition reports whether the machine may move from one state to
// another. Every state requires its declared predecessor as the current
// state, except StateFailed which is reachable from any non-failed state.
// Unrecognized targets are rejected.
func canTransition(from, to State) bool {
	switch to {
	case StateStarting:
		return from == StateNew
	case StateRunning:
		return from == StateStarting
	case StateStopping:
		return from == StateRunning
	case StateTerminated:
		return from == StateStopping
	case StateFailed:
		return from != StateFailed
	default:
		return false
	}
}
