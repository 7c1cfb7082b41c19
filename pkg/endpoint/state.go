package endpoint

// State represents one side of an endpoint's state as tracked by the engine.
type State int

const (
	// StateUninitialized is the state before anything has been requested or
	// reported for this side of the endpoint.
	StateUninitialized State = iota
	// StateOpening indicates an open has been requested but not yet settled.
	StateOpening
	// StateActive indicates the endpoint side is fully open.
	StateActive
	// StateClosing indicates a close has been requested but not yet settled.
	StateClosing
	// StateClosed indicates the endpoint side is closed. For the remote side
	// this is terminal: a closed peer endpoint never reopens.
	StateClosed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateOpening:
		return "Opening"
	case StateActive:
		return "Active"
	case StateClosing:
		return "Closing"
	case StateClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}
