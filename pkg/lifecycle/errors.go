package lifecycle

import "errors"

// noErrorDescription is the message used when the peer attached an error
// condition without any description text.
const noErrorDescription = "remote peer supplied no error description"

// ErrRemoteClosedNoError is the failure a pending open resolves with when the
// peer closes the endpoint without attaching an error condition.
var ErrRemoteClosedNoError = errors.New("amphora: remote closed without providing error information")

// ErrClosedBeforeOpen is the failure a pending open resolves with when a
// locally requested close completes before the open was ever answered.
var ErrClosedBeforeOpen = errors.New("amphora: resource was closed before the open completed")

// RemoteError is a generic rejection reported by the remote peer.
type RemoteError struct {
	// Condition is the protocol error symbol the peer attached.
	Condition string

	// Description is the peer-supplied text, or a fixed fallback when the
	// peer supplied none.
	Description string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return "amphora: remote error " + e.Condition + ": " + e.Description
}

// SecurityError is a rejection the peer attributed to failed authorization.
type SecurityError struct {
	// Condition is the protocol error symbol the peer attached.
	Condition string

	// Description is the peer-supplied text, or a fixed fallback when the
	// peer supplied none.
	Description string
}

// Error implements the error interface.
func (e *SecurityError) Error() string {
	return "amphora: unauthorized access: " + e.Description
}
