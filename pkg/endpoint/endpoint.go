package endpoint

import "github.com/google/uuid"

// Endpoint is the engine-owned object the lifecycle layer manages. All
// methods must be called on the engine's event-processing goroutine.
type Endpoint interface {
	// ID returns the engine-assigned identity of this endpoint. It is stable
	// for the life of the endpoint and is the key used to route state-change
	// dispatch back to the managing resource.
	ID() uuid.UUID

	// LocalState returns the state this side has driven the endpoint to.
	LocalState() State

	// RemoteState returns the state most recently reported by the peer.
	RemoteState() State

	// RemoteCondition returns the error condition the peer attached, if any.
	RemoteCondition() Condition

	// Open requests the endpoint be opened toward the peer.
	Open()

	// Close requests the endpoint be closed toward the peer.
	Close()

	// Free releases the endpoint's engine resources. The endpoint must not
	// be used afterwards.
	Free()
}
