package engine

import (
	"github.com/google/uuid"

	"github.com/amphora-mq/amphora/pkg/endpoint"
)

// Endpoint is the engine-owned implementation of endpoint.Endpoint. All
// methods must run on the engine goroutine; mutators mark the endpoint dirty
// so the loop flushes frames and dispatches state changes afterwards.
type Endpoint struct {
	id  uuid.UUID
	eng *Engine

	local  endpoint.State
	remote endpoint.State
	cond   endpoint.Condition

	openRequested bool
	sentOpen      bool
	sentClose     bool
	dirtyFlag     bool
	freed         bool
}

// ID returns the engine-assigned identity of the endpoint.
func (e *Endpoint) ID() uuid.UUID {
	return e.id
}

// LocalState returns the state this side has driven the endpoint to.
func (e *Endpoint) LocalState() endpoint.State {
	return e.local
}

// RemoteState returns the state most recently reported by the peer.
func (e *Endpoint) RemoteState() endpoint.State {
	return e.remote
}

// RemoteCondition returns the error condition the peer attached, if any.
func (e *Endpoint) RemoteCondition() endpoint.Condition {
	return e.cond
}

// Open requests the endpoint be opened toward the peer.
func (e *Endpoint) Open() {
	if e.local != endpoint.StateUninitialized {
		return
	}
	e.local = endpoint.StateOpening
	e.openRequested = true
	e.eng.markDirty(e)
}

// Close requests the endpoint be closed toward the peer.
func (e *Endpoint) Close() {
	if e.local == endpoint.StateClosed {
		return
	}
	e.local = endpoint.StateClosed
	e.eng.markDirty(e)
}

// Free releases the endpoint from the engine arena.
func (e *Endpoint) Free() {
	if e.freed {
		return
	}
	e.freed = true
	e.eng.release(e.id)
}
