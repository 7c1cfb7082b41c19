// Package amphora provides the client-side resource lifecycle core for an
// AMQP-style messaging protocol: the state machine that opens and closes
// connections, sessions, and links against a remote peer, and the engine
// loop that drives it.
//
// Example usage:
//
//	eng := amphora.NewEngine(transport)
//	go eng.Run(ctx)
//
//	res := eng.Spawn(amphora.Descriptor{Kind: amphora.KindConnection, Name: "c-1"})
//	w := amphora.NewWaiter()
//	eng.Do(func() { res.Open(w) })
//	if err := w.Wait(ctx); err != nil {
//	    log.Fatal(err)
//	}
package amphora

import (
	"github.com/amphora-mq/amphora/pkg/endpoint"
	"github.com/amphora-mq/amphora/pkg/engine"
	"github.com/amphora-mq/amphora/pkg/lifecycle"
)

// Re-export types from sub-packages for convenient access.
// Users can also import sub-packages directly for selective import.
type (
	// Descriptor identifies a managed protocol resource.
	Descriptor = lifecycle.Descriptor

	// Kind identifies which protocol resource a lifecycle manages.
	Kind = lifecycle.Kind

	// Request is the completion handle for an asynchronous open or close.
	Request = lifecycle.Request

	// Waiter is a channel-backed Request for blocking callers.
	Waiter = lifecycle.Waiter

	// Resource is the lifecycle state machine for one managed resource.
	Resource = lifecycle.Resource

	// Engine owns endpoints and runs the event-processing loop.
	Engine = engine.Engine

	// Transport carries locally driven transitions toward the peer.
	Transport = engine.Transport

	// Endpoint is the engine-owned object a Resource manages.
	Endpoint = endpoint.Endpoint

	// Condition is the (symbol, description) pair a peer attaches to a
	// closed or rejected endpoint.
	Condition = endpoint.Condition
)

// Resource kinds.
const (
	KindConnection = lifecycle.KindConnection
	KindSession    = lifecycle.KindSession
	KindLink       = lifecycle.KindLink
)

// NewWaiter creates an unresolved completion handle.
func NewWaiter() *Waiter {
	return lifecycle.NewWaiter()
}

// NewEngine creates an Engine that emits frames through the given transport.
func NewEngine(transport Transport, opts ...engine.Option) *Engine {
	return engine.New(transport, opts...)
}
