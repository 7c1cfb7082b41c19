// Package endpoint defines the contract between the protocol engine and the
// lifecycle layer for a single protocol endpoint (one side of a connection,
// session, or link).
//
// An endpoint tracks two state values: the local state, which this side has
// driven the endpoint to (open requested, close requested), and the remote
// state, which is whatever the peer most recently reported. The pair is never
// collapsed into a single value; the lifecycle layer derives its view of the
// resource from both.
//
// When the peer closes or rejects an endpoint it may attach an error
// condition, a (symbol, description) pair. The symbol selects the failure
// classification; the description is the human-readable text.
//
// Concrete endpoints are owned by the engine that created them. Holders of an
// Endpoint must treat it as a borrowed reference and must not use it after
// calling Free.
package endpoint
