package lifecycle

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amphora-mq/amphora/pkg/endpoint"
)

// Kind identifies which protocol resource a lifecycle manages.
type Kind int

const (
	KindConnection Kind = iota
	KindSession
	KindLink
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindSession:
		return "session"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Descriptor identifies the managed resource. It is opaque to the state
// machine itself and used for routing and logging only.
type Descriptor struct {
	Kind Kind
	Name string
}

// String returns "kind(name)".
func (d Descriptor) String() string {
	return d.Kind.String() + "(" + d.Name + ")"
}

// Registry routes engine-level state-change dispatch back to resources. The
// engine implements it; a resource binds itself under its endpoint's ID when
// opened instead of holding a raw back-pointer from the endpoint.
type Registry interface {
	Bind(id uuid.UUID, r *Resource)
}

// Resource is the lifecycle state machine for one managed protocol resource.
// It does not own the endpoint it wraps; the endpoint's lifetime belongs to
// the engine. All methods must run on the engine goroutine.
type Resource struct {
	desc     Descriptor
	ep       endpoint.Endpoint
	hooks    Hooks
	registry Registry
	logger   zerolog.Logger

	onUnexpectedClose func(r *Resource, cause error)

	openReq  Request
	closeReq Request

	// unsolicitedSignaled latches after the unexpected-close handler runs so
	// repeated notifications for the same closed endpoint report once.
	unsolicitedSignaled bool
}

// New creates a Resource for the given descriptor. The endpoint may be nil
// and attached later with Attach; Open and Close require an attached
// endpoint.
func New(desc Descriptor, ep endpoint.Endpoint, opts ...Option) *Resource {
	r := &Resource{
		desc:   desc,
		ep:     ep,
		hooks:  defaultHooks{},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Descriptor returns the identity of the managed resource.
func (r *Resource) Descriptor() Descriptor {
	return r.desc
}

// Endpoint returns the attached endpoint, or nil before attachment.
func (r *Resource) Endpoint() endpoint.Endpoint {
	return r.ep
}

// Attach binds the resource to its endpoint.
func (r *Resource) Attach(ep endpoint.Endpoint) {
	r.ep = ep
}

// Open starts opening the resource. The request resolves once the peer
// answers or the resource fails. Calling Open with an open already pending,
// with no endpoint attached, or after the peer closed the endpoint is a
// contract violation and panics.
func (r *Resource) Open(request Request) {
	switch {
	case r.ep == nil:
		panic(fmt.Sprintf("lifecycle: open of %s with no endpoint attached", r.desc))
	case r.openReq != nil:
		panic(fmt.Sprintf("lifecycle: %s already has a pending open", r.desc))
	case r.RemoteState() == endpoint.StateClosed:
		panic(fmt.Sprintf("lifecycle: %s cannot be reopened after remote close", r.desc))
	}

	r.openReq = request
	r.hooks.BeginOpen(r.ep)
	if r.registry != nil {
		r.registry.Bind(r.ep.ID(), r)
	}
}

// Close starts closing the resource. If the endpoint is already locally
// closed the request succeeds immediately, otherwise the caller would never
// be notified. Calling Close with no endpoint attached or with a close
// already pending is a contract violation and panics.
func (r *Resource) Close(request Request) {
	if r.ep == nil {
		panic(fmt.Sprintf("lifecycle: close of %s with no endpoint attached", r.desc))
	}
	if r.ep.LocalState() == endpoint.StateClosed {
		request.Succeed()
		return
	}
	if r.closeReq != nil {
		panic(fmt.Sprintf("lifecycle: %s already has a pending close", r.desc))
	}

	r.closeReq = request
	r.hooks.BeginClose(r.ep)
}

// ProcessStateChange reconciles the endpoint's current (local, remote) state
// pair with the pending requests. The engine invokes it whenever either side
// of the endpoint may have changed. It never panics for remote misbehavior;
// anomalies are logged and the dispatch loop keeps running.
func (r *Resource) ProcessStateChange() {
	switch r.RemoteState() {
	case endpoint.StateActive:
		if r.IsAwaitingOpen() {
			r.logger.Debug().Stringer("resource", r.desc).Msg("resource is now open")
			r.opened()
			return
		}
		// An Active report with no open pending has no caller artifact to
		// resolve; log it and move on.
		r.logger.Debug().Stringer("resource", r.desc).Msg("remote active with no open pending")

	case endpoint.StateClosed:
		switch {
		case r.IsAwaitingClose():
			r.logger.Debug().Stringer("resource", r.desc).Msg("resource is now closed")
			r.closed()
		case r.IsAwaitingOpen() && r.HasRemoteError():
			err := r.RemoteError()
			r.logger.Warn().Stringer("resource", r.desc).Err(err).Msg("open rejected by remote peer")
			r.Failed(err)
		default:
			r.remotelyClosed()
		}
	}
}

// Failed resolves every pending request with the given cause. Both open and
// close can be pending at once when a close was requested while an open was
// still outstanding; both callers are unblocked with the same failure.
func (r *Resource) Failed(cause error) {
	if r.openReq != nil {
		request := r.openReq
		r.openReq = nil
		request.Fail(cause)
	}
	if r.closeReq != nil {
		request := r.closeReq
		r.closeReq = nil
		request.Fail(cause)
	}
}

// opened resolves the pending open with success.
func (r *Resource) opened() {
	request := r.openReq
	r.openReq = nil
	request.Succeed()
}

// closed releases the endpoint and resolves the pending close with success.
// An open still pending at this point fails first; the close settles both.
func (r *Resource) closed() {
	r.ep.Close()
	r.ep.Free()

	if r.openReq != nil {
		err := r.RemoteError()
		if err == nil {
			err = ErrClosedBeforeOpen
		}
		request := r.openReq
		r.openReq = nil
		request.Fail(err)
	}

	if r.closeReq != nil {
		request := r.closeReq
		r.closeReq = nil
		request.Succeed()
	}
}

// remotelyClosed handles a remote close that no close request was waiting
// for. A pending open fails with whatever the peer reported; with nothing
// pending at all the close is unsolicited and reported through the
// WithUnexpectedClose handler.
func (r *Resource) remotelyClosed() {
	if r.IsAwaitingOpen() {
		err := r.RemoteError()
		if err == nil {
			err = ErrRemoteClosedNoError
		}
		r.logger.Warn().Stringer("resource", r.desc).Err(err).Msg("remote closed while open pending")

		request := r.openReq
		r.openReq = nil
		request.Fail(err)
		return
	}

	if r.unsolicitedSignaled {
		return
	}
	r.unsolicitedSignaled = true

	cause := r.RemoteError()
	if cause == nil {
		cause = ErrRemoteClosedNoError
	}
	r.logger.Warn().Stringer("resource", r.desc).Err(cause).Msg("remote closed resource unexpectedly")
	if r.onUnexpectedClose != nil {
		r.onUnexpectedClose(r, cause)
	}
}

// IsOpen reports whether the peer reports the endpoint as active.
func (r *Resource) IsOpen() bool {
	return r.RemoteState() == endpoint.StateActive
}

// IsClosed reports whether this side has driven the endpoint to closed.
func (r *Resource) IsClosed() bool {
	return r.LocalState() == endpoint.StateClosed
}

// IsAwaitingOpen reports whether an open request is pending.
func (r *Resource) IsAwaitingOpen() bool {
	return r.openReq != nil
}

// IsAwaitingClose reports whether a close request is pending.
func (r *Resource) IsAwaitingClose() bool {
	return r.closeReq != nil
}

// HasRemoteError reports whether the peer attached an error condition.
func (r *Resource) HasRemoteError() bool {
	return r.ep != nil && r.ep.RemoteCondition().IsSet()
}

// LocalState returns the endpoint's local state, or Uninitialized before an
// endpoint is attached.
func (r *Resource) LocalState() endpoint.State {
	if r.ep == nil {
		return endpoint.StateUninitialized
	}
	return r.ep.LocalState()
}

// RemoteState returns the endpoint's remote state, or Uninitialized before
// an endpoint is attached.
func (r *Resource) RemoteState() endpoint.State {
	if r.ep == nil {
		return endpoint.StateUninitialized
	}
	return r.ep.RemoteState()
}

// RemoteError translates the peer-supplied error condition into a typed
// error: *SecurityError for an unauthorized-access condition, *RemoteError
// for anything else, nil when the peer supplied no condition. A condition
// without description text gets a fixed fallback message.
func (r *Resource) RemoteError() error {
	if r.ep == nil {
		return nil
	}
	cond := r.ep.RemoteCondition()
	if !cond.IsSet() {
		return nil
	}

	description := cond.Description
	if description == "" {
		description = noErrorDescription
	}

	if cond.Symbol == endpoint.ConditionUnauthorizedAccess {
		return &SecurityError{Condition: cond.Symbol, Description: description}
	}
	return &RemoteError{Condition: cond.Symbol, Description: description}
}
