// Package lifecycle implements the open/close state machine for a single
// managed protocol resource (connection, session, or link).
//
// A Resource wraps an engine-owned endpoint and reconciles local intent (the
// caller asked to open or close) with the state the remote peer reports. The
// caller supplies a completion handle per operation; the handle resolves to
// success or a typed failure exactly once, driven by state-change
// notifications from the engine's dispatch loop.
//
// # State Machine
//
// The resource state is derived from the endpoint's (local, remote) state
// pair rather than stored separately:
//
//	Uninitialized -> Opening -> Open -> Closing -> Closed
//	                    |         |
//	                    +-> rejected / unsolicited remote close
//
//   - Opening: Open was called, remote side not yet Active
//   - Open: remote side reports Active
//   - Closing: Close was called, remote side not yet Closed
//   - Closed: remote side reports Closed with no close pending
//
// A remote Closed observation is terminal for the endpoint: the same
// Resource can never be opened again.
//
// # Completion
//
// Every pending handle resolves exactly once:
//
//   - remote Active while an open is pending: open succeeds
//   - remote Closed while a close is pending: close succeeds, endpoint freed
//   - remote Closed with an error condition while an open is pending: open
//     fails with *SecurityError or *RemoteError depending on the condition
//   - remote Closed with no condition while an open is pending: open fails
//     with ErrRemoteClosedNoError
//   - remote Closed while both an open and a close are pending: the open
//     fails with ErrClosedBeforeOpen, then the close succeeds
//   - Failed(cause): every pending handle fails with cause
//
// A remote close with nothing pending is an unsolicited close; it has no
// handle to resolve and is surfaced through the WithUnexpectedClose callback
// instead.
//
// # Threading
//
// All methods must run on the engine's single event-processing goroutine;
// the Resource holds no locks. A Waiter is the piece that crosses to the
// caller's context: it may be resolved from the engine goroutine and waited
// on from anywhere.
//
// # Usage
//
//	res := lifecycle.New(lifecycle.Descriptor{Kind: lifecycle.KindSession, Name: "s-1"}, ep,
//	    lifecycle.WithLogger(logger),
//	)
//
//	w := lifecycle.NewWaiter()
//	res.Open(w)
//	// ... engine dispatch runs ...
//	if err := w.Wait(ctx); err != nil {
//	    return err
//	}
package lifecycle
