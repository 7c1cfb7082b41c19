package lifecycle

import (
	"context"
	"sync"
)

// Request is the caller-supplied completion handle for an asynchronous open
// or close. The lifecycle resolves a stored handle exactly once, clearing its
// pending slot before invoking the handle so a continuation never observes a
// still-pending operation.
type Request interface {
	// Succeed resolves the request successfully.
	Succeed()

	// Fail resolves the request with the given cause.
	Fail(err error)
}

// Waiter is a channel-backed Request for callers that want to block on the
// outcome. It is safe to resolve from the engine goroutine and wait on from
// any other goroutine. Resolution is latched: only the first Succeed or Fail
// takes effect, so a caller that abandoned the wait can leave the handle
// registered without risk of a late double-resolution.
type Waiter struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewWaiter creates an unresolved Waiter.
func NewWaiter() *Waiter {
	return &Waiter{done: make(chan struct{})}
}

// Succeed resolves the waiter successfully.
func (w *Waiter) Succeed() {
	w.once.Do(func() { close(w.done) })
}

// Fail resolves the waiter with the given cause.
func (w *Waiter) Fail(err error) {
	w.once.Do(func() {
		w.err = err
		close(w.done)
	})
}

// Done returns a channel that is closed once the waiter resolves.
func (w *Waiter) Done() <-chan struct{} {
	return w.done
}

// Err returns the failure the waiter resolved with, nil on success, and nil
// while the waiter is still unresolved.
func (w *Waiter) Err() error {
	select {
	case <-w.done:
		return w.err
	default:
		return nil
	}
}

// Wait blocks until the waiter resolves or the context expires. A context
// error abandons the wait only; the handle stays registered and resolves
// inertly later.
func (w *Waiter) Wait(ctx context.Context) error {
	select {
	case <-w.done:
		return w.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
