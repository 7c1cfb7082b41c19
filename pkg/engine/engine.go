package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amphora-mq/amphora/pkg/endpoint"
	"github.com/amphora-mq/amphora/pkg/lifecycle"
)

// defaultQueueDepth is the event queue capacity before senders block.
const defaultQueueDepth = 64

// Transport carries locally driven endpoint transitions toward the remote
// peer. Implementations are invoked from the engine goroutine and must not
// call back into the engine synchronously; peer responses come back through
// RemoteOpened, RemoteClosed, or ConnectionFailed.
type Transport interface {
	// SendOpen emits the open frame for the given endpoint.
	SendOpen(id uuid.UUID)

	// SendClose emits the close frame for the given endpoint.
	SendClose(id uuid.UUID)
}

// Engine owns the endpoint arena and runs the single event-processing loop
// that drives lifecycle dispatch.
type Engine struct {
	logger    zerolog.Logger
	transport Transport

	events chan func()

	// Loop-owned state. Touched only from the Run goroutine.
	endpoints map[uuid.UUID]*Endpoint
	resources map[uuid.UUID]*lifecycle.Resource
	dirty     []*Endpoint
}

// Option configures optional behavior of an Engine.
type Option func(*Engine)

// WithLogger sets the logger. If not provided, logging is disabled.
func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithQueueDepth sets the event queue capacity.
func WithQueueDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.events = make(chan func(), n)
		}
	}
}

// New creates an Engine that emits frames through the given transport.
func New(transport Transport, opts ...Option) *Engine {
	e := &Engine{
		logger:    zerolog.Nop(),
		transport: transport,
		events:    make(chan func(), defaultQueueDepth),
		endpoints: make(map[uuid.UUID]*Endpoint),
		resources: make(map[uuid.UUID]*lifecycle.Resource),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes events until the context is cancelled. It must be running
// before Do, Spawn, or the Remote* methods are used.
func (e *Engine) Run(ctx context.Context) error {
	e.logger.Debug().Msg("engine loop started")
	for {
		select {
		case <-ctx.Done():
			e.logger.Debug().Msg("engine loop stopped")
			return ctx.Err()
		case fn := <-e.events:
			fn()
			e.flush()
		}
	}
}

// Do schedules fn onto the engine goroutine. Endpoint state changed by fn is
// flushed (frames emitted, resources notified) before the next event runs.
func (e *Engine) Do(fn func()) {
	e.events <- fn
}

// Spawn creates an endpoint and a lifecycle resource bound to it, on the
// engine goroutine, and returns the resource. It blocks until the loop has
// processed the request, so it must not be called from the loop itself.
func (e *Engine) Spawn(desc lifecycle.Descriptor, opts ...lifecycle.Option) *lifecycle.Resource {
	result := make(chan *lifecycle.Resource, 1)
	e.Do(func() {
		ep := e.allocate()
		opts = append([]lifecycle.Option{
			lifecycle.WithRegistry(e),
			lifecycle.WithLogger(e.logger),
		}, opts...)
		result <- lifecycle.New(desc, ep, opts...)
	})
	return <-result
}

// RemoteOpened records that the peer reported the endpoint as active.
func (e *Engine) RemoteOpened(id uuid.UUID) {
	e.Do(func() {
		ep, ok := e.endpoints[id]
		if !ok {
			e.logger.Warn().Stringer("endpoint", id).Msg("remote open for unknown endpoint")
			return
		}
		ep.remote = endpoint.StateActive
		e.markDirty(ep)
	})
}

// RemoteClosed records that the peer closed the endpoint, with an optional
// error condition.
func (e *Engine) RemoteClosed(id uuid.UUID, cond endpoint.Condition) {
	e.Do(func() {
		ep, ok := e.endpoints[id]
		if !ok {
			e.logger.Warn().Stringer("endpoint", id).Msg("remote close for unknown endpoint")
			return
		}
		ep.remote = endpoint.StateClosed
		ep.cond = cond
		e.markDirty(ep)
	})
}

// ConnectionFailed reports a transport-level failure. Every pending request
// on every resource fails with the given cause.
func (e *Engine) ConnectionFailed(cause error) {
	e.Do(func() {
		e.logger.Error().Err(cause).Msg("transport failure, failing pending requests")
		for _, res := range e.resources {
			res.Failed(cause)
		}
	})
}

// Bind implements lifecycle.Registry. It must run on the engine goroutine,
// which holds because resources open on that goroutine.
func (e *Engine) Bind(id uuid.UUID, r *lifecycle.Resource) {
	e.resources[id] = r
}

// allocate creates an endpoint in the arena.
func (e *Engine) allocate() *Endpoint {
	ep := &Endpoint{id: uuid.New(), eng: e}
	e.endpoints[ep.id] = ep
	e.logger.Debug().Stringer("endpoint", ep.id).Msg("endpoint allocated")
	return ep
}

// release drops an endpoint and its resource binding from the arena.
func (e *Engine) release(id uuid.UUID) {
	delete(e.endpoints, id)
	delete(e.resources, id)
	e.logger.Debug().Stringer("endpoint", id).Msg("endpoint released")
}

// markDirty queues an endpoint for the post-event flush.
func (e *Engine) markDirty(ep *Endpoint) {
	if ep.dirtyFlag {
		return
	}
	ep.dirtyFlag = true
	e.dirty = append(e.dirty, ep)
}

// flush emits frames for dirty endpoints and notifies their resources.
// Dispatch may dirty further endpoints; the loop drains until quiet.
func (e *Engine) flush() {
	for len(e.dirty) > 0 {
		batch := e.dirty
		e.dirty = nil
		for _, ep := range batch {
			ep.dirtyFlag = false
			e.emitFrames(ep)
			if res, ok := e.resources[ep.id]; ok {
				res.ProcessStateChange()
			}
		}
	}
}

// emitFrames sends at most one open and one close frame per endpoint.
func (e *Engine) emitFrames(ep *Endpoint) {
	if ep.freed {
		return
	}
	// openRequested rather than the current local state: a close requested in
	// the same event still emits the open frame first.
	if !ep.sentOpen && ep.openRequested {
		ep.sentOpen = true
		e.transport.SendOpen(ep.id)
	}
	if !ep.sentClose && ep.local == endpoint.StateClosed {
		ep.sentClose = true
		e.transport.SendClose(ep.id)
	}
}
