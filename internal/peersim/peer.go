// Package peersim provides a scripted remote peer for exercising the engine
// without a network. It implements engine.Transport: frames the engine emits
// are answered after a configurable delay according to the peer's behavior.
package peersim

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amphora-mq/amphora/pkg/endpoint"
	"github.com/amphora-mq/amphora/pkg/engine"
)

// Behavior selects how the simulated peer answers open frames.
type Behavior string

const (
	// BehaviorAccept answers every open with an active report.
	BehaviorAccept Behavior = "accept"

	// BehaviorReject closes every opened endpoint with a generic condition.
	BehaviorReject Behavior = "reject"

	// BehaviorRejectUnauthorized closes every opened endpoint with the
	// unauthorized-access condition.
	BehaviorRejectUnauthorized Behavior = "reject-unauthorized"

	// BehaviorIgnore never answers anything. Useful for exercising
	// caller-side timeouts.
	BehaviorIgnore Behavior = "ignore"
)

// ParseBehavior validates a behavior name from configuration.
func ParseBehavior(s string) (Behavior, bool) {
	switch Behavior(s) {
	case BehaviorAccept, BehaviorReject, BehaviorRejectUnauthorized, BehaviorIgnore:
		return Behavior(s), true
	default:
		return "", false
	}
}

// Peer is the simulated remote side. Attach it to the engine it transports
// for before any frames are emitted.
type Peer struct {
	behavior Behavior
	delay    time.Duration
	logger   zerolog.Logger

	mu  sync.Mutex
	eng *engine.Engine
}

// New creates a peer with the given behavior and response delay.
func New(behavior Behavior, delay time.Duration, logger zerolog.Logger) *Peer {
	return &Peer{
		behavior: behavior,
		delay:    delay,
		logger:   logger,
	}
}

// Attach wires the peer to the engine whose frames it answers.
func (p *Peer) Attach(eng *engine.Engine) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eng = eng
}

func (p *Peer) engine() *engine.Engine {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eng
}

// SendOpen implements engine.Transport.
func (p *Peer) SendOpen(id uuid.UUID) {
	eng := p.engine()
	if eng == nil {
		return
	}
	p.logger.Debug().Stringer("endpoint", id).Str("behavior", string(p.behavior)).Msg("peer received open")

	switch p.behavior {
	case BehaviorAccept:
		p.respond(func() { eng.RemoteOpened(id) })
	case BehaviorReject:
		p.respond(func() {
			eng.RemoteClosed(id, endpoint.Condition{
				Symbol:      endpoint.ConditionInternalError,
				Description: "simulated peer rejected the attach",
			})
		})
	case BehaviorRejectUnauthorized:
		p.respond(func() {
			eng.RemoteClosed(id, endpoint.Condition{
				Symbol:      endpoint.ConditionUnauthorizedAccess,
				Description: "simulated peer denied access",
			})
		})
	case BehaviorIgnore:
	}
}

// SendClose implements engine.Transport. Except when ignoring, the peer
// always acknowledges a locally requested close.
func (p *Peer) SendClose(id uuid.UUID) {
	eng := p.engine()
	if eng == nil {
		return
	}
	p.logger.Debug().Stringer("endpoint", id).Msg("peer received close")

	if p.behavior == BehaviorIgnore {
		return
	}
	p.respond(func() { eng.RemoteClosed(id, endpoint.Condition{}) })
}

// ForceClose makes the peer close an endpoint the local side believes is
// open, simulating an unsolicited remote close.
func (p *Peer) ForceClose(id uuid.UUID, cond endpoint.Condition) {
	eng := p.engine()
	if eng == nil {
		return
	}
	p.logger.Debug().Stringer("endpoint", id).Msg("peer forcing close")
	p.respond(func() { eng.RemoteClosed(id, cond) })
}

// Disconnect simulates a transport-level failure.
func (p *Peer) Disconnect(cause error) {
	eng := p.engine()
	if eng == nil {
		return
	}
	eng.ConnectionFailed(cause)
}

// respond runs fn after the configured delay without blocking the engine
// goroutine that delivered the frame.
func (p *Peer) respond(fn func()) {
	if p.delay <= 0 {
		go fn()
		return
	}
	time.AfterFunc(p.delay, fn)
}
