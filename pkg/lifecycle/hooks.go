package lifecycle

import "github.com/amphora-mq/amphora/pkg/endpoint"

// Hooks lets a resource kind add protocol-specific setup around the default
// endpoint transitions. Connections, sessions, and links inject different
// hooks instead of subclassing the resource.
type Hooks interface {
	// BeginOpen starts the open of the managed endpoint.
	BeginOpen(ep endpoint.Endpoint)

	// BeginClose starts the close of the managed endpoint.
	BeginClose(ep endpoint.Endpoint)
}

// defaultHooks delegates straight to the endpoint transitions.
type defaultHooks struct{}

func (defaultHooks) BeginOpen(ep endpoint.Endpoint)  { ep.Open() }
func (defaultHooks) BeginClose(ep endpoint.Endpoint) { ep.Close() }

// DefaultHooks returns the hooks used when none are injected.
func DefaultHooks() Hooks {
	return defaultHooks{}
}

// HookFuncs adapts plain functions to Hooks. A nil function falls back to
// the default endpoint transition.
type HookFuncs struct {
	Open  func(ep endpoint.Endpoint)
	Close func(ep endpoint.Endpoint)
}

// BeginOpen calls Open, or the default endpoint open when Open is nil.
func (h HookFuncs) BeginOpen(ep endpoint.Endpoint) {
	if h.Open != nil {
		h.Open(ep)
		return
	}
	ep.Open()
}

// BeginClose calls Close, or the default endpoint close when Close is nil.
func (h HookFuncs) BeginClose(ep endpoint.Endpoint) {
	if h.Close != nil {
		h.Close(ep)
		return
	}
	ep.Close()
}
