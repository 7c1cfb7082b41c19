package lifecycle

import "github.com/rs/zerolog"

// Option configures optional behavior of a Resource.
type Option func(*Resource)

// WithHooks sets the begin-open/begin-close strategy for the resource kind.
// If not provided, the default hooks delegate to the endpoint transitions.
func WithHooks(h Hooks) Option {
	return func(r *Resource) {
		r.hooks = h
	}
}

// WithRegistry sets the registry the resource binds itself into when opened,
// so engine-level dispatch can route state-change events back to it.
func WithRegistry(reg Registry) Option {
	return func(r *Resource) {
		r.registry = reg
	}
}

// WithLogger sets the logger. If not provided, logging is disabled.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Resource) {
		r.logger = logger
	}
}

// WithUnexpectedClose sets the handler invoked when the peer closes the
// resource while no open or close is pending. The handler runs on the engine
// goroutine and must not block.
func WithUnexpectedClose(fn func(r *Resource, cause error)) Option {
	return func(r *Resource) {
		r.onUnexpectedClose = fn
	}
}
