// Package engine owns protocol endpoints and drives lifecycle dispatch.
//
// The engine runs a single event-processing goroutine. Everything that
// touches an endpoint or a resource happens on that goroutine: caller work
// arrives through Do or Spawn, peer reports arrive through RemoteOpened,
// RemoteClosed, and ConnectionFailed. After each event the loop flushes the
// endpoints whose state changed, emitting frames toward the peer through the
// Transport port and invoking ProcessStateChange on the bound resource.
//
// Endpoints live in an arena keyed by uuid and are released when a resource
// finishes closing. The engine also implements lifecycle.Registry: a resource
// binds itself under its endpoint's ID when opened, which is how dispatch
// finds the resource for a peer report.
//
// # Usage
//
//	eng := engine.New(transport, engine.WithLogger(logger))
//	go eng.Run(ctx)
//
//	res := eng.Spawn(lifecycle.Descriptor{Kind: lifecycle.KindConnection, Name: "c-1"})
//	w := lifecycle.NewWaiter()
//	eng.Do(func() { res.Open(w) })
//	err := w.Wait(ctx)
package engine
