package peersim

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/amphora-mq/amphora/pkg/engine"
	"github.com/amphora-mq/amphora/pkg/lifecycle"
)

func startPeer(t *testing.T, behavior Behavior) (*engine.Engine, *Peer) {
	t.Helper()
	peer := New(behavior, 0, zerolog.Nop())
	eng := engine.New(peer)
	peer.Attach(eng)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = eng.Run(ctx) }()

	return eng, peer
}

func TestPeer_Accept(t *testing.T) {
	eng, _ := startPeer(t, BehaviorAccept)

	res := eng.Spawn(lifecycle.Descriptor{Kind: lifecycle.KindConnection, Name: "c-1"})
	w := lifecycle.NewWaiter()
	eng.Do(func() { res.Open(w) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := w.Wait(ctx); err != nil {
		t.Fatalf("open against accepting peer failed: %v", err)
	}

	closeW := lifecycle.NewWaiter()
	eng.Do(func() { res.Close(closeW) })
	if err := closeW.Wait(ctx); err != nil {
		t.Fatalf("close against accepting peer failed: %v", err)
	}
}

func TestPeer_RejectUnauthorized(t *testing.T) {
	eng, _ := startPeer(t, BehaviorRejectUnauthorized)

	res := eng.Spawn(lifecycle.Descriptor{Kind: lifecycle.KindLink, Name: "l-1"})
	w := lifecycle.NewWaiter()
	eng.Do(func() { res.Open(w) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := w.Wait(ctx)

	var secErr *lifecycle.SecurityError
	if !errors.As(err, &secErr) {
		t.Fatalf("error %T (%v), want *lifecycle.SecurityError", err, err)
	}
}

func TestPeer_Reject(t *testing.T) {
	eng, _ := startPeer(t, BehaviorReject)

	res := eng.Spawn(lifecycle.Descriptor{Kind: lifecycle.KindSession, Name: "s-1"})
	w := lifecycle.NewWaiter()
	eng.Do(func() { res.Open(w) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err := w.Wait(ctx)

	var remErr *lifecycle.RemoteError
	if !errors.As(err, &remErr) {
		t.Fatalf("error %T (%v), want *lifecycle.RemoteError", err, err)
	}
}

func TestPeer_IgnoreLeavesCallerOnTimeout(t *testing.T) {
	eng, _ := startPeer(t, BehaviorIgnore)

	res := eng.Spawn(lifecycle.Descriptor{Kind: lifecycle.KindConnection, Name: "c-2"})
	w := lifecycle.NewWaiter()
	eng.Do(func() { res.Open(w) })

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := w.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait() = %v, want deadline exceeded against silent peer", err)
	}
}

func TestPeer_Disconnect(t *testing.T) {
	eng, peer := startPeer(t, BehaviorIgnore)

	res := eng.Spawn(lifecycle.Descriptor{Kind: lifecycle.KindConnection, Name: "c-3"})
	w := lifecycle.NewWaiter()
	eng.Do(func() { res.Open(w) })

	cause := errors.New("simulated wire drop")
	peer.Disconnect(cause)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := w.Wait(ctx); !errors.Is(err, cause) {
		t.Fatalf("Wait() = %v, want %v", err, cause)
	}
}

func TestParseBehavior(t *testing.T) {
	tests := []struct {
		in   string
		want Behavior
		ok   bool
	}{
		{"accept", BehaviorAccept, true},
		{"reject", BehaviorReject, true},
		{"reject-unauthorized", BehaviorRejectUnauthorized, true},
		{"ignore", BehaviorIgnore, true},
		{"explode", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseBehavior(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseBehavior(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
