package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/amphora-mq/amphora/internal/cliconfig"
	"github.com/amphora-mq/amphora/internal/peersim"
	"github.com/amphora-mq/amphora/pkg/endpoint"
	"github.com/amphora-mq/amphora/pkg/engine"
	"github.com/amphora-mq/amphora/pkg/lifecycle"
)

// runScenario opens a connection, sessions, and links against the simulated
// peer, then closes them in reverse order. A force-close, if configured,
// interrupts the run the way a real broker shutdown would.
func runScenario(ctx context.Context, log zerolog.Logger, eng *engine.Engine, peer *peersim.Peer, cfg cliconfig.Config) error {
	unexpected := make(chan lifecycle.Descriptor, 16)
	onUnexpectedClose := lifecycle.WithUnexpectedClose(func(r *lifecycle.Resource, cause error) {
		log.Warn().Stringer("resource", r.Descriptor()).Err(cause).Msg("peer closed resource unexpectedly")
		select {
		case unexpected <- r.Descriptor():
		default:
		}
	})

	conn := eng.Spawn(lifecycle.Descriptor{Kind: lifecycle.KindConnection, Name: "conn-0"}, onUnexpectedClose)
	if err := await(ctx, cfg.OpenTimeout, eng, conn, openOp); err != nil {
		return fmt.Errorf("open %s: %w", conn.Descriptor(), err)
	}
	log.Info().Stringer("resource", conn.Descriptor()).Msg("opened")

	if cfg.ForceCloseAfter > 0 {
		time.AfterFunc(cfg.ForceCloseAfter, func() {
			peer.ForceClose(conn.Endpoint().ID(), endpoint.Condition{
				Symbol:      endpoint.ConditionConnectionForced,
				Description: "scripted force close",
			})
		})
	}

	var opened []*lifecycle.Resource
	for i := 0; i < cfg.Sessions; i++ {
		sess := eng.Spawn(lifecycle.Descriptor{
			Kind: lifecycle.KindSession,
			Name: fmt.Sprintf("sess-%d", i),
		}, onUnexpectedClose)
		if err := await(ctx, cfg.OpenTimeout, eng, sess, openOp); err != nil {
			return fmt.Errorf("open %s: %w", sess.Descriptor(), err)
		}
		log.Info().Stringer("resource", sess.Descriptor()).Msg("opened")
		opened = append(opened, sess)

		for j := 0; j < cfg.LinksPerSession; j++ {
			link := eng.Spawn(lifecycle.Descriptor{
				Kind: lifecycle.KindLink,
				Name: fmt.Sprintf("link-%d-%d", i, j),
			}, onUnexpectedClose)
			if err := await(ctx, cfg.OpenTimeout, eng, link, openOp); err != nil {
				return fmt.Errorf("open %s: %w", link.Descriptor(), err)
			}
			log.Info().Stringer("resource", link.Descriptor()).Msg("opened")
			opened = append(opened, link)
		}
	}

	// Let a scripted force-close land before tearing down.
	if cfg.ForceCloseAfter > 0 {
		select {
		case desc := <-unexpected:
			log.Info().Stringer("resource", desc).Msg("run interrupted by forced close")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	// Close links and sessions in reverse, then the connection.
	for i := len(opened) - 1; i >= 0; i-- {
		res := opened[i]
		if err := await(ctx, cfg.OpenTimeout, eng, res, closeOp); err != nil {
			return fmt.Errorf("close %s: %w", res.Descriptor(), err)
		}
		log.Info().Stringer("resource", res.Descriptor()).Msg("closed")
	}
	if err := await(ctx, cfg.OpenTimeout, eng, conn, closeOp); err != nil {
		return fmt.Errorf("close %s: %w", conn.Descriptor(), err)
	}
	log.Info().Stringer("resource", conn.Descriptor()).Msg("closed")

	log.Info().Int("resources", len(opened)+1).Msg("scenario complete")
	return nil
}

type operation int

const (
	openOp operation = iota
	closeOp
)

// await runs an open or close on the engine goroutine and blocks the caller
// until it resolves or the timeout expires.
func await(ctx context.Context, timeout time.Duration, eng *engine.Engine, res *lifecycle.Resource, op operation) error {
	w := lifecycle.NewWaiter()
	eng.Do(func() {
		if op == openOp {
			res.Open(w)
		} else {
			res.Close(w)
		}
	})

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return w.Wait(waitCtx)
}
