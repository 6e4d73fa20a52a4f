package mintnode

import (
	"context"
	"fmt"
	"sync"

	"github.com/onflow/mint-node/engine"
	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module/dkg"
	"github.com/onflow/mint-node/module/irrecoverable"
	"github.com/onflow/mint-node/utils/logging"
)

// announce sends the node's own entry to every bootstrap peer. Failures are
// logged: a peer that is down may still learn about the node through the
// backfill of another peer.
func (e *Engine) announce(ctx context.Context) {
	self := messages.NewPeerAnnounce(e.me, e.MintAddress())

	var wg sync.WaitGroup
	for _, addr := range e.cfg.Bootstrap {
		addr := addr
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.messenger.Send(ctx, &self, addr)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				e.log.Warn().Err(err).Str("peer_address", addr.String()).Msg("could not announce to bootstrap peer")
				return
			}
			e.log.Debug().Str("peer_address", addr.String()).Msg("announced to bootstrap peer")
		}()
	}
	wg.Wait()
}

// onPeerAnnounce registers a newly announced node. Before inserting it, every
// entry already known is sent to the newcomer, so that it catches up on the
// membership. Backfill only goes from existing nodes to the newcomer: nodes
// that joined earlier learn about it only if it announces itself to them.
//
// The DKG session is initiated when the registry reaches the quorum size.
// Registries only grow, so this happens at most once; nodes announced after
// that are registered but never join the session.
func (e *Engine) onPeerAnnounce(ctx context.Context, announce messages.PeerAnnounce) error {
	peer := announce.Entry()
	log := e.log.With().Dict("peer", logging.Entry(peer)).Logger()

	if e.registry.Contains(peer.Identity) {
		log.Debug().Msg("ignoring duplicate peer announcement")
		return nil
	}
	_, err := node.ParseAddress(peer.Address.String())
	if err != nil {
		return engine.NewInvalidInputErrorf("peer %s announced an invalid address: %v", peer.Identity, err)
	}

	for _, entry := range e.registry.Entries() {
		backfill := messages.NewPeerAnnounce(entry.Identity, entry.Address)
		err := e.messenger.Send(ctx, &backfill, peer.Address)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("backfill interrupted: %w", ctx.Err())
			}
			log.Warn().Err(err).Dict("entry", logging.Entry(entry)).Msg("could not backfill peer entry")
		}
	}

	e.registry.Add(peer.Identity, peer.Address)
	registered := e.registry.Len()
	e.peers.Store(int64(registered))
	e.metrics.RegisteredPeers(registered)
	log.Info().Int("registered", registered).Msg("peer registered")

	if registered != dkg.Quorum {
		if registered > dkg.Quorum {
			log.Warn().Msg("peer registered after the dkg session was initiated, it does not take part in it")
		}
		return nil
	}
	return e.initiate(ctx)
}

// initiate starts the DKG session and replays the DKG messages that arrived
// before it.
func (e *Engine) initiate(ctx context.Context) error {
	err := e.coordinator.Initiate(ctx)
	if err != nil {
		if irrecoverable.IsException(err) {
			return err
		}
		// the registry is at quorum and only reaches it once
		return irrecoverable.NewExceptionf("could not initiate dkg: %w", err)
	}
	close(e.initiated)
	return e.replayPending(ctx)
}
