package mintnode

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/onflow/mint-node/engine"
	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/module/mint"
)

// runWallet waits for the DKG to be finalized, then serves the wallet
// endpoint with the mint it receives.
func (e *Engine) runWallet(ctx context.Context) error {
	var m *mint.Mint
	select {
	case <-ctx.Done():
		return nil
	case m = <-e.handoff:
	}

	e.mint = m
	e.log.Info().Str("wallet_address", e.WalletAddress().String()).Msg("serving wallet endpoint")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.walletServer.Run(gctx)
	})
	g.Go(func() error {
		return e.runWalletLoop(gctx, m)
	})
	close(e.ready)
	return g.Wait()
}

// runWalletLoop handles the requests of wallet clients. It is the only user of
// the mint.
func (e *Engine) runWalletLoop(ctx context.Context, m *mint.Mint) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-e.walletInbox.Messages():
			msg.Done(e.processWalletMessage(ctx, m, msg))
		}
	}
}

// processWalletMessage routes a message of the wallet network by type.
// Expected error returns during normal operations:
//   - engine.InvalidInputError if the message is not a wallet request.
func (e *Engine) processWalletMessage(ctx context.Context, m *mint.Mint, msg *engine.Message) error {
	switch payload := msg.Payload.(type) {
	case *messages.WalletRequest:
		return m.HandleWalletRequest(ctx, payload)
	default:
		return engine.NewInvalidInputErrorf("unexpected message type %T from %s on %s", msg.Payload, msg.Origin, msg.Channel)
	}
}
