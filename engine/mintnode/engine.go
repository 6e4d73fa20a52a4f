// Package mintnode wires a mint node together: the two network endpoints, the
// peer registry, the DKG coordinator and, once the DKG is finalized, the mint.
package mintnode

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/onflow/mint-node/engine"
	"github.com/onflow/mint-node/engine/common/fifoqueue"
	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module"
	"github.com/onflow/mint-node/module/dkg"
	"github.com/onflow/mint-node/module/irrecoverable"
	"github.com/onflow/mint-node/module/mint"
	"github.com/onflow/mint-node/module/registry"
	"github.com/onflow/mint-node/network"
	"github.com/onflow/mint-node/network/codec/cbor"
	"github.com/onflow/mint-node/network/dispatch"
	"github.com/onflow/mint-node/network/messenger"
	"github.com/onflow/mint-node/network/transport"
	"github.com/onflow/mint-node/storage"
	"github.com/onflow/mint-node/utils/logging"
)

var _ dkg.FinalizationConsumer = (*Engine)(nil)

// Engine runs a mint node.
//
// The registry, the coordinator and the pending buffer are owned by the mint
// loop, which handles the messages of the mint-network endpoint one at a time.
// Once the DKG is finalized, the mint is handed to the wallet loop, which owns
// it exclusively from then on.
type Engine struct {
	log     zerolog.Logger
	me      node.Identity
	cfg     Config
	metrics module.MintNodeMetrics
	keys    storage.DKGKeys

	mintEndpoint   *transport.Endpoint
	walletEndpoint *transport.Endpoint
	messenger      network.Messenger
	mintInbox      *engine.Inbox
	walletInbox    *engine.Inbox
	mintServer     *dispatch.Dispatcher
	walletServer   *dispatch.Dispatcher

	// owned by the mint loop
	registry    *registry.Registry
	coordinator *dkg.Coordinator
	pending     *fifoqueue.FifoQueue[messages.DKGMessage]

	handoff   chan *mint.Mint
	mint      *mint.Mint
	initiated chan struct{}
	ready     chan struct{}
	peers     *atomic.Int64
}

// New binds the mint and wallet endpoints and creates the node. The wallet
// endpoint is bound right away but only served once the DKG is finalized.
func New(
	log zerolog.Logger,
	me node.Identity,
	cfg Config,
	factory dkg.EngineFactory,
	keys storage.DKGKeys,
	metrics module.MintNodeMetrics,
) (*Engine, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	mintEndpoint, err := transport.Listen(cfg.Transport)
	if err != nil {
		return nil, fmt.Errorf("could not start mint endpoint: %w", err)
	}
	walletEndpoint, err := transport.Listen(cfg.Transport.WalletConfig())
	if err != nil {
		_ = mintEndpoint.Close()
		return nil, fmt.Errorf("could not start wallet endpoint: %w", err)
	}

	codec := cbor.NewCodec()
	msgr, err := messenger.New(log, mintEndpoint, codec, network.MintChannel, metrics, cfg.Messenger)
	if err != nil {
		_ = mintEndpoint.Close()
		_ = walletEndpoint.Close()
		return nil, fmt.Errorf("could not create messenger: %w", err)
	}

	e, err := newEngine(log, me, cfg, mintEndpoint, walletEndpoint, codec, msgr, factory, keys, metrics)
	if err != nil {
		_ = mintEndpoint.Close()
		_ = walletEndpoint.Close()
		return nil, err
	}
	return e, nil
}

func newEngine(
	log zerolog.Logger,
	me node.Identity,
	cfg Config,
	mintEndpoint *transport.Endpoint,
	walletEndpoint *transport.Endpoint,
	codec network.Codec,
	msgr network.Messenger,
	factory dkg.EngineFactory,
	keys storage.DKGKeys,
	metrics module.MintNodeMetrics,
) (*Engine, error) {
	pending, err := fifoqueue.NewFifoQueue[messages.DKGMessage](
		cfg.PendingLimit,
		fifoqueue.WithLengthObserver(metrics.DKGMessagesPending),
	)
	if err != nil {
		return nil, fmt.Errorf("could not create pending buffer: %w", err)
	}

	e := &Engine{
		log:            log.With().Str("engine", "mint_node").Str("me", logging.ID(me)).Logger(),
		me:             me,
		cfg:            cfg,
		metrics:        metrics,
		keys:           keys,
		mintEndpoint:   mintEndpoint,
		walletEndpoint: walletEndpoint,
		messenger:      msgr,
		mintInbox:      engine.NewInbox(cfg.InboxCapacity),
		walletInbox:    engine.NewInbox(cfg.InboxCapacity),
		registry:       registry.New(me, mintEndpoint.PublicAddr()),
		pending:        pending,
		handoff:        make(chan *mint.Mint, 1),
		initiated:      make(chan struct{}),
		ready:          make(chan struct{}),
		peers:          atomic.NewInt64(1),
	}
	e.mintServer = dispatch.New(log, mintEndpoint, codec, network.MintChannel, e.mintInbox, metrics)
	e.walletServer = dispatch.New(log, walletEndpoint, codec, network.WalletChannel, e.walletInbox, metrics)
	e.coordinator = dkg.NewCoordinator(log, me, e.registry, factory, msgr, e, metrics, cfg.Coordinator)
	metrics.RegisteredPeers(1)
	return e, nil
}

// Identity returns the identity of the node.
func (e *Engine) Identity() node.Identity {
	return e.me
}

// MintAddress returns the advertised address of the mint-network endpoint.
func (e *Engine) MintAddress() node.Address {
	return e.mintEndpoint.PublicAddr()
}

// WalletAddress returns the advertised address of the wallet-network endpoint.
func (e *Engine) WalletAddress() node.Address {
	return e.walletEndpoint.PublicAddr()
}

// RegisteredPeers returns the number of registry entries, the node included.
func (e *Engine) RegisteredPeers() int {
	return int(e.peers.Load())
}

// Initiated returns a channel that is closed once the DKG session is initiated.
func (e *Engine) Initiated() <-chan struct{} {
	return e.initiated
}

// Ready returns a channel that is closed once the DKG is finalized and the
// wallet endpoint is served.
func (e *Engine) Ready() <-chan struct{} {
	return e.ready
}

// Mint returns the mint of the node. It must only be called after Ready is closed.
func (e *Engine) Mint() *mint.Mint {
	return e.mint
}

// Run announces the node to its bootstrap peers and serves both endpoints
// until ctx is cancelled or an irrecoverable error occurs. It returns nil on
// cancellation. The endpoints are closed when Run returns.
func (e *Engine) Run(ctx context.Context) error {
	defer e.close()

	e.log.Info().
		Str("mint_address", e.MintAddress().String()).
		Str("wallet_address", e.WalletAddress().String()).
		Int("bootstrap_peers", len(e.cfg.Bootstrap)).
		Msg("starting mint node")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return e.mintServer.Run(gctx)
	})
	g.Go(func() error {
		e.announce(gctx)
		return nil
	})
	g.Go(func() error {
		return e.runMintLoop(gctx)
	})
	g.Go(func() error {
		return e.runWallet(gctx)
	})

	err := g.Wait()
	if err != nil {
		return err
	}
	e.log.Info().Msg("mint node stopped")
	return nil
}

// runMintLoop handles the messages of the mint network and periodically checks
// the DKG session for progress.
func (e *Engine) runMintLoop(ctx context.Context) error {
	var tick <-chan time.Time
	if e.cfg.StallCheckInterval > 0 {
		ticker := time.NewTicker(e.cfg.StallCheckInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-e.mintInbox.Messages():
			err := e.processMintMessage(ctx, msg)
			msg.Done(err)
			if irrecoverable.IsException(err) {
				return err
			}
		case now := <-tick:
			err := e.coordinator.CheckProgress(now)
			if err != nil {
				return err
			}
		}
	}
}

// processMintMessage routes a message of the mint network by type.
// Expected error returns during normal operations:
//   - engine.InvalidInputError if the message has no business on the mint network,
//     or is a DKG message from a node outside the session.
//   - ErrPendingFull if an early DKG message could not be buffered.
//
// Any other error is an irrecoverable exception.
func (e *Engine) processMintMessage(ctx context.Context, msg *engine.Message) error {
	switch payload := msg.Payload.(type) {
	case *messages.PeerAnnounce:
		return e.onPeerAnnounce(ctx, *payload)
	case *messages.DKGMessage:
		return e.onDKGMessage(ctx, *payload)
	default:
		return engine.NewInvalidInputErrorf("unexpected message type %T from %s on %s", msg.Payload, msg.Origin, msg.Channel)
	}
}

func (e *Engine) close() {
	_ = e.mintEndpoint.Close()
	_ = e.walletEndpoint.Close()
}
