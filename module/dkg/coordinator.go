package dkg

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module"
	"github.com/onflow/mint-node/module/irrecoverable"
	"github.com/onflow/mint-node/network"
	"github.com/onflow/mint-node/utils/logging"
)

// DefaultStallTimeout is how long an initiated session may go without
// handling a message before it is considered stalled.
const DefaultStallTimeout = 2 * time.Minute

// PeerDirectory resolves session participants to network addresses.
type PeerDirectory interface {
	Len() int
	Identities() node.IdentityList
	Lookup(id node.Identity) (node.Address, bool)
}

// FinalizationConsumer is notified once, when the local session is finalized.
type FinalizationConsumer interface {
	OnDKGFinalized(ctx context.Context, keys *KeyMaterial) error
}

type CoordinatorConfig struct {
	// StallTimeout bounds the time between two handled messages. Zero disables
	// stall detection.
	StallTimeout time.Duration
}

func DefaultCoordinatorConfig() CoordinatorConfig {
	return CoordinatorConfig{
		StallTimeout: DefaultStallTimeout,
	}
}

// Coordinator drives the single DKG session of a node: it starts the engine
// once a quorum of peers is known, moves engine messages between participants
// and hands the resulting key material to the finalization consumer.
//
// Coordinator is not safe for concurrent use; it is owned by the same
// goroutine as the peer directory it reads.
type Coordinator struct {
	log       zerolog.Logger
	me        node.Identity
	peers     PeerDirectory
	factory   EngineFactory
	messenger network.Messenger
	consumer  FinalizationConsumer
	metrics   module.DKGMetrics
	cfg       CoordinatorConfig
	now       func() time.Time
	session   session
}

func NewCoordinator(
	log zerolog.Logger,
	me node.Identity,
	peers PeerDirectory,
	factory EngineFactory,
	messenger network.Messenger,
	consumer FinalizationConsumer,
	metrics module.DKGMetrics,
	cfg CoordinatorConfig,
) *Coordinator {
	c := &Coordinator{
		log:       log.With().Str("component", "dkg_coordinator").Str("me", logging.ID(me)).Logger(),
		me:        me,
		peers:     peers,
		factory:   factory,
		messenger: messenger,
		consumer:  consumer,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
		session:   absent{},
	}
	c.metrics.DKGSessionState(StateAbsent.String())
	return c
}

// State returns the current state of the session.
func (c *Coordinator) State() SessionState {
	return c.session.state()
}

// Keys returns the key material once the session is finalized.
func (c *Coordinator) Keys() (*KeyMaterial, bool) {
	s, ok := c.session.(*finalized)
	if !ok {
		return nil, false
	}
	return s.keys, true
}

// Initiate starts the session among all currently registered nodes, with a
// threshold of one less than the number of participants, and delivers the
// engine's opening messages.
// Expected error returns during normal operations:
//   - ErrAlreadyInitiated if the session left the absent state before.
//   - ErrQuorumNotReached if fewer than Quorum nodes are registered.
//
// Any other error is an irrecoverable exception.
func (c *Coordinator) Initiate(ctx context.Context) error {
	switch s := c.session.(type) {
	case absent:
	case *initiated, *finalized:
		return fmt.Errorf("cannot initiate in state %s: %w", s.state(), ErrAlreadyInitiated)
	default:
		panic(fmt.Sprintf("unknown dkg session type %T", s))
	}

	if c.peers.Len() < Quorum {
		return fmt.Errorf("have %d of %d nodes: %w", c.peers.Len(), Quorum, ErrQuorumNotReached)
	}

	participants := c.peers.Identities()
	threshold := len(participants) - 1
	engine, out, err := c.factory.Initialize(c.me, threshold, participants)
	if err != nil {
		return irrecoverable.NewExceptionf("could not initialize dkg engine for %d participants: %w", len(participants), err)
	}

	s := &initiated{
		engine:       engine,
		participants: participants,
		heard:        make(map[node.Identity]struct{}, len(participants)),
		lastProgress: c.now(),
	}
	c.session = s
	c.metrics.DKGSessionState(StateInitiated.String())
	c.log.Info().
		Int("participants", len(participants)).
		Int("threshold", threshold).
		Strs("participant_ids", logging.IDs(participants)).
		Msg("initiating dkg")

	err = c.deliver(ctx, out)
	if err != nil {
		return err
	}
	return c.finalizeIfDone(ctx, s)
}

// Handle feeds a DKG message from another participant to the engine and
// delivers the engine's responses. The first time the engine reports it is
// finalized, the key material is generated and passed to the consumer.
// Expected error returns during normal operations:
//   - ErrSessionAbsent if the session has not been initiated yet.
//   - ErrSessionFinalized if the session is already finalized.
//   - ErrNotParticipant if the sender is not a participant of the session.
//
// Any other error is an irrecoverable exception.
func (c *Coordinator) Handle(ctx context.Context, msg messages.DKGMessage) error {
	switch s := c.session.(type) {
	case absent:
		return ErrSessionAbsent
	case *finalized:
		return ErrSessionFinalized
	case *initiated:
		if !s.participants.Contains(msg.Orig) {
			return fmt.Errorf("dkg message from %s: %w", msg.Orig, ErrNotParticipant)
		}
		out, err := s.engine.HandleMessage(msg)
		if err != nil {
			return irrecoverable.NewExceptionf("dkg engine failed to handle message from %s: %w", msg.Orig, err)
		}
		s.heard[msg.Orig] = struct{}{}
		s.lastProgress = c.now()
		c.metrics.DKGMessageHandled()

		err = c.deliver(ctx, out)
		if err != nil {
			return err
		}
		return c.finalizeIfDone(ctx, s)
	default:
		panic(fmt.Sprintf("unknown dkg session type %T", s))
	}
}

// CheckProgress reports a stalled session: one that is initiated and has not
// handled a message within the stall timeout as of now. The returned error is
// an irrecoverable exception wrapping a StalledError.
func (c *Coordinator) CheckProgress(now time.Time) error {
	if c.cfg.StallTimeout == 0 {
		return nil
	}
	switch s := c.session.(type) {
	case absent, *finalized:
		return nil
	case *initiated:
		idle := now.Sub(s.lastProgress)
		if idle <= c.cfg.StallTimeout {
			return nil
		}
		return irrecoverable.NewException(&StalledError{silent: s.silent(), idle: idle})
	default:
		panic(fmt.Sprintf("unknown dkg session type %T", s))
	}
}

// finalizeIfDone moves the session to finalized once the engine is done.
func (c *Coordinator) finalizeIfDone(ctx context.Context, s *initiated) error {
	if !s.engine.IsFinalized() {
		return nil
	}

	keys, err := s.engine.GenerateKeys()
	if err != nil {
		return irrecoverable.NewExceptionf("could not generate dkg keys: %w", err)
	}
	c.session = &finalized{keys: keys}
	c.metrics.DKGSessionState(StateFinalized.String())
	c.log.Info().
		Hex("group_public_key", keys.GroupPublicKey).
		Int("index", keys.Index).
		Msg("dkg finalized")

	err = c.consumer.OnDKGFinalized(ctx, keys)
	if err != nil {
		return irrecoverable.NewExceptionf("could not consume dkg result: %w", err)
	}
	return nil
}

// deliver sends every message to its target's registered address. Messages
// leave the node with Orig set to the local identity. All failures are
// collected into a single DeliveryError.
func (c *Coordinator) deliver(ctx context.Context, out []MessageAndTarget) error {
	var (
		result *multierror.Error
		failed node.IdentityList
	)
	for _, mt := range out {
		addr, ok := c.peers.Lookup(mt.Target)
		if !ok {
			result = multierror.Append(result, fmt.Errorf("could not resolve %s: %w", mt.Target, ErrUnknownTarget))
			failed = appendOnce(failed, mt.Target)
			continue
		}

		msg := messages.NewDKGMessage(c.me, mt.Message.Data)
		err := c.messenger.Send(ctx, &msg, addr)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("could not send dkg message to %s: %w", mt.Target, err))
			failed = appendOnce(failed, mt.Target)
			continue
		}
		c.log.Debug().
			Str("target", logging.ID(mt.Target)).
			Int("size", len(msg.Data)).
			Msg("dkg message sent")
	}

	if result != nil {
		return irrecoverable.NewException(NewDeliveryError(failed, result))
	}
	return nil
}

func appendOnce(list node.IdentityList, id node.Identity) node.IdentityList {
	if list.Contains(id) {
		return list
	}
	return append(list, id)
}
