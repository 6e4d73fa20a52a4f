package mintnode

import (
	"context"
	"errors"
	"fmt"

	"github.com/onflow/mint-node/engine"
	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/module/dkg"
	"github.com/onflow/mint-node/module/irrecoverable"
	"github.com/onflow/mint-node/module/mint"
	"github.com/onflow/mint-node/utils/logging"
)

// ErrPendingFull is returned when a DKG message arrives before the session is
// initiated and the pending buffer has no room left for it.
var ErrPendingFull = errors.New("pending dkg message buffer is full")

// onDKGMessage feeds a DKG message to the coordinator. Messages that arrive
// before the local session is initiated are buffered: other nodes may reach
// the quorum, and start sending, before this one does.
func (e *Engine) onDKGMessage(ctx context.Context, msg messages.DKGMessage) error {
	err := e.coordinator.Handle(ctx, msg)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, dkg.ErrSessionAbsent):
		if !e.pending.Push(msg) {
			return fmt.Errorf("dropping dkg message from %s (%d buffered): %w", msg.Orig, e.pending.Len(), ErrPendingFull)
		}
		e.log.Debug().
			Str("sender", logging.ID(msg.Orig)).
			Int("pending", e.pending.Len()).
			Msg("buffered dkg message until the session is initiated")
		return nil
	case errors.Is(err, dkg.ErrSessionFinalized):
		e.log.Debug().Str("sender", logging.ID(msg.Orig)).Msg("ignoring dkg message for finalized session")
		return nil
	case errors.Is(err, dkg.ErrNotParticipant):
		return engine.NewInvalidInputErrorf("rejecting dkg message: %v", err)
	default:
		return err
	}
}

// replayPending hands the buffered DKG messages to the coordinator, in the
// order they arrived.
func (e *Engine) replayPending(ctx context.Context) error {
	if e.pending.Len() > 0 {
		e.log.Info().Int("pending", e.pending.Len()).Msg("replaying buffered dkg messages")
	}
	for {
		msg, ok := e.pending.Pop()
		if !ok {
			return nil
		}
		err := e.onDKGMessage(ctx, msg)
		if irrecoverable.IsException(err) {
			return fmt.Errorf("could not replay dkg message from %s: %w", msg.Orig, err)
		}
		if err != nil {
			e.log.Warn().Err(err).Str("sender", logging.ID(msg.Orig)).Msg("dropping buffered dkg message")
		}
	}
}

// OnDKGFinalized persists the key material, creates the mint and hands it to
// the wallet loop. It is called by the coordinator, on the mint loop, exactly
// once.
func (e *Engine) OnDKGFinalized(_ context.Context, keys *dkg.KeyMaterial) error {
	err := e.keys.InsertKeyMaterial(e.me, keys)
	if err != nil {
		return fmt.Errorf("could not persist key material: %w", err)
	}
	m, err := mint.New(e.log, keys, e.metrics)
	if err != nil {
		return fmt.Errorf("could not create mint: %w", err)
	}
	select {
	case e.handoff <- m:
	default:
		return fmt.Errorf("mint already handed to the wallet loop")
	}
	return nil
}
