package dkg

import (
	"errors"
	"fmt"

	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/model/node"
)

// Quorum is the number of registered nodes, the local node included, at which
// a node starts the DKG session.
const Quorum = 3

// MessageAndTarget is a DKG message produced by an engine for one participant.
type MessageAndTarget struct {
	Target  node.Identity
	Message messages.DKGMessage
}

// KeyMaterial is the outcome of a successful DKG session, as seen by one
// participant.
type KeyMaterial struct {
	// Threshold is the number of shares that is not enough to sign; Threshold+1 shares are.
	Threshold int
	// Participants are the members of the session, in ascending order.
	Participants node.IdentityList
	// Index is the position of the local node in Participants.
	Index int
	// GroupPublicKey is the public key of the group.
	GroupPublicKey []byte
	// PublicKeyShares holds the public key share of every participant, indexed like Participants.
	PublicKeyShares [][]byte
	// SecretKeyShare is the local node's secret share of the group key.
	SecretKeyShare []byte
}

// Validate checks that the key material is internally consistent.
func (k *KeyMaterial) Validate() error {
	if k == nil {
		return errors.New("missing key material")
	}
	n := len(k.Participants)
	if n == 0 {
		return errors.New("key material has no participants")
	}
	if k.Threshold < 0 || k.Threshold >= n {
		return fmt.Errorf("threshold %d out of range for %d participants", k.Threshold, n)
	}
	if k.Index < 0 || k.Index >= n {
		return fmt.Errorf("index %d out of range for %d participants", k.Index, n)
	}
	if len(k.PublicKeyShares) != n {
		return fmt.Errorf("expected %d public key shares, got %d", n, len(k.PublicKeyShares))
	}
	if len(k.GroupPublicKey) == 0 {
		return errors.New("empty group public key")
	}
	if len(k.SecretKeyShare) == 0 {
		return errors.New("empty secret key share")
	}
	return nil
}

// EngineFactory starts DKG engines. The coordinator treats the engine as a
// black box: it only moves the engine's messages between participants.
type EngineFactory interface {
	// Initialize creates the engine of the local participant me for a session
	// among participants, along with the first messages it wants delivered.
	Initialize(me node.Identity, threshold int, participants node.IdentityList) (Engine, []MessageAndTarget, error)
}

// Engine runs one participant's side of a DKG session.
type Engine interface {
	// HandleMessage feeds a message from another participant (or the local
	// one) to the engine and returns the messages it produces in response.
	HandleMessage(msg messages.DKGMessage) ([]MessageAndTarget, error)

	// IsFinalized reports whether the engine has everything it needs to
	// generate keys.
	IsFinalized() bool

	// GenerateKeys derives the key material. Only valid once IsFinalized is true.
	GenerateKeys() (*KeyMaterial, error)
}
