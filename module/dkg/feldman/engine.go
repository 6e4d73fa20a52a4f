// Package feldman implements a single round joint Feldman DKG on edwards25519.
//
// Every participant deals a random polynomial of degree threshold: it sends
// each participant, itself included, the commitments to the polynomial's
// coefficients and the polynomial evaluated at the recipient's index. A share
// is accepted only if it matches the commitments. Once a dealing from every
// participant is accepted, the secret key share is the sum of the received
// shares and the group public key is the sum of the constant commitments.
//
// Shares travel in the clear: the engine relies on the transport for
// confidentiality and does not implement complaint rounds.
package feldman

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	ed "filippo.io/edwards25519"

	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module/dkg"
)

var (
	ErrUnknownSender    = errors.New("dealing from a non-participant")
	ErrDuplicateDealing = errors.New("duplicate dealing")
	ErrInvalidShare     = errors.New("share does not match commitments")
	ErrNotFinalized     = errors.New("dkg not finalized")
)

var _ dkg.EngineFactory = (*Factory)(nil)

// Factory creates Feldman DKG engines.
type Factory struct {
	rng io.Reader
}

func NewFactory() *Factory {
	return &Factory{rng: rand.Reader}
}

// Initialize creates the engine of participant me and deals its polynomial.
func (f *Factory) Initialize(me node.Identity, threshold int, participants node.IdentityList) (dkg.Engine, []dkg.MessageAndTarget, error) {
	n := len(participants)
	if threshold < 0 || threshold >= n {
		return nil, nil, fmt.Errorf("threshold %d out of range for %d participants", threshold, n)
	}
	seen := make(map[node.Identity]struct{}, n)
	for _, id := range participants {
		if _, ok := seen[id]; ok {
			return nil, nil, fmt.Errorf("duplicate participant %s", id)
		}
		seen[id] = struct{}{}
	}
	index := participants.IndexOf(me)
	if index < 0 {
		return nil, nil, fmt.Errorf("local identity %s is not a participant", me)
	}

	poly, err := randomPolynomial(threshold, f.rng)
	if err != nil {
		return nil, nil, fmt.Errorf("could not sample polynomial: %w", err)
	}
	commitments := make([][]byte, 0, len(poly.commitments))
	for _, c := range poly.commitments {
		commitments = append(commitments, c.Bytes())
	}

	out := make([]dkg.MessageAndTarget, 0, n)
	for j, id := range participants {
		data, err := encodeDealing(&dealing{
			Commitments: commitments,
			Share:       poly.evaluate(evaluationPoint(j)).Bytes(),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("could not encode dealing for %s: %w", id, err)
		}
		out = append(out, dkg.MessageAndTarget{
			Target:  id,
			Message: messages.NewDKGMessage(me, data),
		})
	}

	e := &Engine{
		me:           me,
		index:        index,
		threshold:    threshold,
		participants: participants,
		dealings:     make(map[node.Identity]*verifiedDealing, n),
	}
	return e, out, nil
}

type verifiedDealing struct {
	commitments []*ed.Point
	share       *ed.Scalar
}

var _ dkg.Engine = (*Engine)(nil)

// Engine is one participant's side of the DKG. It is not safe for concurrent use.
type Engine struct {
	me           node.Identity
	index        int
	threshold    int
	participants node.IdentityList
	dealings     map[node.Identity]*verifiedDealing
}

// HandleMessage verifies and stores the dealing carried by msg. The protocol
// has a single round, so it never produces further messages.
func (e *Engine) HandleMessage(msg messages.DKGMessage) ([]dkg.MessageAndTarget, error) {
	if !e.participants.Contains(msg.Orig) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSender, msg.Orig)
	}
	if _, ok := e.dealings[msg.Orig]; ok {
		return nil, fmt.Errorf("%w from %s", ErrDuplicateDealing, msg.Orig)
	}

	d, err := decodeDealing(msg.Data)
	if err != nil {
		return nil, fmt.Errorf("could not decode dealing from %s: %w", msg.Orig, err)
	}
	if len(d.Commitments) != e.threshold+1 {
		return nil, fmt.Errorf("dealing from %s has %d commitments, expected %d", msg.Orig, len(d.Commitments), e.threshold+1)
	}
	commitments := make([]*ed.Point, 0, len(d.Commitments))
	for _, b := range d.Commitments {
		c, err := decodePoint(b)
		if err != nil {
			return nil, fmt.Errorf("dealing from %s: %w", msg.Orig, err)
		}
		commitments = append(commitments, c)
	}
	share, err := decodeScalar(d.Share)
	if err != nil {
		return nil, fmt.Errorf("dealing from %s: %w", msg.Orig, err)
	}

	expected := evaluateCommitments(commitments, evaluationPoint(e.index))
	if new(ed.Point).ScalarBaseMult(share).Equal(expected) != 1 {
		return nil, fmt.Errorf("%w: dealing from %s", ErrInvalidShare, msg.Orig)
	}

	e.dealings[msg.Orig] = &verifiedDealing{commitments: commitments, share: share}
	return nil, nil
}

// IsFinalized reports whether a valid dealing from every participant was accepted.
func (e *Engine) IsFinalized() bool {
	return len(e.dealings) == len(e.participants)
}

// GenerateKeys combines the accepted dealings into the local key material.
func (e *Engine) GenerateKeys() (*dkg.KeyMaterial, error) {
	if !e.IsFinalized() {
		return nil, fmt.Errorf("have %d of %d dealings: %w", len(e.dealings), len(e.participants), ErrNotFinalized)
	}

	secret := ed.NewScalar()
	group := ed.NewIdentityPoint()
	for _, id := range e.participants {
		d := e.dealings[id]
		secret.Add(secret, d.share)
		group.Add(group, d.commitments[0])
	}

	publicShares := make([][]byte, 0, len(e.participants))
	for m := range e.participants {
		x := evaluationPoint(m)
		share := ed.NewIdentityPoint()
		for _, id := range e.participants {
			share.Add(share, evaluateCommitments(e.dealings[id].commitments, x))
		}
		publicShares = append(publicShares, share.Bytes())
	}

	return &dkg.KeyMaterial{
		Threshold:       e.threshold,
		Participants:    e.participants,
		Index:           e.index,
		GroupPublicKey:  group.Bytes(),
		PublicKeyShares: publicShares,
		SecretKeyShare:  secret.Bytes(),
	}, nil
}
