package dkg

import (
	"fmt"
	"time"

	"github.com/onflow/mint-node/model/node"
)

// SessionState is the lifecycle state of the DKG session.
type SessionState int

const (
	StateAbsent SessionState = iota
	StateInitiated
	StateFinalized
)

func (s SessionState) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StateInitiated:
		return "initiated"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// session is one of absent, initiated or finalized. The set is closed: every
// switch over a session handles all three and panics otherwise.
type session interface {
	state() SessionState
}

type absent struct{}

func (absent) state() SessionState { return StateAbsent }

type initiated struct {
	engine       Engine
	participants node.IdentityList
	// heard holds the participants a message has been handled from
	heard        map[node.Identity]struct{}
	lastProgress time.Time
}

func (*initiated) state() SessionState { return StateInitiated }

// silent returns the participants no message has been handled from yet.
func (s *initiated) silent() node.IdentityList {
	var silent node.IdentityList
	for _, id := range s.participants {
		if _, ok := s.heard[id]; !ok {
			silent = append(silent, id)
		}
	}
	return silent
}

type finalized struct {
	keys *KeyMaterial
}

func (*finalized) state() SessionState { return StateFinalized }
