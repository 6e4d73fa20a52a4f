package messages

import (
	"github.com/onflow/mint-node/model/node"
)

// DKGMessage is the type of message exchanged between DKG participants on the
// mint network. Data is opaque to everything but the DKG engine and is carried
// verbatim.
type DKGMessage struct {
	// Orig is the identity of the participant that produced the message.
	Orig node.Identity
	Data []byte
}

// NewDKGMessage creates a new DKGMessage.
func NewDKGMessage(orig node.Identity, data []byte) DKGMessage {
	return DKGMessage{
		Orig: orig,
		Data: data,
	}
}
