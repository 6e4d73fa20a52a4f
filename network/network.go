package network

import (
	"context"

	"github.com/onflow/mint-node/model/node"
)

// Channel names one of the two independently addressable roles a mint node
// exposes on the network.
type Channel string

const (
	// MintChannel carries peer announcements and DKG messages between mint nodes.
	MintChannel Channel = "mint-network"
	// WalletChannel carries requests from wallet clients to a mint node.
	WalletChannel Channel = "wallet-network"
)

func (c Channel) String() string {
	return string(c)
}

// Messenger sends typed messages to remote endpoints. Each call opens a new
// outbound connection; delivery is attempted until it succeeds or the retry
// budget of the implementation is exhausted.
type Messenger interface {
	// Send encodes the message and delivers it to the endpoint listening on dest.
	Send(ctx context.Context, message interface{}, dest node.Address) error
}

// MessageProcessor represents a component which receives messages from the
// network. Process is called once per decoded message, in the order messages
// arrive on a connection; a non-nil error closes that connection.
type MessageProcessor interface {
	Process(ctx context.Context, channel Channel, origin node.Address, message interface{}) error
}

// Codec encodes and decodes the messages exchanged on the network.
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte) (interface{}, error)
}
