package messages

import (
	"github.com/onflow/mint-node/model/node"
)

// PeerAnnounce tells the receiver that a mint node with the given identity can
// be reached at the given mint-network address.
type PeerAnnounce struct {
	Identity node.Identity
	Address  node.Address
}

// NewPeerAnnounce creates a new PeerAnnounce.
func NewPeerAnnounce(id node.Identity, addr node.Address) PeerAnnounce {
	return PeerAnnounce{
		Identity: id,
		Address:  addr,
	}
}

// Entry returns the registry entry carried by the announcement.
func (p PeerAnnounce) Entry() node.Entry {
	return node.Entry{Identity: p.Identity, Address: p.Address}
}
