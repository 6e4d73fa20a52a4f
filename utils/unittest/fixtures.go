package unittest

import (
	"crypto/rand"
	"fmt"
	"sync/atomic"

	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/model/node"
)

// fixturePort hands out distinct ports so fixture addresses never collide.
var fixturePort uint32 = 20000

// RandomBytes returns n random bytes.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func IdentityFixture() node.Identity {
	id, err := node.RandomIdentity()
	if err != nil {
		panic(err)
	}
	return id
}

// IdentityListFixture returns n random identities, in ascending order.
func IdentityListFixture(n int) node.IdentityList {
	list := make(node.IdentityList, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, IdentityFixture())
	}
	return list.Sorted()
}

// AddressFixture returns a loopback address with a port not handed out before.
// Nothing listens on it.
func AddressFixture() node.Address {
	port := atomic.AddUint32(&fixturePort, 1)
	return node.Address(fmt.Sprintf("/ip4/127.0.0.1/tcp/%d", port))
}

func EntryFixture() node.Entry {
	return node.Entry{
		Identity: IdentityFixture(),
		Address:  AddressFixture(),
	}
}

func PeerAnnounceFixture() *messages.PeerAnnounce {
	announce := messages.NewPeerAnnounce(IdentityFixture(), AddressFixture())
	return &announce
}

// DKGMessageFixture returns a DKG message from orig with a random payload.
func DKGMessageFixture(orig node.Identity) *messages.DKGMessage {
	msg := messages.NewDKGMessage(orig, RandomBytes(32))
	return &msg
}
