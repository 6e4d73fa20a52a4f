package node

import (
	"fmt"

	ma "github.com/multiformats/go-multiaddr"
)

// Address is the network address of a node endpoint, in multiaddr string form,
// e.g. /ip4/127.0.0.1/tcp/4001.
type Address string

// ParseAddress validates a multiaddr string and returns it as an Address.
func ParseAddress(s string) (Address, error) {
	maddr, err := ma.NewMultiaddr(s)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", s, err)
	}
	return Address(maddr.String()), nil
}

// AddressFromMultiaddr converts a multiaddr into an Address.
func AddressFromMultiaddr(maddr ma.Multiaddr) Address {
	return Address(maddr.String())
}

// Multiaddr parses the address into a multiaddr.
func (a Address) Multiaddr() (ma.Multiaddr, error) {
	return ma.NewMultiaddr(string(a))
}

func (a Address) String() string {
	return string(a)
}

// Entry pairs a node identity with the address of its mint-network endpoint.
type Entry struct {
	Identity Identity
	Address  Address
}
