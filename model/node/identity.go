package node

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sort"
)

// IdentityLen is the size in bytes of a node identity.
const IdentityLen = 32

// Identity uniquely names a participant of a DKG session. It is drawn from a
// uniform random source once at process start and never changes afterwards.
type Identity [IdentityLen]byte

// ZeroIdentity is the empty identity, never produced by RandomIdentity in practice.
var ZeroIdentity Identity

// RandomIdentity generates a new identity from the system's secure randomness.
func RandomIdentity() (Identity, error) {
	var id Identity
	_, err := rand.Read(id[:])
	if err != nil {
		return ZeroIdentity, fmt.Errorf("could not read randomness: %w", err)
	}
	return id, nil
}

// HexStringToIdentity parses the hex encoding of an identity.
func HexStringToIdentity(hexString string) (Identity, error) {
	var id Identity
	b, err := hex.DecodeString(hexString)
	if err != nil {
		return ZeroIdentity, fmt.Errorf("malformed identity hex string: %w", err)
	}
	if len(b) != IdentityLen {
		return ZeroIdentity, fmt.Errorf("malformed identity hex string: expected %d bytes, got %d", IdentityLen, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// String returns the hex encoding of the identity.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// TerminalString returns a shortened hex prefix, for human facing output.
func (id Identity) TerminalString() string {
	return hex.EncodeToString(id[:3])
}

// Compare orders identities by their byte representation.
func (id Identity) Compare(other Identity) int {
	return bytes.Compare(id[:], other[:])
}

// Less reports whether id sorts before other.
func (id Identity) Less(other Identity) bool {
	return id.Compare(other) < 0
}

// IdentityList is a list of node identities.
type IdentityList []Identity

// Sorted returns a sorted copy of the list in ascending identity order.
func (il IdentityList) Sorted() IdentityList {
	sorted := make(IdentityList, len(il))
	copy(sorted, il)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Less(sorted[j])
	})
	return sorted
}

// Contains reports whether the list contains the given identity.
func (il IdentityList) Contains(id Identity) bool {
	for _, other := range il {
		if other == id {
			return true
		}
	}
	return false
}

// IndexOf returns the position of id in the list, or -1.
func (il IdentityList) IndexOf(id Identity) int {
	for i, other := range il {
		if other == id {
			return i
		}
	}
	return -1
}

// Strings returns the hex encodings of all identities in list order.
func (il IdentityList) Strings() []string {
	ss := make([]string, 0, len(il))
	for _, id := range il {
		ss = append(ss, id.String())
	}
	return ss
}
