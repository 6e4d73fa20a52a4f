package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomIdentity(t *testing.T) {
	a, err := RandomIdentity()
	require.NoError(t, err)
	b, err := RandomIdentity()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, ZeroIdentity, a)
}

func TestHexStringToIdentity(t *testing.T) {
	id, err := RandomIdentity()
	require.NoError(t, err)

	parsed, err := HexStringToIdentity(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = HexStringToIdentity("abcd")
	assert.Error(t, err)

	_, err = HexStringToIdentity("not hex")
	assert.Error(t, err)
}

func TestIdentityOrdering(t *testing.T) {
	low := Identity{0x01}
	mid := Identity{0x02}
	high := Identity{0x02, 0x01}

	assert.True(t, low.Less(mid))
	assert.True(t, mid.Less(high))
	assert.False(t, high.Less(low))
	assert.Equal(t, 0, mid.Compare(mid))

	sorted := IdentityList{high, low, mid}.Sorted()
	assert.Equal(t, IdentityList{low, mid, high}, sorted)
	assert.Equal(t, 1, sorted.IndexOf(mid))
	assert.Equal(t, -1, sorted.IndexOf(ZeroIdentity))
	assert.True(t, sorted.Contains(high))
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress("/ip4/127.0.0.1/tcp/4001")
	require.NoError(t, err)
	assert.Equal(t, Address("/ip4/127.0.0.1/tcp/4001"), addr)

	maddr, err := addr.Multiaddr()
	require.NoError(t, err)
	assert.Equal(t, addr, AddressFromMultiaddr(maddr))

	_, err = ParseAddress("127.0.0.1:4001")
	assert.Error(t, err)
}
