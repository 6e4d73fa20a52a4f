package messenger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/module/metrics"
	"github.com/onflow/mint-node/network"
	"github.com/onflow/mint-node/network/codec/cbor"
	"github.com/onflow/mint-node/network/transport"
	"github.com/onflow/mint-node/utils/unittest"
)

func testConfig() Config {
	return Config{
		MaxRetries:  2,
		BaseBackoff: time.Millisecond,
		MaxBackoff:  5 * time.Millisecond,
	}
}

func newMessenger(t *testing.T, endpoint Endpoint) *Messenger {
	m, err := New(unittest.Logger(), endpoint, cbor.NewCodec(), network.MintChannel, metrics.NewNoopCollector(), testConfig())
	require.NoError(t, err)
	return m
}

// receiveOne accepts a single connection on e and decodes its first frame.
func receiveOne(e *transport.Endpoint) <-chan interface{} {
	out := make(chan interface{}, 1)
	go func() {
		conn, err := e.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		frame, err := conn.Receive()
		if err != nil {
			return
		}
		msg, err := cbor.NewCodec().Decode(frame)
		if err != nil {
			return
		}
		out <- msg
	}()
	return out
}

func TestNewValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BaseBackoff = 0
	_, err := New(unittest.Logger(), nil, cbor.NewCodec(), network.MintChannel, metrics.NewNoopCollector(), cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.MaxBackoff = cfg.BaseBackoff / 2
	_, err = New(unittest.Logger(), nil, cbor.NewCodec(), network.MintChannel, metrics.NewNoopCollector(), cfg)
	assert.Error(t, err)
}

func TestSendToRemote(t *testing.T) {
	local, err := transport.Listen(transport.DefaultConfig())
	require.NoError(t, err)
	defer local.Close()
	remote, err := transport.Listen(transport.DefaultConfig())
	require.NoError(t, err)
	defer remote.Close()

	received := receiveOne(remote)
	announce := messages.NewPeerAnnounce(unittest.IdentityFixture(), local.PublicAddr())
	err = newMessenger(t, local).Send(context.Background(), &announce, remote.PublicAddr())
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, &announce, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("message not received in time")
	}
}

// TestSendToSelf checks that a message addressed to the endpoint's public
// address is delivered over its local address, even when the public address
// is not reachable.
func TestSendToSelf(t *testing.T) {
	cfg := transport.DefaultConfig()
	cfg.ExternalIP = "203.0.113.7"
	cfg.ExternalPort = 4100
	e, err := transport.Listen(cfg)
	require.NoError(t, err)
	defer e.Close()

	received := receiveOne(e)
	msg := messages.NewDKGMessage(unittest.IdentityFixture(), unittest.RandomBytes(32))
	err = newMessenger(t, e).Send(context.Background(), &msg, e.PublicAddr())
	require.NoError(t, err)

	select {
	case got := <-received:
		assert.Equal(t, &msg, got)
	case <-time.After(5 * time.Second):
		t.Fatal("message not received in time")
	}
}

func TestSendExhaustsRetries(t *testing.T) {
	e, err := transport.Listen(transport.DefaultConfig())
	require.NoError(t, err)
	defer e.Close()

	closed, err := transport.Listen(transport.DefaultConfig())
	require.NoError(t, err)
	dest := closed.PublicAddr()
	require.NoError(t, closed.Close())

	msg := messages.NewDKGMessage(unittest.IdentityFixture(), unittest.RandomBytes(32))
	err = newMessenger(t, e).Send(context.Background(), &msg, dest)
	require.Error(t, err)
	require.True(t, network.IsErrUnreachable(err))

	var unreachable network.ErrUnreachable
	require.True(t, errors.As(err, &unreachable))
	assert.Equal(t, dest, unreachable.Destination())
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestSendCancelled(t *testing.T) {
	e, err := transport.Listen(transport.DefaultConfig())
	require.NoError(t, err)
	defer e.Close()

	closed, err := transport.Listen(transport.DefaultConfig())
	require.NoError(t, err)
	dest := closed.PublicAddr()
	require.NoError(t, closed.Close())

	cfg := testConfig()
	cfg.MaxRetries = 100
	cfg.BaseBackoff = time.Second
	cfg.MaxBackoff = time.Second
	m, err := New(unittest.Logger(), e, cbor.NewCodec(), network.MintChannel, metrics.NewNoopCollector(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	msg := messages.NewDKGMessage(unittest.IdentityFixture(), unittest.RandomBytes(32))
	unittest.RequireReturnsBefore(t, func() {
		err = m.Send(ctx, &msg, dest)
	}, 5*time.Second, "send did not honour cancellation")
	assert.True(t, network.IsErrUnreachable(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendUnencodable(t *testing.T) {
	e, err := transport.Listen(transport.DefaultConfig())
	require.NoError(t, err)
	defer e.Close()

	err = newMessenger(t, e).Send(context.Background(), "not a message", e.PublicAddr())
	assert.Error(t, err)
	assert.False(t, network.IsErrUnreachable(err))
}
