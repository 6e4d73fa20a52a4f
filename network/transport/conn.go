package transport

import (
	"errors"
	"fmt"
	"io"

	"github.com/libp2p/go-msgio"
	manet "github.com/multiformats/go-multiaddr/net"

	"github.com/onflow/mint-node/model/node"
)

// ErrMessageTooLarge is returned by Receive when the peer announces a frame
// larger than the endpoint's limit.
var ErrMessageTooLarge = msgio.ErrMsgTooLarge

// Conn is a framed, bidirectional stream to a single remote endpoint.
// A Conn is not safe for concurrent use by multiple readers or writers.
type Conn struct {
	raw    manet.Conn
	reader msgio.ReadCloser
	writer msgio.WriteCloser
}

func newConn(raw manet.Conn, maxMessageSize int) *Conn {
	return &Conn{
		raw:    raw,
		reader: msgio.NewVarintReaderSize(raw, maxMessageSize),
		writer: msgio.NewVarintWriter(raw),
	}
}

// RemoteAddr returns the address of the remote side of the connection. For
// inbound connections this is the dialer's ephemeral address, not the
// address it listens on.
func (c *Conn) RemoteAddr() node.Address {
	return node.AddressFromMultiaddr(c.raw.RemoteMultiaddr())
}

// Send writes one frame.
func (c *Conn) Send(payload []byte) error {
	err := c.writer.WriteMsg(payload)
	if err != nil {
		return fmt.Errorf("could not write frame: %w", err)
	}
	return nil
}

// Receive reads the next frame. It returns io.EOF once the remote side has
// closed the stream cleanly between frames.
func (c *Conn) Receive() ([]byte, error) {
	msg, err := c.reader.ReadMsg()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("could not read frame: %w", err)
	}
	// ReadMsg hands out pooled buffers; callers keep the frame past the next read
	payload := make([]byte, len(msg))
	copy(payload, msg)
	if cap(msg) > 0 {
		c.reader.ReleaseMsg(msg)
	}
	return payload, nil
}

// Close closes the underlying stream.
func (c *Conn) Close() error {
	return c.raw.Close()
}
