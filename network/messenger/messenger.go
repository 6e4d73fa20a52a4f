// Package messenger delivers messages to remote endpoints, one connection per
// message, retrying transient failures with exponential backoff.
package messenger

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module"
	"github.com/onflow/mint-node/network"
	"github.com/onflow/mint-node/network/codec"
	"github.com/onflow/mint-node/network/transport"
	"github.com/onflow/mint-node/utils/logging"
)

// Config bounds how hard the messenger tries to deliver a single message.
type Config struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries uint64
	// BaseBackoff is the wait before the first retry; it doubles per retry.
	BaseBackoff time.Duration
	// MaxBackoff caps the wait between two attempts.
	MaxBackoff time.Duration
}

func DefaultConfig() Config {
	return Config{
		MaxRetries:  8,
		BaseBackoff: 100 * time.Millisecond,
		MaxBackoff:  5 * time.Second,
	}
}

// Endpoint is the part of a transport endpoint the messenger dials through.
type Endpoint interface {
	Dial(ctx context.Context, addr node.Address) (*transport.Conn, error)
	LocalAddr() node.Address
	PublicAddr() node.Address
}

var _ network.Messenger = (*Messenger)(nil)

// Messenger sends messages from one endpoint. A message addressed to the
// endpoint's own public address is dialed on its local address instead, so a
// node can always reach itself even when its public address is not routable
// from inside its own network.
type Messenger struct {
	log      zerolog.Logger
	endpoint Endpoint
	codec    network.Codec
	channel  network.Channel
	metrics  module.NetworkMetrics
	cfg      Config
}

func New(
	log zerolog.Logger,
	endpoint Endpoint,
	codec network.Codec,
	channel network.Channel,
	metrics module.NetworkMetrics,
	cfg Config,
) (*Messenger, error) {
	if cfg.BaseBackoff <= 0 {
		return nil, fmt.Errorf("base backoff must be positive, got %s", cfg.BaseBackoff)
	}
	if cfg.MaxBackoff < cfg.BaseBackoff {
		return nil, fmt.Errorf("max backoff %s is below base backoff %s", cfg.MaxBackoff, cfg.BaseBackoff)
	}
	return &Messenger{
		log:      log.With().Str("component", "messenger").Str("channel", channel.String()).Logger(),
		endpoint: endpoint,
		codec:    codec,
		channel:  channel,
		metrics:  metrics,
		cfg:      cfg,
	}, nil
}

// Send encodes the message and delivers it to dest on a fresh connection.
// Expected error returns during normal operations:
//   - network.ErrUnreachable if no attempt succeeded within the retry budget
//     or ctx was cancelled in between attempts.
func (m *Messenger) Send(ctx context.Context, message interface{}, dest node.Address) error {
	payload, err := m.codec.Encode(message)
	if err != nil {
		return fmt.Errorf("could not encode message for %s: %w", dest, err)
	}
	msgType := codec.MessageType(message)

	target := dest
	if dest == m.endpoint.PublicAddr() {
		target = m.endpoint.LocalAddr()
	}

	backoff, err := retry.NewExponential(m.cfg.BaseBackoff)
	if err != nil {
		return fmt.Errorf("could not create retry mechanism: %w", err)
	}
	backoff = retry.WithCappedDuration(m.cfg.MaxBackoff, backoff)
	backoff = retry.WithMaxRetries(m.cfg.MaxRetries, backoff)

	attempts := uint64(0)
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		err := m.deliver(ctx, target, payload)
		if err != nil {
			if attempts <= m.cfg.MaxRetries {
				m.metrics.SendRetried(m.channel.String())
			}
			m.log.Debug().Err(err).
				Str("dest", dest.String()).
				Str("message_type", msgType).
				Uint64("attempt", attempts).
				Msg("could not deliver message, retrying")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		m.metrics.SendFailed(m.channel.String())
		return network.NewUnreachableErr(dest, attempts, err)
	}

	m.metrics.MessageSent(m.channel.String(), msgType)
	m.log.Trace().
		Str("dest", dest.String()).
		Str("message_type", msgType).
		Str("payload", logging.Truncate(payload, 16)).
		Msg("message sent")
	return nil
}

func (m *Messenger) deliver(ctx context.Context, target node.Address, payload []byte) error {
	conn, err := m.endpoint.Dial(ctx, target)
	if err != nil {
		return err
	}
	defer conn.Close()

	return conn.Send(payload)
}
