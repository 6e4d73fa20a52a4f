// Package dispatch runs the inbound side of an endpoint: it accepts
// connections, decodes the frames read from them and hands every message to a
// processor.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/onflow/mint-node/module"
	"github.com/onflow/mint-node/module/metrics"
	"github.com/onflow/mint-node/network"
	"github.com/onflow/mint-node/network/codec"
	"github.com/onflow/mint-node/network/transport"
	"github.com/onflow/mint-node/utils/logging"
)

// bounds of the pause after a failed accept
const (
	minAcceptBackoff = 5 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// Listener is the part of a transport endpoint the dispatcher accepts from.
type Listener interface {
	Accept() (*transport.Conn, error)
	Close() error
}

// Dispatcher serves one endpoint. Connections are served concurrently, but the
// messages of a single connection reach the processor one at a time and in
// the order they were sent: the next frame is read only once the processor
// has returned for the previous one.
type Dispatcher struct {
	log       zerolog.Logger
	listener  Listener
	codec     network.Codec
	channel   network.Channel
	processor network.MessageProcessor
	metrics   module.NetworkMetrics
}

func New(
	log zerolog.Logger,
	listener Listener,
	codec network.Codec,
	channel network.Channel,
	processor network.MessageProcessor,
	metrics module.NetworkMetrics,
) *Dispatcher {
	return &Dispatcher{
		log:       log.With().Str("component", "dispatcher").Str("channel", channel.String()).Logger(),
		listener:  listener,
		codec:     codec,
		channel:   channel,
		processor: processor,
		metrics:   metrics,
	}
}

// Run accepts connections until ctx is cancelled, at which point the listener
// and all open connections are closed. Failed accepts are retried after a
// capped exponential pause; Run returns nil once ctx is cancelled or the
// listener is closed.
func (d *Dispatcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = d.listener.Close()
	}()

	backoff, err := newAcceptBackoff()
	if err != nil {
		return err
	}
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, transport.ErrClosed) {
				return nil
			}
			delay, _ := backoff.Next()
			d.log.Warn().Err(err).Dur("retry_in", delay).Msg("could not accept connection")
			d.metrics.InboundDropped(d.channel.String(), metrics.ReasonAccept)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			continue
		}
		backoff, err = newAcceptBackoff()
		if err != nil {
			_ = conn.Close()
			return err
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			d.serve(ctx, conn)
		}()
	}
}

func newAcceptBackoff() (retry.Backoff, error) {
	backoff, err := retry.NewExponential(minAcceptBackoff)
	if err != nil {
		return nil, fmt.Errorf("could not create accept backoff: %w", err)
	}
	return retry.WithCappedDuration(maxAcceptBackoff, backoff), nil
}

// serve reads messages from conn until the remote side closes it, a message
// is rejected or ctx is cancelled.
func (d *Dispatcher) serve(ctx context.Context, conn *transport.Conn) {
	origin := conn.RemoteAddr()
	log := d.log.With().Str("origin", origin.String()).Logger()

	finished := make(chan struct{})
	defer close(finished)
	go func() {
		select {
		case <-ctx.Done():
		case <-finished:
		}
		_ = conn.Close()
	}()

	for {
		frame, err := conn.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				log.Trace().Msg("connection closed")
				return
			}
			log.Warn().Err(err).Msg("could not read frame, dropping connection")
			d.metrics.InboundDropped(d.channel.String(), metrics.ReasonFrame)
			return
		}

		msg, err := d.codec.Decode(frame)
		if err != nil {
			log.Warn().Err(err).
				Str("payload", logging.Truncate(frame, 16)).
				Msg("could not decode message, dropping connection")
			d.metrics.InboundDropped(d.channel.String(), metrics.ReasonDecode)
			return
		}

		code, msgType, err := codec.MessageCodeFromInterface(msg)
		if err != nil {
			// the codec only produces known message types
			log.Error().Err(err).Msg("decoded message of unknown type")
			d.metrics.InboundDropped(d.channel.String(), metrics.ReasonDecode)
			return
		}
		if !codec.AllowedOnChannel(d.channel, code) {
			log.Warn().
				Err(codec.NewUnauthorizedChannelErr(code, d.channel)).
				Str("message_type", msgType).
				Msg("message not allowed on channel, dropping connection")
			d.metrics.InboundDropped(d.channel.String(), metrics.ReasonUnauthorized)
			return
		}
		d.metrics.MessageReceived(d.channel.String(), msgType)

		err = d.processor.Process(ctx, d.channel, origin, msg)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).
				Str("message_type", msgType).
				Msg("message rejected, dropping connection")
			d.metrics.InboundDropped(d.channel.String(), metrics.ReasonRejected)
			return
		}
	}
}
