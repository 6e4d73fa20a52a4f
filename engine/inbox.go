package engine

import (
	"context"

	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/network"
)

// Message is an inbound message waiting for its owner to handle it.
type Message struct {
	Channel network.Channel
	Origin  node.Address
	Payload interface{}

	verdict chan error
}

// Done reports the outcome of handling the message back to the connection
// it arrived on. It must be called exactly once per message.
func (m *Message) Done(err error) {
	m.verdict <- err
}

var _ network.MessageProcessor = (*Inbox)(nil)

// Inbox hands inbound messages from any number of connections to a single
// owner goroutine. Process blocks until the owner has handled the message, so
// the messages of one connection are handled in order and the owner's state
// needs no locking.
type Inbox struct {
	messages chan *Message
}

// NewInbox creates an inbox that queues up to capacity messages.
func NewInbox(capacity int) *Inbox {
	return &Inbox{
		messages: make(chan *Message, capacity),
	}
}

// Process submits the message to the owner and waits for its verdict.
func (i *Inbox) Process(ctx context.Context, channel network.Channel, origin node.Address, message interface{}) error {
	msg := &Message{
		Channel: channel,
		Origin:  origin,
		Payload: message,
		verdict: make(chan error, 1),
	}

	select {
	case i.messages <- msg:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-msg.verdict:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Messages returns the channel the owner receives messages from.
func (i *Inbox) Messages() <-chan *Message {
	return i.messages
}
