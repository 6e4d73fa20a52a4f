package network

import (
	"errors"
	"fmt"

	"github.com/onflow/mint-node/model/node"
)

// ErrUnreachable indicates that a message could not be delivered to a
// destination within the sender's retry budget.
type ErrUnreachable struct {
	dest     node.Address
	attempts uint64
	err      error
}

func (e ErrUnreachable) Error() string {
	return fmt.Sprintf("could not deliver message to %s after %d attempts: %v", e.dest, e.attempts, e.err)
}

func (e ErrUnreachable) Unwrap() error {
	return e.err
}

// Destination returns the address the message was meant for.
func (e ErrUnreachable) Destination() node.Address {
	return e.dest
}

// NewUnreachableErr returns a new ErrUnreachable.
func NewUnreachableErr(dest node.Address, attempts uint64, err error) ErrUnreachable {
	return ErrUnreachable{dest: dest, attempts: attempts, err: err}
}

// IsErrUnreachable returns whether an error is ErrUnreachable
func IsErrUnreachable(err error) bool {
	var e ErrUnreachable
	return errors.As(err, &e)
}
