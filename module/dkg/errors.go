package dkg

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/onflow/mint-node/model/node"
)

var (
	// ErrAlreadyInitiated is returned when a session is initiated twice.
	ErrAlreadyInitiated = errors.New("dkg session already initiated")

	// ErrQuorumNotReached is returned when a session is initiated with fewer
	// than Quorum registered nodes.
	ErrQuorumNotReached = errors.New("dkg quorum not reached")

	// ErrSessionAbsent is returned for a DKG message that arrives before the
	// local session was initiated.
	ErrSessionAbsent = errors.New("dkg message received before session was initiated")

	// ErrSessionFinalized is returned for a DKG message that arrives after the
	// local session was finalized. Such late messages are harmless.
	ErrSessionFinalized = errors.New("dkg message received after session was finalized")

	// ErrNotParticipant is returned for a DKG message whose sender is not a
	// participant of the local session.
	ErrNotParticipant = errors.New("dkg message sender is not a session participant")

	// ErrUnknownTarget is returned when an engine addresses a message to an
	// identity that has no registered address.
	ErrUnknownTarget = errors.New("dkg target not in registry")
)

// DeliveryError reports the participants that DKG messages could not be
// delivered to.
type DeliveryError struct {
	targets node.IdentityList
	err     *multierror.Error
}

// NewDeliveryError creates a DeliveryError for the given failed targets and
// the aggregated causes.
func NewDeliveryError(targets node.IdentityList, err *multierror.Error) *DeliveryError {
	return &DeliveryError{targets: targets, err: err}
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("could not deliver dkg messages to %d participant(s): %s", len(e.targets), e.err.Error())
}

func (e *DeliveryError) Unwrap() error {
	return e.err.ErrorOrNil()
}

// Targets returns the participants with at least one undelivered message.
func (e *DeliveryError) Targets() node.IdentityList {
	return e.targets
}

// IsDeliveryError returns whether err is or wraps a DeliveryError.
func IsDeliveryError(err error) bool {
	var e *DeliveryError
	return errors.As(err, &e)
}

// StalledError reports that a session has not made progress for too long.
type StalledError struct {
	silent node.IdentityList
	idle   time.Duration
}

func (e *StalledError) Error() string {
	return fmt.Sprintf("dkg session stalled: no progress for %s, never heard from %v", e.idle, e.silent.Strings())
}

// Silent returns the participants no message has been handled from.
func (e *StalledError) Silent() node.IdentityList {
	return e.silent
}

// IsStalledError returns whether err is or wraps a StalledError.
func IsStalledError(err error) bool {
	var e *StalledError
	return errors.As(err, &e)
}
