// Package irrecoverable marks errors after which a node cannot meaningfully
// continue, such as a failed DKG round. Exceptions are propagated up to the
// node's run loop, which stops the node.
package irrecoverable

import (
	"errors"
	"fmt"
)

// exception wraps an error that the caller cannot recover from.
type exception struct {
	err error
}

func (e exception) Error() string {
	return e.err.Error()
}

func (e exception) Unwrap() error {
	return e.err
}

// NewException wraps err as an exception. Wrapping an exception again is a no-op.
func NewException(err error) error {
	if err == nil {
		return nil
	}
	if IsException(err) {
		return err
	}
	return exception{err: err}
}

// NewExceptionf creates an exception from a format string.
func NewExceptionf(msg string, args ...interface{}) error {
	return NewException(fmt.Errorf(msg, args...))
}

// IsException reports whether any error in err's chain is an exception.
func IsException(err error) bool {
	var e exception
	return errors.As(err, &e)
}
