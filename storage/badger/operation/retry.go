package operation

import (
	"errors"

	"github.com/dgraph-io/badger/v2"
)

// RetryOnConflict runs the transaction op with action until it does not fail
// with a badger transaction conflict.
func RetryOnConflict(action func(func(*badger.Txn) error) error, op func(*badger.Txn) error) error {
	for {
		err := action(op)
		if errors.Is(err, badger.ErrConflict) {
			continue
		}
		return err
	}
}
