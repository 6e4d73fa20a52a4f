package operation

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/mint-node/storage"
)

// insert stores the encoded entity under key. Existing values are never
// overwritten.
// Expected error returns during normal operations:
//   - storage.ErrAlreadyExists if a value is stored under key.
func insert(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		if err == nil {
			return storage.ErrAlreadyExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("could not check key: %w", err)
		}

		val, err := encodeEntity(entity)
		if err != nil {
			return err
		}
		err = tx.Set(key, val)
		if err != nil {
			return fmt.Errorf("could not store data: %w", err)
		}
		return nil
	}
}

// check sets exists to whether a value is stored under key.
func check(key []byte, exists *bool) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		_, err := tx.Get(key)
		switch {
		case err == nil:
			*exists = true
			return nil
		case errors.Is(err, badger.ErrKeyNotFound):
			*exists = false
			return nil
		default:
			return fmt.Errorf("could not check existence: %w", err)
		}
	}
}

// retrieve decodes the value stored under key into entity, which must be a
// pointer.
// Expected error returns during normal operations:
//   - storage.ErrNotFound if no value is stored under key.
func retrieve(key []byte, entity interface{}) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		item, err := tx.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("could not load data: %w", err)
		}

		err = item.Value(func(val []byte) error {
			return decodeValue(val, entity)
		})
		if err != nil {
			return fmt.Errorf("could not decode entity: %w", err)
		}
		return nil
	}
}
