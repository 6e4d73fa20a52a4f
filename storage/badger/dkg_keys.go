package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module/dkg"
	"github.com/onflow/mint-node/storage"
	"github.com/onflow/mint-node/storage/badger/operation"
)

var _ storage.DKGKeys = (*DKGKeys)(nil)

// DKGKeys stores DKG key material in the secrets database.
type DKGKeys struct {
	db *badger.DB
}

func NewDKGKeys(db *badger.DB) *DKGKeys {
	return &DKGKeys{db: db}
}

// InsertKeyMaterial stores the key material of the given node.
// Error returns: storage.ErrAlreadyExists
func (k *DKGKeys) InsertKeyMaterial(nodeID node.Identity, keys *dkg.KeyMaterial) error {
	return operation.RetryOnConflict(k.db.Update, operation.InsertKeyMaterial(nodeID, keys))
}

// RetrieveKeyMaterial retrieves the key material of the given node.
// Error returns: storage.ErrNotFound
func (k *DKGKeys) RetrieveKeyMaterial(nodeID node.Identity) (*dkg.KeyMaterial, error) {
	var keys dkg.KeyMaterial
	err := k.db.View(operation.RetrieveKeyMaterial(nodeID, &keys))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve key material of %s: %w", nodeID, err)
	}
	return &keys, nil
}
