package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module/dkg"
)

// InsertKeyMaterial stores the key material a node obtained from its DKG session.
//
// CAUTION: This method stores confidential information and should only be
// used in the context of the secrets database.
func InsertKeyMaterial(nodeID node.Identity, keys *dkg.KeyMaterial) func(*badger.Txn) error {
	return insert(makePrefix(codeDKGKeyMaterial, nodeID), keys)
}

// RetrieveKeyMaterial retrieves the key material a node obtained from its DKG session.
//
// CAUTION: This method stores confidential information and should only be
// used in the context of the secrets database.
func RetrieveKeyMaterial(nodeID node.Identity, keys *dkg.KeyMaterial) func(*badger.Txn) error {
	return retrieve(makePrefix(codeDKGKeyMaterial, nodeID), keys)
}

// CheckKeyMaterial sets exists to whether key material is stored for the node.
func CheckKeyMaterial(nodeID node.Identity, exists *bool) func(*badger.Txn) error {
	return check(makePrefix(codeDKGKeyMaterial, nodeID), exists)
}
