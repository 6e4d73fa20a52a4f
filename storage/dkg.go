package storage

import (
	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module/dkg"
)

// DKGKeys is the storage interface for the key material produced by DKG
// sessions.
//
// CAUTION: key material contains the node's secret key share; it must only be
// kept in the secrets database.
type DKGKeys interface {

	// InsertKeyMaterial stores the key material a node obtained from its DKG session.
	// Error returns: storage.ErrAlreadyExists
	InsertKeyMaterial(nodeID node.Identity, keys *dkg.KeyMaterial) error

	// RetrieveKeyMaterial retrieves the key material a node obtained from its DKG session.
	// Error returns: storage.ErrNotFound
	RetrieveKeyMaterial(nodeID node.Identity) (*dkg.KeyMaterial, error)
}
