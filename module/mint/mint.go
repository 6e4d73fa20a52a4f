// Package mint holds the threshold key produced by the DKG and serves wallet
// requests with it.
package mint

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/onflow/mint-node/model/messages"
	"github.com/onflow/mint-node/module"
	"github.com/onflow/mint-node/module/dkg"
)

// Mint owns the local node's share of the group key. Request handling is a
// placeholder: requests are accepted and counted but not interpreted.
type Mint struct {
	log     zerolog.Logger
	keys    *dkg.KeyMaterial
	metrics module.MintMetrics
	served  *atomic.Uint64
}

// New creates a mint from the key material of a finalized DKG session.
func New(log zerolog.Logger, keys *dkg.KeyMaterial, metrics module.MintMetrics) (*Mint, error) {
	err := keys.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid key material: %w", err)
	}
	m := &Mint{
		log: log.With().
			Str("component", "mint").
			Hex("group_public_key", keys.GroupPublicKey).
			Logger(),
		keys:    keys,
		metrics: metrics,
		served:  atomic.NewUint64(0),
	}
	m.log.Info().
		Int("threshold", keys.Threshold).
		Int("participants", len(keys.Participants)).
		Msg("mint created")
	return m, nil
}

// HandleWalletRequest accepts a request from a wallet client.
func (m *Mint) HandleWalletRequest(_ context.Context, req *messages.WalletRequest) error {
	served := m.served.Inc()
	m.metrics.WalletRequestServed()
	m.log.Info().
		Str("payload", req.Payload).
		Uint64("served", served).
		Msg("wallet request received")
	return nil
}

// Served returns the number of wallet requests handled so far.
func (m *Mint) Served() uint64 {
	return m.served.Load()
}

// GroupPublicKey returns the public key of the mint group.
func (m *Mint) GroupPublicKey() []byte {
	return m.keys.GroupPublicKey
}

// Threshold returns the number of shares that cannot produce a signature on their own.
func (m *Mint) Threshold() int {
	return m.keys.Threshold
}
