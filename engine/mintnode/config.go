package mintnode

import (
	"fmt"
	"time"

	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module/dkg"
	"github.com/onflow/mint-node/network/messenger"
	"github.com/onflow/mint-node/network/transport"
)

const (
	// DefaultStallCheckInterval is how often an initiated session is checked for progress.
	DefaultStallCheckInterval = 5 * time.Second
	// DefaultPendingLimit bounds the DKG messages held while the session is absent.
	DefaultPendingLimit = 1024
	// DefaultInboxCapacity is the number of decoded messages queued for an owner loop.
	DefaultInboxCapacity = 64
)

// Config holds the settings of a mint node.
type Config struct {
	Transport          transport.Config
	Messenger          messenger.Config
	Coordinator        dkg.CoordinatorConfig
	StallCheckInterval time.Duration // zero disables the stall check
	PendingLimit       int
	InboxCapacity      int
	// Bootstrap lists the mint-network addresses the node announces itself to on start.
	Bootstrap []node.Address
}

func DefaultConfig() Config {
	return Config{
		Transport:          transport.DefaultConfig(),
		Messenger:          messenger.DefaultConfig(),
		Coordinator:        dkg.DefaultCoordinatorConfig(),
		StallCheckInterval: DefaultStallCheckInterval,
		PendingLimit:       DefaultPendingLimit,
		InboxCapacity:      DefaultInboxCapacity,
	}
}

// Validate checks the configuration for values the node cannot run with.
func (c Config) Validate() error {
	err := c.Transport.Validate()
	if err != nil {
		return fmt.Errorf("invalid transport config: %w", err)
	}
	if c.StallCheckInterval < 0 {
		return fmt.Errorf("negative stall check interval %s", c.StallCheckInterval)
	}
	if c.PendingLimit <= 0 {
		return fmt.Errorf("pending limit must be positive, got %d", c.PendingLimit)
	}
	if c.InboxCapacity < 0 {
		return fmt.Errorf("negative inbox capacity %d", c.InboxCapacity)
	}
	for _, addr := range c.Bootstrap {
		_, err := node.ParseAddress(addr.String())
		if err != nil {
			return fmt.Errorf("invalid bootstrap peer: %w", err)
		}
	}
	return nil
}
