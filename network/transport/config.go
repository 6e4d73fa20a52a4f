package transport

import (
	"fmt"
	"net"
)

// DefaultMaxMessageSize bounds a single framed payload. DKG dealings for small
// committees are a few kilobytes; the limit leaves generous headroom.
const DefaultMaxMessageSize = 4 << 20

// Config describes how an endpoint binds locally and how it advertises itself.
type Config struct {
	// ListenIP is the local interface to bind; the port is always ephemeral.
	ListenIP string
	// ExternalIP overrides the IP of the advertised address, for nodes behind NAT.
	ExternalIP string
	// ExternalPort overrides the port of the advertised address. Zero means the bound port.
	ExternalPort uint16
	// MaxMessageSize bounds inbound frames; larger frames close the connection.
	MaxMessageSize int
}

// DefaultConfig returns a loopback configuration with the default frame limit.
func DefaultConfig() Config {
	return Config{
		ListenIP:       "127.0.0.1",
		MaxMessageSize: DefaultMaxMessageSize,
	}
}

// WalletConfig derives the configuration of the wallet endpoint from the mint
// endpoint's configuration: identical except that a configured external port
// is shifted by one.
func (c Config) WalletConfig() Config {
	wallet := c
	if c.ExternalPort != 0 {
		wallet.ExternalPort = c.ExternalPort + 1
	}
	return wallet
}

// Validate checks that the configured IPs parse, that the advertised IP is
// dialable and that the frame limit is positive.
func (c Config) Validate() error {
	listenIP := net.ParseIP(c.ListenIP)
	if listenIP == nil {
		return fmt.Errorf("invalid listen ip %q", c.ListenIP)
	}
	if c.ExternalIP != "" {
		externalIP := net.ParseIP(c.ExternalIP)
		if externalIP == nil {
			return fmt.Errorf("invalid external ip %q", c.ExternalIP)
		}
		if externalIP.IsUnspecified() {
			return fmt.Errorf("external ip %s is not dialable", c.ExternalIP)
		}
	} else if listenIP.IsUnspecified() {
		// peers would dial their own interfaces
		return fmt.Errorf("listen ip %s is unspecified, an external ip is required", c.ListenIP)
	}
	if c.ExternalPort == ^uint16(0) {
		// the wallet endpoint needs ExternalPort+1
		return fmt.Errorf("external port %d leaves no room for the wallet endpoint", c.ExternalPort)
	}
	if c.MaxMessageSize <= 0 {
		return fmt.Errorf("max message size must be positive, got %d", c.MaxMessageSize)
	}
	return nil
}
