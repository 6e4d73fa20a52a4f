package cmd

import (
	"fmt"
	"net"
	"strings"

	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/onflow/mint-node/engine/mintnode"
	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module/dkg"
	"github.com/onflow/mint-node/network/messenger"
	"github.com/onflow/mint-node/network/transport"
)

const (
	flagListenIP           = "listen-ip"
	flagExternalIP         = "external-ip"
	flagExternalPort       = "external-port"
	flagLogLevel           = "loglevel"
	flagMetricsPort        = "metrics-port"
	flagDataDir            = "datadir"
	flagSendRetries        = "send-retries"
	flagSendBackoff        = "send-backoff"
	flagSendMaxBackoff     = "send-max-backoff"
	flagStallTimeout       = "dkg-stall-timeout"
	flagStallCheckInterval = "dkg-stall-check-interval"
	flagPendingLimit       = "dkg-pending-limit"
	flagMaxMessageSize     = "max-message-size"
)

func addFlags(fs *pflag.FlagSet) {
	defaults := mintnode.DefaultConfig()

	fs.String(flagListenIP, defaults.Transport.ListenIP, "IP address both endpoints listen on")
	fs.String(flagExternalIP, "", "IP address advertised to peers, if different from the listen IP; required when listening on an unspecified IP")
	fs.Uint16(flagExternalPort, 0, "port advertised for the mint endpoint; the wallet endpoint advertises the next one")
	fs.String(flagLogLevel, "info", "log level (trace, debug, info, warn, error)")
	fs.Uint(flagMetricsPort, 0, "port of the prometheus metrics server, 0 to disable")
	fs.String(flagDataDir, "", "directory of the secrets database; in memory if empty")
	fs.Uint64(flagSendRetries, defaults.Messenger.MaxRetries, "number of retries of a failed send")
	fs.Duration(flagSendBackoff, defaults.Messenger.BaseBackoff, "backoff before the first retry of a failed send")
	fs.Duration(flagSendMaxBackoff, defaults.Messenger.MaxBackoff, "upper bound of the backoff between two retries")
	fs.Duration(flagStallTimeout, defaults.Coordinator.StallTimeout, "time a dkg session may go without progress, 0 to wait forever")
	fs.Duration(flagStallCheckInterval, defaults.StallCheckInterval, "interval between two checks for a stalled dkg session")
	fs.Int(flagPendingLimit, defaults.PendingLimit, "number of dkg messages kept while waiting for the session to start")
	fs.Int(flagMaxMessageSize, defaults.Transport.MaxMessageSize, "maximum size in bytes of a message read from the network")
}

// nodeConfig builds the node configuration from the flags and the peer arguments.
func nodeConfig(args []string) (mintnode.Config, error) {
	peers, err := parsePeers(args)
	if err != nil {
		return mintnode.Config{}, err
	}

	cfg := mintnode.DefaultConfig()
	cfg.Transport = transport.Config{
		ListenIP:       viper.GetString(flagListenIP),
		ExternalIP:     viper.GetString(flagExternalIP),
		ExternalPort:   uint16(viper.GetUint(flagExternalPort)),
		MaxMessageSize: viper.GetInt(flagMaxMessageSize),
	}
	cfg.Messenger = messenger.Config{
		MaxRetries:  viper.GetUint64(flagSendRetries),
		BaseBackoff: viper.GetDuration(flagSendBackoff),
		MaxBackoff:  viper.GetDuration(flagSendMaxBackoff),
	}
	cfg.Coordinator = dkg.CoordinatorConfig{
		StallTimeout: viper.GetDuration(flagStallTimeout),
	}
	cfg.StallCheckInterval = viper.GetDuration(flagStallCheckInterval)
	cfg.PendingLimit = viper.GetInt(flagPendingLimit)
	cfg.Bootstrap = peers

	err = cfg.Validate()
	if err != nil {
		return mintnode.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// parsePeers converts peer arguments to addresses. A peer is either a
// multiaddr or a host:port pair.
func parsePeers(args []string) ([]node.Address, error) {
	peers := make([]node.Address, 0, len(args))
	for _, arg := range args {
		addr, err := parsePeer(arg)
		if err != nil {
			return nil, err
		}
		peers = append(peers, addr)
	}
	return peers, nil
}

func parsePeer(arg string) (node.Address, error) {
	if strings.HasPrefix(arg, "/") {
		return node.ParseAddress(arg)
	}

	tcpAddr, err := net.ResolveTCPAddr("tcp", arg)
	if err != nil {
		return "", fmt.Errorf("invalid peer %q: %w", arg, err)
	}
	maddr, err := manet.FromNetAddr(tcpAddr)
	if err != nil {
		return "", fmt.Errorf("invalid peer %q: %w", arg, err)
	}
	return node.AddressFromMultiaddr(maddr), nil
}
