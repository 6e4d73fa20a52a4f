package cmd

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/mint-node/model/node"
)

func TestParsePeer(t *testing.T) {
	cases := map[string]node.Address{
		"/ip4/10.0.0.1/tcp/4001": "/ip4/10.0.0.1/tcp/4001",
		"127.0.0.1:4001":         "/ip4/127.0.0.1/tcp/4001",
		"[::1]:4001":             "/ip6/::1/tcp/4001",
	}
	for arg, expected := range cases {
		addr, err := parsePeer(arg)
		require.NoError(t, err, arg)
		assert.Equal(t, expected, addr, arg)
	}

	for _, arg := range []string{"/ip4/10.0.0.1/tcp/notaport", "127.0.0.1", "::::"} {
		_, err := parsePeer(arg)
		assert.Error(t, err, arg)
	}
}

func TestNodeConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--external-port", "4100",
		"--send-retries", "3",
		"--dkg-stall-timeout", "30s",
	}))
	require.NoError(t, viper.BindPFlags(fs))

	cfg, err := nodeConfig([]string{"127.0.0.1:4001", "/ip4/127.0.0.1/tcp/4002"})
	require.NoError(t, err)

	assert.Equal(t, uint16(4100), cfg.Transport.ExternalPort)
	assert.Equal(t, uint16(4101), cfg.Transport.WalletConfig().ExternalPort)
	assert.Equal(t, uint64(3), cfg.Messenger.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Coordinator.StallTimeout)
	assert.Equal(t, []node.Address{"/ip4/127.0.0.1/tcp/4001", "/ip4/127.0.0.1/tcp/4002"}, cfg.Bootstrap)
}

func TestNodeConfigFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("MINT_LISTEN_IP", "not-an-ip")

	initConfig()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	addFlags(fs)
	require.NoError(t, fs.Parse(nil))
	require.NoError(t, viper.BindPFlags(fs))

	_, err := nodeConfig(nil)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("DEBUG")
	require.NoError(t, err)

	_, err = newLogger("loud")
	assert.Error(t, err)
}
