package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/onflow/mint-node/engine/mintnode"
	"github.com/onflow/mint-node/model/node"
	"github.com/onflow/mint-node/module/dkg/feldman"
	"github.com/onflow/mint-node/module/irrecoverable"
	"github.com/onflow/mint-node/module/metrics"
	bstorage "github.com/onflow/mint-node/storage/badger"
)

const envPrefix = "MINT"

var rootCmd = &cobra.Command{
	Use:   "mint-node [peer addresses...]",
	Short: "Run a mint node",
	Long: `Run a mint node. The node announces itself to the given peers, runs a
distributed key generation with them once three nodes know each other, and then
serves wallet requests with the resulting key.

Peers are given as multiaddrs (/ip4/127.0.0.1/tcp/4001) or host:port pairs.
Every flag can also be set through an environment variable named after it,
e.g. MINT_LISTEN_IP for --listen-ip.`,
	SilenceUsage: true,
	RunE:         run,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addFlags(rootCmd.Flags())
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func run(cmd *cobra.Command, args []string) error {
	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		return fmt.Errorf("could not bind flags: %w", err)
	}

	log, err := newLogger(viper.GetString(flagLogLevel))
	if err != nil {
		return err
	}

	cfg, err := nodeConfig(args)
	if err != nil {
		return err
	}

	me, err := node.RandomIdentity()
	if err != nil {
		return fmt.Errorf("could not generate node identity: %w", err)
	}

	db, err := bstorage.InitSecretsDB(log, viper.GetString(flagDataDir))
	if err != nil {
		return err
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	collector := metrics.NewMintNodeCollector(registry)

	mintNode, err := mintnode.New(log, me, cfg, feldman.NewFactory(), bstorage.NewDKGKeys(db), collector)
	if err != nil {
		return fmt.Errorf("could not create mint node: %w", err)
	}

	log.Info().
		Str("node_id", me.String()).
		Str("mint_address", mintNode.MintAddress().String()).
		Str("wallet_address", mintNode.WalletAddress().String()).
		Msg("mint node listening")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	if port := viper.GetUint(flagMetricsPort); port != 0 {
		server := metrics.NewServer(log, port, registry)
		g.Go(func() error {
			return server.Run(gctx)
		})
	}
	g.Go(func() error {
		return mintNode.Run(gctx)
	})

	err = g.Wait()
	if irrecoverable.IsException(err) {
		log.Error().Err(err).Msg("mint node stopped on irrecoverable error")
		return err
	}
	if err != nil {
		return fmt.Errorf("mint node failed: %w", err)
	}
	return nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}
