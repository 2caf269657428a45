package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pairpool/internal/config"
	"pairpool/internal/handler"
	"pairpool/internal/pool"
	"pairpool/internal/service"
	"pairpool/internal/storage"
	"pairpool/internal/storage/postgres"
	"pairpool/internal/token"
)

func main() {
	root := &cobra.Command{
		Use:          "pool",
		Short:        "Two-asset constant-product liquidity pool",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pool HTTP service",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().String("pool-address", "0x0000000000000000000000000000000000000001", "pool account address")
	serveCmd.Flags().String("token-a", "TKA", "first demo asset symbol")
	serveCmd.Flags().String("token-b", "TKB", "second demo asset symbol")
	serveCmd.Flags().String("journal", "./data/events.jsonl", "event journal JSONL path")
	serveCmd.Flags().String("snapshot", "./data/snapshot.json", "state snapshot file path")
	serveCmd.Flags().Bool("snapshot-enabled", true, "enable state snapshots")
	serveCmd.Flags().String("postgres-dsn", "", "optional Postgres DSN for event storage")
	serveCmd.Flags().Int("max-retries", 5, "maximum retry attempts for sink writes")
	serveCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Compute a swap output for given reserves, offline",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("amount-in", "", "input amount")
	quoteCmd.Flags().String("reserve-in", "", "input-side reserve")
	quoteCmd.Flags().String("reserve-out", "", "output-side reserve")

	root.AddCommand(quoteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if !common.IsHexAddress(cfg.PoolAddress) {
		return fmt.Errorf("invalid pool address: %s", cfg.PoolAddress)
	}
	poolAddr := common.HexToAddress(cfg.PoolAddress)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := token.NewLedgerRegistry(poolAddr)
	for _, symbol := range []string{cfg.TokenASymbol, cfg.TokenBSymbol} {
		asset := assetAddress(symbol)
		registry.Register(asset, token.NewLedger(symbol))
		logger.Info("demo asset registered",
			zap.String("symbol", symbol),
			zap.String("asset", asset.Hex()),
		)
	}

	sinks := []storage.Storage{storage.NewJsonlStorage(cfg.Journal)}
	if cfg.PostgresDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		sinks = append(sinks, store)
	}

	opts := []service.Option{
		service.WithStorage(sinks...),
		service.WithRetryPolicy(cfg.MaxRetries, cfg.RetryBackoff),
	}
	if cfg.SnapshotEnabled {
		opts = append(opts, service.WithSnapshotStore(service.NewSnapshotStore(cfg.Snapshot, true)))
	}

	svc := service.New(logger, poolAddr, registry, opts...)
	if err := svc.Restore(); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}

	app := fiber.New()
	handler.NewPoolHandler(logger, svc).Register(app)
	handler.NewFaucetHandler(logger, registry, poolAddr).Register(app)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Listen)
	}()

	logger.Info("pool service start",
		zap.String("listen", cfg.Listen),
		zap.String("pool", poolAddr.Hex()),
		zap.String("journal", cfg.Journal),
		zap.Bool("snapshot_enabled", cfg.SnapshotEnabled),
		zap.Bool("postgres", cfg.PostgresDSN != ""),
	)

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return app.Shutdown()
	case err := <-errCh:
		return err
	}
}

func runQuote(cmd *cobra.Command, _ []string) error {
	amountIn, err := flagBigInt(cmd, "amount-in")
	if err != nil {
		return err
	}
	reserveIn, err := flagBigInt(cmd, "reserve-in")
	if err != nil {
		return err
	}
	reserveOut, err := flagBigInt(cmd, "reserve-out")
	if err != nil {
		return err
	}

	out, err := pool.Quote(amountIn, reserveIn, reserveOut)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out.String())
	return nil
}

func flagBigInt(cmd *cobra.Command, name string) (*big.Int, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, fmt.Errorf("%s is required", name)
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return v, nil
}

// assetAddress derives a stable demo asset identity from its symbol, so
// restarts and clients agree on addresses without extra configuration.
func assetAddress(symbol string) common.Address {
	return common.BytesToAddress([]byte("asset:" + symbol))
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
