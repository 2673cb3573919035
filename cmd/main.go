// Package main provides the CLI entrypoint for the scan station.
// It wires subcommands (serve, lookup, decode, stock), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"stockscan/internal/config"
	"stockscan/pkg/cache"
	"stockscan/pkg/logger"
	"stockscan/pkg/stockapi"
	"stockscan/pkg/stockapi/cached"
	"stockscan/pkg/stockapi/httpapi"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// getStockClient creates the stock API client, wrapped with the configured
// lookup cache, along with a cleanup function releasing the cache.
func getStockClient(ctx context.Context, cfg *config.Config) (stockapi.Client, func()) {
	client, err := httpapi.New(&http.Client{Timeout: cfg.StockAPI.Timeout}, cfg.StockAPI.BaseURL)
	if err != nil {
		logger.Fatal(ctx, "could not create stock API client", zap.Error(err))
	}

	var c cache.Cache
	switch cfg.Cache.Type {
	case "memory":
		c = cache.NewMemory(cfg.Cache.CleanupInterval)
	case "redis":
		c, err = cache.NewRedis(ctx, cache.RedisOptions{
			Addr:      cfg.Cache.Redis.Addr,
			Password:  cfg.Cache.Redis.Password,
			DB:        cfg.Cache.Redis.DB,
			KeyPrefix: cfg.Cache.Redis.KeyPrefix,
		})
		if err != nil {
			logger.Fatal(ctx, "could not connect to redis", zap.Error(err))
		}
	case "none", "":
		return client, func() {}
	default:
		logger.Fatal(ctx, "unknown cache type", zap.String("type", cfg.Cache.Type))
	}

	return cached.New(client, c, cfg.Cache.TTL), func() {
		logger.Info(ctx, "closing lookup cache...")
		if err := c.Close(); err != nil {
			logger.Warn(ctx, "could not close lookup cache", zap.Error(err))
		}
	}
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:   "stockscan",
		Short: "Barcode scan station reconciling scanned products into stock",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(nopWriter{})
	configPath := fs.String("c", "config.yml", "The config file path")
	_ = fs.Parse(configArgs(os.Args[1:]))

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatal("could not setup logger", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(cfg),
		lookupCommand(cfg),
		decodeCommand(cfg),
		stockCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}

// configArgs picks the -c/--config flag out of args, since subcommand flags
// are unknown to the standard flags package.
func configArgs(args []string) []string {
	for i, a := range args {
		if name, value, ok := strings.Cut(a, "="); ok && (name == "-c" || name == "--config") {
			return []string{"-c", value}
		}
		if (a == "-c" || a == "--config") && i+1 < len(args) {
			return []string{"-c", args[i+1]}
		}
	}

	return nil
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
