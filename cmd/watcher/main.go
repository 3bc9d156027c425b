package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fangwater/inventory-watch/internal/api"
	"github.com/fangwater/inventory-watch/internal/config"
	"github.com/fangwater/inventory-watch/internal/poller"
	"github.com/fangwater/inventory-watch/internal/sign"
	"github.com/fangwater/inventory-watch/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/watcher.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting watcher",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Parse key material up front; a bad key must fail before the loop starts.
	signer, err := sign.New(sign.Config{
		Algorithm:      cfg.API.SignatureAlgo,
		Secret:         cfg.API.Secret,
		PrivateKeyPath: cfg.API.PrivateKeyPath,
		Passphrase:     cfg.API.PrivateKeyPassphrase,
	})
	if err != nil {
		logger.Error("failed to build signer", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"algo", signer.Algorithm(),
		"endpoints", len(cfg.Endpoints),
		"types", cfg.Query.Types,
		"interval", cfg.Poller.Interval,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	client := api.NewClient(cfg.API.Key, signer,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRecvWindow(cfg.API.RecvWindow),
		api.WithRetries(cfg.API.MaxRetries, 500*time.Millisecond),
	)

	p := poller.New(poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
		Timeout:     cfg.API.Timeout,
		Hosts:       cfg.Endpoints,
		MarginTypes: cfg.Query.Types,
		Assets:      cfg.Query.Assets,
	}, client, nil, logger)

	if err := p.Start(ctx); err != nil {
		logger.Error("failed to start poller", "error", err)
		os.Exit(1)
	}

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := p.Stop(shutdownCtx); err != nil {
		logger.Warn("poller did not stop cleanly", "error", err)
	}

	logger.Info("watcher stopped")
}
