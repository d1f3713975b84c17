package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kalon-network/testnet-faucet/faucet"
	"github.com/kalon-network/testnet-faucet/internal/api"
	"github.com/kalon-network/testnet-faucet/internal/client"
	"github.com/kalon-network/testnet-faucet/internal/config"
	"github.com/kalon-network/testnet-faucet/internal/handler"
	"github.com/kalon-network/testnet-faucet/internal/store"
)

// @title        Kalon Testnet Faucet API
// @version      1.0
// @description  HTTP faucet dispensing KLN test funds behind bot detection and rate limiting
// @BasePath     /
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	st, err := initStore(cfg)
	if err != nil {
		slog.Error("failed to init store", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			slog.Error("failed to close store", "err", err)
		}
	}()

	verifier := client.NewCaptchaClient(cfg.CaptchaVerifyURL, cfg.CaptchaSecret)

	var (
		ledger   *client.LedgerClient
		executor faucet.TransferExecutor
	)
	if cfg.LedgerConfigured() {
		ledger = client.NewLedgerClient(cfg.LedgerURL)
		executor = faucet.NewLedgerExecutor(ledger, cfg.FaucetAddress, cfg.FaucetSeed)
		slog.Info("ledger configured", "url", cfg.LedgerURL, "faucet_address", cfg.FaucetAddress)
	} else {
		executor = faucet.DryRunExecutor{}
		slog.Warn("ledger not configured, running in dry-run mode")
	}

	pipeline := faucet.NewPipeline(st, verifier, executor, cfg.ClaimAmount, cfg.IPHourlyLimit)
	faucetHandler := handler.NewFaucetHandler(cfg, pipeline, ledger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(faucetHandler),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("faucet listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
	}
}

func initStore(cfg *config.Config) (store.Store, error) {
	if cfg.RedisAddr == "" {
		slog.Warn("REDIS_ADDR not set, using in-process store")
		return store.NewMemory(), nil
	}
	return store.NewRedis(store.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
