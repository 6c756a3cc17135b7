package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/lol-custom-teams/internal/config"
	"github.com/DoyleJ11/lol-custom-teams/internal/httpapi"
	"github.com/DoyleJ11/lol-custom-teams/internal/hub"
	"github.com/DoyleJ11/lol-custom-teams/internal/logging"
	"github.com/DoyleJ11/lol-custom-teams/internal/rating"
	"github.com/DoyleJ11/lol-custom-teams/internal/riot"
	"github.com/DoyleJ11/lol-custom-teams/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := httpapi.Deps{Logger: logger, Workers: cfg.BalanceWorkers}

	var source rating.Source
	if cfg.DatabaseURL != "" {
		st, err := store.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()
		deps.Accounts = st

		if cfg.RatingsEnabled() {
			client, err := riot.NewClient(riot.Options{
				APIKey:   cfg.RiotAPIKey,
				Platform: cfg.RiotPlatform,
				Retries:  cfg.RiotRetries,
				Logger:   logger.Named("riot"),
			})
			if err != nil {
				return err
			}
			source = &riot.RatingSource{Client: client, Accounts: st}
		}
	}
	if source == nil {
		logger.Warn("ranked lookups disabled, unrated players default", zap.Int("rating", rating.Default))
	}

	deps.Resolver = rating.NewResolver(source, logger.Named("rating"), cfg.RatingTimeout)
	deps.Hub = hub.NewHub(ctx, deps.Resolver, logger.Named("hub"))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.SetupRoutes(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	// The hub and its lobbies stop with ctx and close their websocket outboxes.
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
