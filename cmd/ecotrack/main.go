package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ecotrack/ecotrack-ui/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		// InitLogger sets the default logger once config is loaded, so
		// fatal errors after that point come out structured.
		slog.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger := bootstrap.InitLogger(cfg.Logging, cfg.IsDev)

	logger.InfoContext(ctx, "starting ecotrack-ui",
		"addr", cfg.HTTP.Addr,
		"upstream", cfg.Upstream.BaseURL,
		"session_store", cfg.Session.Store,
		"dev", cfg.IsDev)

	store, err := bootstrap.NewSessionStore(&cfg, logger)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	if store.Redis != nil {
		defer func() {
			if cerr := store.Redis.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	services := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:   &cfg,
		Sessions: store.Store,
		Logger:   logger,
	})

	server, err := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	// Block until asked to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logger.InfoContext(ctx, "shutdown signal received", "signal", sig.String())

	return bootstrap.ShutdownHTTPServer(ctx, server, cfg.HTTP, logger)
}
