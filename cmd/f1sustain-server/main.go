package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/lucasjlepore/f1-sustainability/internal/api"
	"github.com/lucasjlepore/f1-sustainability/internal/config"
	"github.com/lucasjlepore/f1-sustainability/internal/logging"
	"github.com/lucasjlepore/f1-sustainability/internal/metrics"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional; F1S_* env vars always apply)")
	dataDir := flag.String("data-dir", "", "override data.dir from the config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "f1sustain-server failed: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.Data.Dir = *dataDir
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "f1sustain-server failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close() //nolint:errcheck
	slog.SetDefault(logger.Logger)

	logger.Info("config loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("data_dir", cfg.Data.Dir),
		slog.Bool("strict", cfg.Data.Strict),
		slog.String("log_level", cfg.Logging.Level),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()
	srv := api.New(api.Options{
		DataDir: cfg.Data.Dir,
		Strict:  cfg.Data.Strict,
		Logger:  logger.Logger,
		Metrics: m,

		RateLimitRPS:   cfg.Server.RateLimitRPS,
		RateLimitBurst: cfg.Server.RateLimitBurst,
	})

	// Reloads only move the data directory and log level; listener settings
	// need a restart.
	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, logger.Logger, func(next *config.Config) {
				if *dataDir == "" {
					srv.SetDataDir(next.Data.Dir)
				}
				logger.SetLevel(next.Logging.Level)
			})
			if err != nil {
				logger.Error("config watch stopped", slog.String("err", err.Error()))
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("HTTP server listening", slog.Int("port", cfg.Server.Port))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", slog.String("err", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("f1sustain-server shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown", slog.String("err", err.Error()))
	}
}
