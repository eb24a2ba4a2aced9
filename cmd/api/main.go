package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/connprobe/internal/app"
	"github.com/hamed0406/connprobe/internal/config"
	"github.com/hamed0406/connprobe/internal/httpapi"
	apimw "github.com/hamed0406/connprobe/internal/httpapi/middleware"
	"github.com/hamed0406/connprobe/internal/logging"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends := app.Open(ctx, cfg, logger)
	defer backends.Close()

	watcher := backends.Watcher(cfg, logger)
	watchDone := make(chan struct{})
	go func() {
		defer close(watchDone)
		watcher.Run(ctx)
	}()

	var scanner httpapi.Scanner
	if cfg.WatchInterval > 0 {
		scanner = watcher
	}
	api := httpapi.NewServer(logger, backends.Suite, scanner)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}
	trusted, err := apimw.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		logger.Fatal("config_invalid", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(keys, cfg.AllowedOrigins, cfg.PublicRPM, cfg.PublicBurst, trusted),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api_listen",
			zap.String("addr", cfg.Addr),
			zap.String("database_url", config.Redact(cfg.DatabaseURL)),
			zap.String("redis_url", config.Redact(cfg.RedisURL)),
			zap.Duration("probe_timeout", cfg.ProbeTimeout),
			zap.Bool("probe_concurrent", cfg.ProbeConcurrent),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("api_listen_failed", zap.Error(err))
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_error", zap.Error(err))
	}
	<-watchDone
	logger.Info("api_stopped")
}
