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

	"github.com/hamed0406/pagegrader/internal/config"
	"github.com/hamed0406/pagegrader/internal/document"
	"github.com/hamed0406/pagegrader/internal/httpapi"
	apimw "github.com/hamed0406/pagegrader/internal/httpapi/middleware"
	"github.com/hamed0406/pagegrader/internal/logging"
	"github.com/hamed0406/pagegrader/internal/notify"
	"github.com/hamed0406/pagegrader/internal/repo/memory"
)

func main() {
	cfg := config.FromEnv()
	logDir := cfg.LogDir
	if logDir == "" {
		logDir = "logs"
	}
	logger, err := logging.NewLogger(logging.Options{Dir: logDir, Level: cfg.LogLevel, Console: os.Stderr})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	fetcher := document.NewFetcher(document.Config{
		Timeout:   cfg.HTTPTimeout,
		MaxBytes:  cfg.MaxBodyBytes,
		UserAgent: cfg.UserAgent,
	})
	if cfg.HTTPTimeout == 0 {
		// a hung upstream would otherwise pin a handler forever
		fetcher.Client.Timeout = 30 * time.Second
	}

	api := httpapi.NewServer(logger, memory.New(0), fetcher, nil)
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		api.Notifier = s
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.Router(httpapi.RouterOptions{
			Keys:           apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys},
			AllowedOrigins: cfg.AllowedOrigins,
			PublicRPM:      cfg.PublicRPM,
			PublicBurst:    cfg.PublicBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr), zap.Bool("slack", api.Notifier != nil))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("api_listen_failed", zap.Error(err))
	}
	logger.Info("api_stopped")
}
