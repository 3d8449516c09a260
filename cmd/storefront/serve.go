package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/catalog"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/config"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/events"
	httpserver "github.com/Felipp-EMIDES/VERANO-GELADO/internal/http"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/metrics"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/notify"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/render"
	"github.com/Felipp-EMIDES/VERANO-GELADO/internal/storefront"
)

func serveCmd() *cobra.Command {
	cfg := config.Load()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the storefront over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "HTTP listen address")
	flags.DurationVar(&cfg.DismissAfter, "dismiss-after", cfg.DismissAfter, "delay before a notification is dismissed")
	flags.StringVar(&cfg.SessionCookie, "session-cookie", cfg.SessionCookie, "name of the session cookie")
	flags.DurationVar(&cfg.SessionIdleTimeout, "session-idle-timeout", cfg.SessionIdleTimeout, "evict sessions idle for longer than this")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown deadline")
	flags.BoolVar(&cfg.LogDev, "dev", cfg.LogDev, "human readable development logging")

	return cmd
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func serve(parent context.Context, cfg config.Config) error {
	if parent == nil {
		parent = context.Background()
	}

	logger, err := newLogger(cfg.LogDev)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	logger = logger.With(zap.String("service", "storefront"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	sessions := storefront.NewRegistry(storefront.Deps{
		Renderer:      render.NewRenderer(),
		Publisher:     events.NewLogPublisher(logger, events.NewSequenceRepository()),
		Metrics:       metrics.New(reg),
		Logger:        logger,
		NotifyOptions: []notify.Option{notify.WithDismissAfter(cfg.DismissAfter)},
	})
	defer sessions.Close()

	cartHandler := httpserver.NewCartHandler(sessions, catalog.Default(), cfg.SessionCookie, logger)
	router := httpserver.NewRouter(httpserver.Deps{Cart: cartHandler, Logger: logger, Gatherer: reg})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sessions.RunJanitor(ctx, cfg.JanitorInterval, cfg.SessionIdleTimeout)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown error", zap.Error(err))
	}
	logger.Info("shutdown complete")
	return nil
}
