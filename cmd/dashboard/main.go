package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"scraper-dashboard/internal/backend"
	"scraper-dashboard/internal/catalog"
	"scraper-dashboard/internal/columns"
	"scraper-dashboard/internal/config"
	"scraper-dashboard/internal/httpserver"
	"scraper-dashboard/internal/logging"
	"scraper-dashboard/internal/observability"
	"scraper-dashboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.New(reg)

	ctx := context.Background()
	be, err := backend.Open(ctx, cfg, metrics, logger)
	if err != nil {
		logger.Fatal("open backend", zap.String("backend", cfg.Backend), zap.Error(err))
	}
	defer be.Close()

	cols, err := columns.Load(cfg.ColumnsFile)
	if err != nil {
		logger.Fatal("load column config", zap.String("path", cfg.ColumnsFile), zap.Error(err))
	}

	ready := map[string]httpserver.Pinger{"db": be}
	var store session.Store = session.NewMemoryStore()
	if cfg.RedisURL != "" {
		client, err := session.NewRedisClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("init redis", zap.Error(err))
		}
		defer client.Close()
		redisStore := session.NewRedisStore(client)
		store = redisStore
		ready["redis"] = redisStore
	}

	sessions := session.NewManager(be.Identity, store, session.Options{
		TTL:              cfg.SessionTTL,
		ResetRedirectURL: cfg.ResetRedirectURL,
		Metrics:          metrics,
		Logger:           logger,
	})

	gin.SetMode(gin.ReleaseMode)
	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Products:      catalog.NewFetcher(be.Executor, catalog.DefaultPageSize, metrics, logger),
		Sessions:      sessions,
		ProductsTable: cfg.ProductsTable,
		Columns:       cols,
		Metrics:       metrics,
		CORSOrigins:   cfg.CORSOrigins,
		SessionTTL:    cfg.SessionTTL,
		Ready:         ready,
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
