// DCICFLIX - Hybrid Movie Recommendation Service
// Copyright 2026 DCICFLIX contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/giuliagiacomodonato/dcicflix

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/giuliagiacomodonato/dcicflix/internal/api"
	"github.com/giuliagiacomodonato/dcicflix/internal/config"
	"github.com/giuliagiacomodonato/dcicflix/internal/logging"
	"github.com/giuliagiacomodonato/dcicflix/internal/metrics"
	"github.com/giuliagiacomodonato/dcicflix/internal/recommend"
	"github.com/giuliagiacomodonato/dcicflix/internal/supervisor"
	"github.com/giuliagiacomodonato/dcicflix/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Recommender stopped")
	}
}

//nolint:gocyclo // sequential setup steps
func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})
	logger := logging.Logger()
	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting DCICFLIX recommender")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := initStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer stores.Close()

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), stores.catalog, stores.interactions, logging.WithComponent("recommend"))
	if err != nil {
		return fmt.Errorf("create recommendation engine: %w", err)
	}

	respCache, err := initCache(cfg, logger)
	if err != nil {
		return err
	}
	defer respCache.Close()

	checks := map[string]api.HealthCheck{"mongodb": stores.mongo.Ping}
	if respCache.redis != nil {
		checks["redis"] = respCache.redis.Ping
	}

	handler := api.NewHandler(engine, api.HandlerOptions{
		Cache:              respCache.Store(),
		LazyLoad:           cfg.Recommend.LazyLoad,
		RefreshMinInterval: cfg.Refresh.MinInterval,
		Checks:             checks,
		Version:            version,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(middlewareConfig(cfg)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(services.NewRefreshService(engine, services.RefreshServiceConfig{
		OnStartup: cfg.Refresh.OnStartup,
		Interval:  cfg.Refresh.Interval,
	}, logger))
	if err := initEvents(cfg, engine, tree, logger); err != nil {
		return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))

	logger.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received, waiting for services to stop")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logger.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logger.Info().Msg("Recommender stopped gracefully")
	return nil
}

func middlewareConfig(cfg *config.Config) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	if len(cfg.Security.CORSOrigins) > 0 {
		mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	}
	mw.RateLimitRequests = cfg.Security.RateLimitReqs
	mw.RateLimitWindow = cfg.Security.RateLimitWindow
	mw.RateLimitDisabled = cfg.Security.RateLimitDisabled
	return mw
}
