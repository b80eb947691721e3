// Productrec - Neural Product Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/productrec

// Package main is the entry point for the Productrec server.
//
// Startup order:
//
//  1. Configuration: defaults, optional config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Catalog: products and interactions read through an in-memory DuckDB
//  4. Model: safetensors snapshot, verified against MODEL_DIGEST when set
//     and against the catalog's user, product and category counts
//  5. HTTP server: chi router supervised by a suture tree
//
// Any failure in steps 1-4 exits the process; there is no degraded mode.
//
// # Configuration
//
// The most common settings:
//
//	PORT_BACKEND_RNA_APPLICATIONS  listen port (default 3450)
//	PRODUCTS_PATH                  products CSV (default utils/products.csv)
//	INTERACTIONS_PATH              interactions CSV (default utils/interactions.csv)
//	MODEL_PATH                     model snapshot (default utils/ncf_model_with_categories.safetensors)
//	MODEL_DIGEST                   expected BLAKE2b-256 of the snapshot, optional
//	CORS_ORIGINS                   comma-separated allowed origins
//	LOG_LEVEL, LOG_FORMAT          logging (info, json)
//
// # Signal Handling
//
// SIGINT and SIGTERM stop accepting connections and wait up to
// SHUTDOWN_TIMEOUT for in-flight requests.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	_ "github.com/tomtom215/productrec/docs" // registers the swagger spec
	"github.com/tomtom215/productrec/internal/api"
	"github.com/tomtom215/productrec/internal/config"
	"github.com/tomtom215/productrec/internal/logging"
	"github.com/tomtom215/productrec/internal/metrics"
	"github.com/tomtom215/productrec/internal/supervisor"
	"github.com/tomtom215/productrec/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	if _, err := maxprocs.Set(maxprocs.Logger(logging.Printf)); err != nil {
		logging.Warn().Err(err).Msg("Failed to set GOMAXPROCS from CPU quota")
	}

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Int("gomaxprocs", runtime.GOMAXPROCS(0)).
		Msg("Starting Productrec")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec, err := initRecommend(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize recommender")
	}

	handler := api.NewHandler(rec.recommender, rec.store, rec.modelInfo, cfg)
	router := api.NewRouter(handler, cfg)
	server := newHTTPServer(cfg, router.SetupChi())

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	// errCh receives exactly one value and is never closed.
	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Productrec stopped")
}

func newHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
}
