// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
MangaFE is a server-rendered front-end for MangaDex-compatible manga catalogs.
*/
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

	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/audit"
	"codeberg.org/mangafe/mangafe/core/requests"
	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/i18n"
	"codeberg.org/mangafe/mangafe/server/metrics"
	"codeberg.org/mangafe/mangafe/server/navigation"
	"codeberg.org/mangafe/mangafe/server/router"
	"codeberg.org/mangafe/mangafe/server/routes"
)

const (
	// Values for http.Server timeouts.
	// ref: gosec: G112
	readHeaderTimeout time.Duration = 15 * time.Second
	readTimeout       time.Duration = 15 * time.Second
	writeTimeout      time.Duration = 30 * time.Second
	idleTimeout       time.Duration = 30 * time.Second

	serverShutdownDeadline time.Duration = 5 * time.Second
)

// main is the entry point of the application.
func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Application failed")
	}
}

// newHandler wires the route table to the views and builds the router.
func newHandler() (http.Handler, error) {
	nav, err := navigation.New(resolver.Manga(), config.Global.Basic.BasePath, routes.Views())
	if err != nil {
		return nil, fmt.Errorf("failed to bind views: %w", err)
	}

	r := router.New(nav)
	r.DefineRoutes()

	if err := r.RegisterMiddleware(); err != nil {
		return nil, fmt.Errorf("failed to set up middleware: %w", err)
	}

	return r, nil
}

// run orchestrates the application startup and graceful shutdown.
func run() error {
	audit.SetDefaultLogger()

	if err := config.Global.LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := i18n.Setup(); err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	// Initialize API response cache
	if err := requests.Setup(); err != nil {
		return fmt.Errorf("failed to set up the response cache: %w", err)
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()

	go requests.RunCacheJanitor(janitorCtx, config.Global.Cache.TTL)

	if config.Global.Metrics.Enabled {
		metrics.Setup()

		log.Info().Str("path", config.Global.Metrics.Path).Msg("Serving Prometheus metrics")
	}

	handler, err := newHandler()
	if err != nil {
		return err
	}

	// Create http.Server instance
	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	// Channel to listen for server errors
	serverErrors := make(chan error, 1)

	// Start main server in a goroutine
	go func() {
		listener, err := listen(context.Background())
		if err != nil {
			serverErrors <- fmt.Errorf("failed to create listener: %w", err)

			return
		}

		serverErrors <- server.Serve(listener)
	}()

	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until a shutdown signal or a server error is received
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case s := <-quit:
		log.Info().Str("signal", s.String()).Msg("Shutdown signal received")
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownDeadline)

		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
	}

	log.Info().Msg("Server exited gracefully")

	return nil
}
