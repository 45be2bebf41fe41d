// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/pprof"
	"runtime/trace"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/server/metrics"
	"codeberg.org/mangafe/mangafe/server/middleware"
)

// HealthzPath answers liveness probes.
const HealthzPath = "/healthz"

// DefineRoutes registers the service endpoints, the upstream URL redirects
// and the navigator as the catch-all for the base path.
func (router *Router) DefineRoutes() {
	basePath := config.Global.Basic.BasePath
	if basePath == "" {
		basePath = "/"
	}

	router.HandleFunc("GET "+HealthzPath, healthz)

	if config.Global.Metrics.Enabled {
		router.Handle("GET "+config.Global.Metrics.Path, metrics.Global.Handler())
	}

	// MangaDex-style URLs, so redirect extensions can point at this instance.
	router.HandleFunc("GET "+basePath+"title/{id}", redirectToRoute(router.navigator, resolver.MangaDetail))
	router.HandleFunc("GET "+basePath+"title/{id}/{slug}", redirectToRoute(router.navigator, resolver.MangaDetail))
	router.HandleFunc("GET "+basePath+"chapter/{id}", redirectToRoute(router.navigator, resolver.ChapterReader))

	if config.Global.Development.InDevelopment {
		registerDebugRoutes(router)
	}

	// A pattern ending in "/" matches its whole subtree; more specific patterns above win.
	router.Handle("GET "+basePath, middleware.CatchError(router.navigator.Navigate))

	// Paths outside the base path never resolve; the navigator still answers
	// them so they get the error page and count as a miss.
	if basePath != "/" {
		router.Handle("GET /", middleware.CatchError(router.navigator.Navigate))
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte("ok\n"))
}

var flightRecorder = trace.NewFlightRecorder(trace.FlightRecorderConfig{MinAge: time.Minute})

func registerDebugRoutes(router *Router) {
	if err := flightRecorder.Start(); err != nil {
		log.Warn().Err(err).Msg("Could not start the flight recorder")
	}

	router.HandleFunc("GET /debug/pprof/", pprof.Index)
	router.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	router.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	router.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	router.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	router.HandleFunc("GET /debug/flight", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = flightRecorder.WriteTo(w)
	})
}
