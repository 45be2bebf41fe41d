// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package metrics exposes Prometheus counters for route resolution and request handling.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mangafe"

// NoMatchLabel is the route label recorded for paths that match no pattern.
const NoMatchLabel = "no_match"

// Global is the process-wide collector set, nil while metrics are disabled.
//
// All methods are safe to call on a nil *Metrics.
var Global *Metrics

// Metrics holds the collectors registered by [New].
type Metrics struct {
	registry prometheus.Gatherer

	resolutions     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	upstreamCached  prometheus.Counter
}

// New registers the collectors with a fresh registry that also carries the
// Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_resolutions_total",
			Help:      "Route resolutions by matched route name",
		}, []string{"route"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent handling requests, by route and status code",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),

		upstreamCached: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_cache_hits_total",
			Help:      "Upstream responses served from the response cache",
		}),
	}
}

// Setup enables the global collectors.
func Setup() {
	Global = New()
}

// ObserveResolution counts a resolution outcome. An empty route counts as [NoMatchLabel].
func (m *Metrics) ObserveResolution(route string) {
	if m == nil {
		return
	}

	if route == "" {
		route = NoMatchLabel
	}

	m.resolutions.WithLabelValues(route).Inc()
}

// ObserveRequest records how long a request took.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}

	if route == "" {
		route = NoMatchLabel
	}

	m.requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

// ObserveCacheHit counts an upstream cache hit.
func (m *Metrics) ObserveCacheHit() {
	if m == nil {
		return
	}

	m.upstreamCached.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
