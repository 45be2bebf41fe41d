// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default cache TTL in minutes.
	defaultCacheTTLMinutes = 10
	// Default HTTP cache max age in seconds.
	defaultHTTPCacheMaxAgeSeconds = 30
	// Default HTTP cache stale while revalidate in seconds.
	defaultHTTPCacheStaleWhileRevalidateSeconds = 60

	// Default upstream request timeout in seconds.
	defaultUpstreamTimeoutSeconds = 15

	// MangaDex caps feed pages at 500 entries; 100 keeps pages light.
	defaultChapterPageSize = 100
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8383"
	cfg.Basic.BasePath = "/"

	cfg.Upstream.RawAPIURL = "https://api.mangadex.org"
	cfg.Upstream.RawCoverURL = "https://uploads.mangadex.org"
	cfg.Upstream.UserAgent = "MangaFE/" + BuildVersion
	cfg.Upstream.Timeout = defaultUpstreamTimeoutSeconds * time.Second

	cfg.Reader.Languages = []string{"en"}
	cfg.Reader.ChapterPageSize = defaultChapterPageSize
	cfg.Reader.DataSaver = false

	cfg.Cache.Enabled = false
	cfg.Cache.Size = 100
	cfg.Cache.TTL = defaultCacheTTLMinutes * time.Minute
	cfg.Cache.Compress = true

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidateSeconds * time.Second

	cfg.Instance.RepoURL = "https://codeberg.org/mangafe/mangafe"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = 2.0
	cfg.Limiter.Burst = 120
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48

	cfg.Metrics.Enabled = false
	cfg.Metrics.Path = "/metrics"

	cfg.Internationalization.StrictMissingKeys = false
}
