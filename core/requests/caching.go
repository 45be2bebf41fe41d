// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/requests/lrucache"
)

var (
	cache *lrucache.LRUCache

	// excludedCachePaths lists API endpoints whose responses are never cached.
	//
	// At-home server URLs carry short-lived tokens.
	excludedCachePaths = []string{
		"/at-home/",
	}
)

// Setup initializes the upstream response cache from config.Global.Cache.
//
// When caching is disabled any previous cache is dropped.
func Setup() error {
	if !config.Global.Cache.Enabled {
		cache = nil

		log.Info().
			Msg("Cache is disabled, skipping cache initialization")

		return nil
	}

	c, err := lrucache.New(config.Global.Cache.Size, config.Global.Cache.Compress)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	cache = c

	log.Info().
		Int("size", config.Global.Cache.Size).
		Dur("ttl", config.Global.Cache.TTL).
		Bool("compress", config.Global.Cache.Compress).
		Msg("Initialized upstream response cache")

	return nil
}

func generateCacheKey(rawURL string) string {
	hasher := fnv.New64a()

	_, _ = hasher.Write([]byte(rawURL))

	return strconv.FormatUint(hasher.Sum64(), 16)
}

// cacheable reports whether responses for rawURL may be stored.
func cacheable(rawURL string) bool {
	if cache == nil {
		return false
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	for _, prefix := range excludedCachePaths {
		if strings.HasPrefix(parsedURL.Path, prefix) {
			return false
		}
	}

	return true
}

func cacheGet(rawURL string) ([]byte, bool) {
	if !cacheable(rawURL) {
		return nil, false
	}

	return cache.Get(generateCacheKey(rawURL))
}

func cachePut(rawURL string, body []byte) {
	if !cacheable(rawURL) {
		return
	}

	if cache.Add(generateCacheKey(rawURL), body, config.Global.Cache.TTL) {
		log.Debug().Msg("Evicted upstream response from cache")
	}
}

// cacheDrop forgets a stored response, e.g. one that no longer decodes.
func cacheDrop(rawURL string) {
	if !cacheable(rawURL) {
		return
	}

	cache.Remove(generateCacheKey(rawURL))
}

// RunCacheJanitor drops expired responses every interval until ctx is done.
//
// It returns immediately when the cache is disabled.
func RunCacheJanitor(ctx context.Context, interval time.Duration) {
	c := cache
	if c == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.RemoveExpired(); removed > 0 {
				log.Debug().
					Int("removed", removed).
					Int("remaining", c.Len()).
					Msg("Swept expired upstream responses")
			}
		}
	}
}
