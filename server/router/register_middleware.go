// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/server/middleware"
	"codeberg.org/mangafe/mangafe/server/middleware/limiter"
	"codeberg.org/mangafe/mangafe/server/middleware/set_request_context"
)

// RegisterMiddleware installs the middleware chain.
func (router *Router) RegisterMiddleware() error {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)                // canonical trailing slashes
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)          // all pages need this

	if config.Global.Limiter.Enabled {
		excluded := []string{HealthzPath}
		if config.Global.Metrics.Enabled {
			excluded = append(excluded, config.Global.Metrics.Path)
		}

		l, err := limiter.New(excluded...)
		if err != nil {
			return err
		}

		router.Use(l.Evaluate)
	}

	return nil
}
