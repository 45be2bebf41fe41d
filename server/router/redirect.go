// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// The code in this file redirects MangaDex URLs to ours. It works for libredirect.
//
// Add more redirects in (*Router).DefineRoutes

package router

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/server/navigation"
)

// redirectToRoute redirects to the named route, passing the {id} path
// wildcard as its id parameter.
//
// Example:   /title/<id>/<slug>   ->   /manga/<id>
func redirectToRoute(nav *navigation.Navigator, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := nav.Href(name, map[string]string{resolver.IDParam: r.PathValue("id")})
		if err != nil {
			log.Error().Err(err).Str("route", name).Msg("Failed to build redirect target")
			http.NotFound(w, r)

			return
		}

		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	}
}
