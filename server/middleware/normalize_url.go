// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"

	"codeberg.org/mangafe/mangafe/config"
)

// NormalizeURL is a middleware that redirects to canonical URLs by:
//  1. Adding the trailing slash to a bare base path ("/reader" to "/reader/").
//  2. Removing trailing slashes from every other path except the base path.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	basePath := config.Global.Basic.BasePath
	if basePath == "" {
		basePath = "/"
	}

	if basePath != "/" && r.URL.Path == strings.TrimSuffix(basePath, "/") {
		redirectToPath(w, r, basePath)

		return
	}

	if hasTrailingSlash(r, basePath) {
		redirectToPath(w, r, strings.TrimRight(r.URL.Path, "/"))

		return
	}

	next.ServeHTTP(w, r)
}

// hasTrailingSlash checks if a request path has a trailing slash, other than
// the root or the base path itself.
func hasTrailingSlash(r *http.Request, basePath string) bool {
	return r.URL.Path != basePath && r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}

// redirectToPath redirects to path, keeping the query string.
func redirectToPath(w http.ResponseWriter, r *http.Request, path string) {
	target := *r.URL
	target.Path = path
	target.RawPath = ""

	// Collapse a leading "//" so the target cannot be read as a scheme-relative URL.
	if strings.HasPrefix(target.Path, "//") {
		target.Path = "/" + strings.TrimLeft(target.Path, "/")
	}

	if target.Path == "" {
		target.Path = "/"
	}

	http.Redirect(w, r, target.RequestURI(), http.StatusPermanentRedirect)
}
