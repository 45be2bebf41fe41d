// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strings"
	"sync/atomic"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/server/utils"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// MangaFE-Version and MangaFE-Revision are added dynamically in SetResponseHeaders.
	// HSTS is only sent over secure connections.
	baseHeaders = http.Header{
		"Referrer-Policy":        {"no-referrer"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Permissions-Policy":     {strings.Join(defaultPermissionsPolicy, ", ")},
	}

	// baseCSP defines static CSP directives that don't change.
	baseCSP = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"font-src 'self'",
		"connect-src 'self'",
		"script-src 'none'",
		"frame-src 'none'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}

	defaultPermissionsPolicy = []string{
		"accelerometer=()",
		"camera=()",
		"display-capture=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"payment=()",
		"usb=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
//
// Handlers may override Cache-Control.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	headers.Set("Cache-Control", "private, no-cache")
	headers.Set("MangaFE-Version", config.BuildVersion)
	headers.Set("MangaFE-Revision", config.Global.Build.Revision())
	headers.Set("Content-Security-Policy", buildCSP())

	if utils.IsConnectionSecure(r) {
		headers.Set("Strict-Transport-Security", hstsValue)
	}

	next.ServeHTTP(w, r)
}

const hstsValue = "max-age=31536000"

var firstDevResponse atomic.Bool

// invalidateCacheInDevelopment clears the browser cache on the first response after a restart.
func invalidateCacheInDevelopment(headers http.Header) {
	if firstDevResponse.CompareAndSwap(false, true) {
		headers.Set("Clear-Site-Data", "\"cache\"")
	}
}

// buildCSP allows images from the cover host and from any HTTPS origin,
// since the at-home network hands out a different image server per chapter.
func buildCSP() string {
	directives := make([]string, len(baseCSP), len(baseCSP)+1)
	copy(directives, baseCSP)

	imgSrc := "img-src 'self' data: https:"
	if origin := utils.GetOriginFromURL(config.Global.Upstream.CoverURL); origin != "" && !strings.HasPrefix(origin, "https:") {
		imgSrc += " " + origin
	}

	directives = append(directives, imgSrc)

	return strings.Join(directives, "; ") + ";"
}
