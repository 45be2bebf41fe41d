// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"codeberg.org/mangafe/mangafe/server/request_context"
	"codeberg.org/mangafe/mangafe/server/routes"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

var (
	// ErrBlocked is reported when the client address is on the block list.
	ErrBlocked = errors.New("IP in block-list")

	// ErrRateLimited is reported when the client's network has no tokens left.
	ErrRateLimited = errors.New("rate limit exceeded")

	errMissingClientIP = errors.New("could not determine client IP")
)

// Evaluate is the limiter middleware.
//
// Checks run in order: excluded paths, the pass list, the block list, then
// the token bucket of the client's network.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer l.maybeCleanup()

	if l.isExcludedPath(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	ip, ok := getClientIP(r)
	if !ok {
		log.Error().Str("remote_addr", r.RemoteAddr).Msg("Could not determine client IP")
		blockPage(w, r, errMissingClientIP, http.StatusBadRequest)

		return
	}

	if matchesList(ip, l.passList) {
		next.ServeHTTP(w, r)

		return
	}

	network := networkOf(ip, l.ipv4Prefix, l.ipv6Prefix)

	if matchesList(ip, l.blockList) {
		log.Warn().
			Str("ip", ip.String()).
			Str("network", network.String()).
			Msg("Request blocked, IP in block-list")

		blockPage(w, r, ErrBlocked, http.StatusForbidden)

		return
	}

	b := l.getOrCreateBucket(network)
	allowed := l.allow(b)

	l.addRateLimitHeaders(w, b)

	if !allowed {
		log.Warn().
			Str("ip", ip.String()).
			Str("network", network.String()).
			Msg("Request blocked, exceeded rate limit")

		blockPage(w, r, ErrRateLimited, http.StatusTooManyRequests)

		return
	}

	next.ServeHTTP(w, r)
}

func (l *Limiter) isExcludedPath(path string) bool {
	for _, prefix := range l.excluded {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}

// addRateLimitHeaders reports the state of b to the client.
func (l *Limiter) addRateLimitHeaders(w http.ResponseWriter, b *bucket) {
	tokens := b.limiter.TokensAt(l.now())
	burst := b.limiter.Burst()
	remaining := max(0, int(math.Min(float64(burst), tokens)))

	var resetTime int64

	if tokens < float64(burst) && l.rate > 0 {
		resetTime = int64(math.Ceil((float64(burst) - tokens) / float64(l.rate)))
	}

	resetStr := strconv.FormatInt(resetTime, 10)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, resetStr)

	if remaining == 0 {
		w.Header().Set("Retry-After", resetStr)
	}
}

// blockPage renders the error page for a refused request.
func blockPage(w http.ResponseWriter, r *http.Request, reason error, statusCode int) {
	rc := request_context.FromRequest(r)
	rc.RequestError = reason
	rc.StatusCode = statusCode

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)

	if err := routes.ErrorPage(w, r); err != nil {
		log.Err(err).Msg("Failed to render the block page")
	}
}
