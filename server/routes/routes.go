// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package routes implements the handlers bound to each view of the route table.
package routes

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/server/navigation"
	"codeberg.org/mangafe/mangafe/server/utils"
)

// ErrInvalidID is returned when a captured id is not a UUID.
var ErrInvalidID = errors.New("invalid id")

// maxPrefetchedImages caps the prefetch hints sent with a chapter so the Link
// header stays small.
const maxPrefetchedImages = 10

// Views returns the handler for every view of the manga route table.
func Views() map[resolver.View]navigation.ViewHandler {
	return map[resolver.View]navigation.ViewHandler{
		resolver.HomeView:          HomePage,
		resolver.MangaDetailView:   MangaDetailPage,
		resolver.ChapterListView:   ChapterListPage,
		resolver.ChapterReaderView: ChapterReaderPage,
	}
}

// idParam returns the canonical form of the captured id.
func idParam(params map[string]string) (string, error) {
	raw := utils.GetMapParam(params, resolver.IDParam)

	id, err := uuid.Parse(raw)
	if err != nil || len(raw) != len(id.String()) {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}

	return id.String(), nil
}

// setPublicCache marks a response as cacheable by shared caches.
func setPublicCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
		int(config.Global.HTTPCache.MaxAge.Seconds()),
		int(config.Global.HTTPCache.StaleWhileRevalidate.Seconds())))
}

func makePreloadImageLink(url string) string {
	return fmt.Sprintf("<%s>; rel=\"preload\"; as=\"image\"; fetchpriority=\"high\"", url)
}

func makePrefetchImageLink(url string) string {
	return fmt.Sprintf("<%s>; rel=\"prefetch\"; as=\"image\"; fetchpriority=\"low\"", url)
}

// preloadPages writes a single Link header that preloads the first page and
// prefetches the ones after it.
func preloadPages(w http.ResponseWriter, pages []string) {
	if len(pages) == 0 {
		return
	}

	linkValues := []string{makePreloadImageLink(pages[0])}

	for _, page := range pages[1:min(len(pages), maxPrefetchedImages+1)] {
		linkValues = append(linkValues, makePrefetchImageLink(page))
	}

	w.Header().Add("Link", strings.Join(linkValues, ", "))
}
