// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"fmt"
	"net/http"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/catalog"
	"codeberg.org/mangafe/mangafe/server/request_context"
	"codeberg.org/mangafe/mangafe/server/utils"
	"codeberg.org/mangafe/mangafe/views"
)

// ErrExternalURL is returned when an externally hosted chapter has no usable link.
var ErrExternalURL = errors.New("invalid external chapter URL")

// ChapterReaderPage is the handler for the chapter reader view.
//
// "?quality=data-saver" and "?quality=data" override Reader.DataSaver.
func ChapterReaderPage(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	id, err := idParam(params)
	if err != nil {
		return err
	}

	dataSaver := config.Global.Reader.DataSaver

	switch utils.GetQueryParam(r, views.QualityParam) {
	case views.QualityDataSaver:
		dataSaver = true
	case views.QualityData:
		dataSaver = false
	}

	pages, err := catalog.GetChapterPages(r.Context(), id, dataSaver, request_context.FromRequest(r).Languages)
	if err != nil {
		return err
	}

	if pages.External() {
		return redirectExternal(w, r, pages.ExternalURL)
	}

	// Image server URLs handed out by the at-home network expire.
	w.Header().Set("Cache-Control", "no-store")
	preloadPages(w, pages.Pages)

	return views.Reader(pages).Render(r.Context(), w)
}

// redirectExternal sends the reader to the site hosting the chapter, the
// same place the chapter list links to.
func redirectExternal(w http.ResponseWriter, r *http.Request, rawURL string) error {
	target, err := utils.ParseURL(rawURL, "external chapter")
	if err != nil || (target.Scheme != "https" && target.Scheme != "http") {
		return fmt.Errorf("%w: %q", ErrExternalURL, rawURL)
	}

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, rawURL, http.StatusPermanentRedirect)

	return nil
}
