// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/mangafe/mangafe/core/catalog"
	"codeberg.org/mangafe/mangafe/server/request_context"
	"codeberg.org/mangafe/mangafe/views"
)

// MangaDetailPage is the handler for the manga detail view.
func MangaDetailPage(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	id, err := idParam(params)
	if err != nil {
		return err
	}

	detail, err := catalog.GetMangaDetail(r.Context(), id, request_context.FromRequest(r).Languages)
	if err != nil {
		return err
	}

	setPublicCache(w)

	return views.MangaDetail(detail).Render(r.Context(), w)
}
