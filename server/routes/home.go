// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/mangafe/mangafe/core/catalog"
	"codeberg.org/mangafe/mangafe/server/request_context"
	"codeberg.org/mangafe/mangafe/views"
)

// HomePage is the handler for the home view.
func HomePage(w http.ResponseWriter, r *http.Request, _ map[string]string) error {
	list, err := catalog.GetLatest(r.Context(), request_context.FromRequest(r).Languages)
	if err != nil {
		return err
	}

	w.Header().Set("Cache-Control", "no-store")

	return views.Home(list).Render(r.Context(), w)
}
