// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/mangafe/mangafe/server/request_context"
	"codeberg.org/mangafe/mangafe/views"
)

// ErrorPage renders an error page from the request context.
//
// The status code must already have been written.
func ErrorPage(w http.ResponseWriter, r *http.Request) error {
	rc := request_context.FromRequest(r)

	return views.Error(views.ErrorData{
		StatusCode: rc.StatusCode,
		Error:      rc.RequestError,
		RequestID:  rc.RequestID,
	}).Render(r.Context(), w)
}
