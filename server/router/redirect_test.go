// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/server/navigation"
)

func TestRedirectToRoute(t *testing.T) {
	t.Parallel()

	nav, err := navigation.New(resolver.Manga(), "/reader/", stubViews(nil))
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /title/{id}", redirectToRoute(nav, resolver.MangaDetail))
	mux.HandleFunc("GET /chapter/{id}", redirectToRoute(nav, resolver.ChapterReader))
	mux.HandleFunc("GET /broken/{id}", redirectToRoute(nav, "settings"))

	tests := []struct {
		target       string
		wantStatus   int
		wantLocation string
	}{
		{"/title/a96676e5-8ae2-425e-b549-7f15dd34a6d8", http.StatusPermanentRedirect, "/reader/manga/a96676e5-8ae2-425e-b549-7f15dd34a6d8"},
		{"/chapter/42", http.StatusPermanentRedirect, "/reader/read/42"},
		{"/broken/42", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.target, nil))

		assert.Equal(t, tt.wantStatus, rr.Code, tt.target)
		assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"), tt.target)
	}
}
