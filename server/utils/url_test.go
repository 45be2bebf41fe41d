// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/mangafe/mangafe/server/utils"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		expected string
	}{
		{"Valid URL", "https://api.mangadex.org", false, "https://api.mangadex.org"},
		{"Valid URL with path", "https://example.com/api", false, "https://example.com/api"},
		{"Missing scheme", "api.mangadex.org", true, ""},
		{"Missing host", "https://", true, ""},
		{"Trailing slash", "https://uploads.mangadex.org/", false, "https://uploads.mangadex.org"},
		{"Path with trailing slash", "https://example.com/api/", false, "https://example.com/api"},
		{"Empty URL", "", true, ""},
		{"URL with query params", "https://example.com/path?q=test", false, "https://example.com/path?q=test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseURL(tt.urlStr, "Test")
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestGetPageParam(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"/chapters/7":          1,
		"/chapters/7?page=3":   3,
		"/chapters/7?page=0":   1,
		"/chapters/7?page=-2":  1,
		"/chapters/7?page=two": 1,
	}

	for target, want := range tests {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		assert.Equal(t, want, utils.GetPageParam(r, "page"), target)
	}
}

func TestGetQueryParam(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/read/1?quality=data-saver", nil)

	assert.Equal(t, "data-saver", utils.GetQueryParam(r, "quality"))
	assert.Equal(t, "fallback", utils.GetQueryParam(r, "missing", "fallback"))
	assert.Empty(t, utils.GetQueryParam(r, "missing"))
}

func TestGetMapParam(t *testing.T) {
	t.Parallel()

	params := map[string]string{"id": "42", "empty": ""}

	assert.Equal(t, "42", utils.GetMapParam(params, "id"))
	assert.Equal(t, "d", utils.GetMapParam(params, "empty", "d"))
	assert.Empty(t, utils.GetMapParam(nil, "id"))
}

func TestGetOriginFromURL(t *testing.T) {
	t.Parallel()

	u, _ := url.Parse("https://uploads.mangadex.org/covers/x")
	assert.Equal(t, "https://uploads.mangadex.org", utils.GetOriginFromURL(*u))
	assert.Empty(t, utils.GetOriginFromURL(url.URL{Path: "/relative"}))
}

func TestJoinPath(t *testing.T) {
	t.Parallel()

	u, _ := url.Parse("https://example.com/api?x=1")
	assert.Equal(t, "https://example.com/api/manga/42", utils.JoinPath(*u, "manga", "42"))
}

func TestIsConnectionSecure(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.2:1234"
	assert.False(t, utils.IsConnectionSecure(r))

	r.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, utils.IsConnectionSecure(r))

	r.RemoteAddr = "203.0.113.9:1234"
	assert.False(t, utils.IsConnectionSecure(r))

	r.TLS = &tls.ConnectionState{}
	assert.True(t, utils.IsConnectionSecure(r))
}
