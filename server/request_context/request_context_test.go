// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package request_context

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestWithRequestContext(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "ja;q=0.5, pt-BR, en;q=0.8")

	rc := FromContext(WithRequestContext(context.Background(), r))

	assert.NotEmpty(t, rc.RequestID)
	assert.Equal(t, http.StatusOK, rc.StatusCode)
	require.Len(t, rc.Languages, 3)
	assert.Equal(t, language.BrazilianPortuguese, rc.Languages[0])
	assert.Equal(t, language.English, rc.Languages[1])
	assert.Equal(t, language.Japanese, rc.Languages[2])
}

func TestFromContextWithoutRequestContext(t *testing.T) {
	t.Parallel()

	rc := FromContext(context.Background())
	require.NotNil(t, rc)
	assert.Empty(t, rc.RequestID)
	assert.Nil(t, rc.Params)
}

func TestMalformedAcceptLanguage(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "!!!;q=x")

	assert.Empty(t, FromRequest(r.WithContext(WithRequestContext(r.Context(), r))).Languages)
}
