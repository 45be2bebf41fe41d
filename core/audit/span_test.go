// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package audit

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHumanizeSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512", humanizeSize(512))
	assert.Equal(t, "1.50K", humanizeSize(1536))
	assert.Equal(t, "2.00M", humanizeSize(2*bytesInMB))
	assert.Equal(t, "1.00G", humanizeSize(bytesInGB))
}

func TestSpanServerTimingName(t *testing.T) {
	t.Parallel()

	span := Span{Destination: ToUpstream, Method: "GET", URL: "https://api.mangadex.org/manga"}
	parts := strings.Split(span.ServerTimingName(), "$")

	assert.Len(t, parts, 3)
	assert.Equal(t, "upstream", parts[0])
	assert.Equal(t, "GET", parts[1])

	decoded, err := base64.RawURLEncoding.DecodeString(parts[2])
	assert.NoError(t, err)
	assert.Equal(t, span.URL, string(decoded))
}

func TestSpanEndIsIdempotent(t *testing.T) {
	t.Parallel()

	span := Span{Destination: ToUser, Method: "GET", URL: "/"}
	_ = span.Begin(context.Background())

	span.End()
	first := span.Duration()
	span.End()

	assert.Equal(t, first, span.Duration())
}
