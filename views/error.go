// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/i18n"
	"codeberg.org/mangafe/mangafe/server/navigation"
)

// ErrorData is the data used to render an error page.
type ErrorData struct {
	StatusCode int
	Error      error
	RequestID  string
}

// Error renders an error page for a failed request.
func Error(data ErrorData) templ.Component {
	status := http.StatusText(data.StatusCode)
	if status == "" {
		status = "Error"
	}

	return Layout(status, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)

		h.raw(`<h1>`)
		h.text(strconv.Itoa(data.StatusCode) + " " + status)
		h.raw(`</h1>`)

		if data.StatusCode == http.StatusNotFound {
			h.raw(`<p>`)
			h.text(i18n.Tr(ctx, "This page does not exist."))
			h.raw(`</p>`)
		} else if data.Error != nil {
			h.raw(`<pre class="error">`)
			h.text(data.Error.Error())
			h.raw(`</pre>`)
		}

		if data.RequestID != "" {
			h.raw(`<p class="muted">`)
			h.text(i18n.Tr(ctx, "Request ID:"))
			h.raw(` <code>`)
			h.text(data.RequestID)
			h.raw(`</code></p>`)
		}

		h.raw(`<p>`)
		h.link(navigation.Href(ctx, resolver.Home, nil), i18n.Tr(ctx, "Back to the latest updates"))
		h.raw(`</p>`)

		return h.Err()
	}))
}
