// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/mangafe/mangafe/core/catalog"
	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/i18n"
	"codeberg.org/mangafe/mangafe/server/navigation"
	"codeberg.org/mangafe/mangafe/server/template"
)

// Home lists recently updated manga.
func Home(list []catalog.Manga) templ.Component {
	return Layout("", templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)

		h.raw(`<h1>`)
		h.text(i18n.Tr(ctx, "Latest updates"))
		h.raw(`</h1>`)

		if len(list) == 0 {
			h.raw(`<p class="muted">`)
			h.text(i18n.Tr(ctx, "Nothing here yet."))
			h.raw(`</p>`)

			return h.Err()
		}

		h.raw(`<ul class="grid">`)

		for _, m := range list {
			href := navigation.HrefID(ctx, resolver.MangaDetail, m.ID)

			h.raw(`<li class="manga-card"><a href="`)
			h.url(href)
			h.raw(`">`)

			if m.CoverURL != "" {
				h.raw(`<img loading="lazy" alt="" src="`)
				h.url(m.CoverURL)
				h.raw(`">`)
			}

			h.raw(`<span class="title">`)
			h.text(m.Title)
			h.raw(`</span></a>`)

			if m.LastChapter != "" || !m.UpdatedAt.IsZero() {
				h.raw(`<div class="muted">`)

				if m.LastChapter != "" {
					h.text("Ch. " + m.LastChapter + " ")
				}

				h.text(template.RelativeTime(m.UpdatedAt))
				h.raw(`</div>`)
			}

			h.raw(`</li>`)
		}

		h.raw(`</ul>`)

		return h.Err()
	}))
}
