// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"codeberg.org/mangafe/mangafe/core/catalog"
	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/i18n"
	"codeberg.org/mangafe/mangafe/server/navigation"
	"codeberg.org/mangafe/mangafe/server/template"
)

// MangaDetail shows a manga's attributes and links to its chapters.
func MangaDetail(detail catalog.MangaDetail) templ.Component {
	return Layout(detail.Title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)

		h.raw(`<article class="manga">`)

		if detail.CoverURL != "" {
			h.raw(`<img class="cover" alt="" src="`)
			h.url(detail.CoverURL)
			h.raw(`">`)
		}

		h.raw(`<h1>`)
		h.text(detail.Title)
		h.raw(`</h1>`)

		if len(detail.AltTitles) > 0 {
			h.raw(`<p class="alt-titles muted">`)
			h.text(strings.Join(detail.AltTitles, " · "))
			h.raw(`</p>`)
		}

		h.raw(`<dl>`)
		definition(h, "Authors", strings.Join(detail.Authors, ", "))
		definition(h, "Status", template.Capitalize(detail.Status))

		if detail.Year > 0 {
			definition(h, "Year", strconv.Itoa(detail.Year))
		}

		definition(h, "Rating", template.Capitalize(detail.Rating))
		h.raw(`</dl>`)

		if len(detail.Tags) > 0 {
			h.raw(`<ul class="tags">`)

			for _, tag := range detail.Tags {
				h.raw(`<li>`)
				h.text(tag)
				h.raw(`</li>`)
			}

			h.raw(`</ul>`)
		}

		if detail.Description != "" {
			h.raw(`<p class="description">`)
			h.text(detail.Description)
			h.raw(`</p>`)
		}

		h.raw(`<p>`)
		h.link(
			navigation.HrefID(ctx, resolver.ChapterList, detail.ID),
			i18n.TrN(ctx, "{{.Count}} chapter", "{{.Count}} chapters", detail.ChapterCount,
				"Count", template.PrettyNumber(detail.ChapterCount)),
			"chapters-link",
		)
		h.raw(`</p></article>`)

		return h.Err()
	}))
}

func definition(h *htmlWriter, term i18n.MsgKey, value string) {
	if value == "" {
		return
	}

	h.raw(`<dt>`)
	h.component(term)
	h.raw(`</dt><dd>`)
	h.text(value)
	h.raw(`</dd>`)
}
