// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"codeberg.org/mangafe/mangafe/core/catalog"
	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/i18n"
	"codeberg.org/mangafe/mangafe/server/navigation"
	"codeberg.org/mangafe/mangafe/server/template"
)

// ChapterListData is the data used to render a chapter list page.
type ChapterListData struct {
	Manga catalog.Manga
	Feed  catalog.ChapterFeed
}

// ChapterList shows one page of a manga's chapter feed.
func ChapterList(data ChapterListData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		self := navigation.HrefID(ctx, resolver.ChapterList, data.Feed.MangaID)

		h.raw(`<h1>`)
		h.link(navigation.HrefID(ctx, resolver.MangaDetail, data.Feed.MangaID), data.Manga.Title)
		h.raw(`</h1>`)

		if len(data.Feed.Chapters) == 0 {
			h.raw(`<p class="muted">`)
			h.text(i18n.Tr(ctx, "No chapters in the configured languages."))
			h.raw(`</p>`)

			return h.Err()
		}

		h.raw(`<ol class="chapters">`)

		for _, chapter := range data.Feed.Chapters {
			h.raw(`<li>`)

			label := chapter.Label()
			if chapter.Title != "" {
				label += ": " + chapter.Title
			}

			if chapter.ExternalURL != "" {
				h.link(chapter.ExternalURL, label, "external")
			} else {
				h.link(navigation.HrefID(ctx, resolver.ChapterReader, chapter.ID), label)
			}

			h.raw(` <span class="muted">`)
			h.text("[" + chapter.Language + "] " + template.RelativeTime(chapter.PublishAt))
			h.raw(`</span></li>`)
		}

		h.raw(`</ol><nav class="pager">`)

		if data.Feed.HasPrev() {
			h.link(self+"?page="+strconv.Itoa(data.Feed.Page-1), i18n.Tr(ctx, "Previous"), "prev")
		}

		h.raw(`<span>`)
		h.text(i18n.Tr(ctx, "Page {{.Page}} of {{.Total}}", "Page", data.Feed.Page, "Total", data.Feed.PageCount()))
		h.raw(`</span>`)

		if data.Feed.HasNext() {
			h.link(self+"?page="+strconv.Itoa(data.Feed.Page+1), i18n.Tr(ctx, "Next"), "next")
		}

		h.raw(`</nav>`)

		return h.Err()
	})

	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := i18n.Tr(ctx, "{{.Title}} chapters", "Title", data.Manga.Title)

		return Layout(title, body).Render(ctx, w)
	})
}
