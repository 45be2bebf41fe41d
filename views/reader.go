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
)

// QualityParam selects the image set on the reader page.
const (
	QualityParam     = "quality"
	QualityData      = "data"
	QualityDataSaver = "data-saver"
)

// Reader shows every page of a chapter.
func Reader(pages catalog.ChapterPages) templ.Component {
	title := pages.Label()
	if pages.MangaTitle != "" {
		title = pages.MangaTitle + " " + title
	}

	return Layout(title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)
		self := navigation.HrefID(ctx, resolver.ChapterReader, pages.ID)

		h.raw(`<h1>`)
		h.text(title)
		h.raw(`</h1><nav class="pager">`)

		if pages.MangaID != "" {
			h.link(navigation.HrefID(ctx, resolver.ChapterList, pages.MangaID), i18n.Tr(ctx, "All chapters"), "chapters-link")
		}

		if pages.DataSaver {
			h.link(self+"?"+QualityParam+"="+QualityData, i18n.Tr(ctx, "Full quality"), "quality")
		} else {
			h.link(self+"?"+QualityParam+"="+QualityDataSaver, i18n.Tr(ctx, "Data saver"), "quality")
		}

		h.raw(`</nav><div class="pages">`)

		for i, page := range pages.Pages {
			h.raw(`<img loading="lazy" alt="`)
			h.text(i18n.Tr(ctx, "Page {{.Page}}", "Page", i+1))
			h.raw(`" src="`)
			h.url(page)
			h.raw(`">`)
		}

		h.raw(`</div>`)

		return h.Err()
	}))
}
