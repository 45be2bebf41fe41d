// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/resolver"
	"codeberg.org/mangafe/mangafe/i18n"
	"codeberg.org/mangafe/mangafe/server/navigation"
)

const siteName = "MangaFE"

const stylesheet = `
body{margin:0;font-family:system-ui,sans-serif;background:#111;color:#eee}
a{color:#8cf}
header,footer{padding:.75rem 1rem;background:#1b1b1b}
main{max-width:64rem;margin:0 auto;padding:1rem}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(10rem,1fr));gap:1rem;list-style:none;padding:0}
.grid img{width:100%;aspect-ratio:2/3;object-fit:cover}
.chapters{list-style:none;padding:0}
.chapters li{padding:.4rem 0;border-bottom:1px solid #333}
.pages img{display:block;max-width:100%;margin:0 auto .5rem}
.pager{display:flex;gap:1rem;justify-content:center;padding:1rem}
.muted{color:#999}
`

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTMLWriter(ctx, w)

		h.raw(`<!DOCTYPE html><html lang="`)
		h.text(i18n.Locale(ctx).String())
		h.raw(`"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<meta name="referrer" content="no-referrer">`)
		h.raw(`<title>`)

		if title != "" {
			h.text(title)
			h.raw(` - `)
		}

		h.text(siteName)
		h.raw(`</title><style>`, stylesheet, `</style></head><body>`)

		h.raw(`<header><nav>`)
		h.link(navigation.Href(ctx, resolver.Home, nil), siteName, "brand")
		h.raw(`</nav></header><main>`)

		h.component(body)

		h.raw(`</main><footer class="muted">`)
		h.text(siteName + " " + config.BuildVersion)
		h.raw(` · `)
		h.link(config.Global.Instance.RepoURL, i18n.Tr(ctx, "source"))
		h.raw(`</footer></body></html>`)

		return h.Err()
	})
}
