// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package views renders the application's pages as templ components.
package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and keeps the first error, so components can
// emit a page without checking every write.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTMLWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

// raw writes trusted markup as-is.
func (h *htmlWriter) raw(s ...string) {
	for _, part := range s {
		if h.err != nil {
			return
		}

		_, h.err = io.WriteString(h.w, part)
	}
}

// text writes escaped text content or attribute values.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) int(n int) {
	h.raw(strconv.Itoa(n))
}

// url writes a sanitized, escaped URL for use inside href or src.
func (h *htmlWriter) url(s string) {
	h.text(string(templ.URL(s)))
}

// link writes <a href="href">label</a>.
func (h *htmlWriter) link(href, label string, class ...string) {
	h.raw(`<a href="`)
	h.url(href)
	h.raw(`"`)

	if len(class) > 0 {
		h.raw(` class="`)
		h.text(class[0])
		h.raw(`"`)
	}

	h.raw(`>`)
	h.text(label)
	h.raw(`</a>`)
}

func (h *htmlWriter) component(c templ.Component) {
	if h.err != nil {
		return
	}

	h.err = c.Render(h.ctx, h.w)
}

func (h *htmlWriter) Err() error {
	return h.err
}
