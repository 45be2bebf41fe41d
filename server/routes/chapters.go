// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"codeberg.org/mangafe/mangafe/core/catalog"
	"codeberg.org/mangafe/mangafe/server/request_context"
	"codeberg.org/mangafe/mangafe/server/utils"
	"codeberg.org/mangafe/mangafe/views"
)

// ErrPageOutOfRange is returned for a chapter list page past the last one.
var ErrPageOutOfRange = catalog.ErrPageOutOfRange

// ChapterListPage is the handler for the chapter list view.
//
// The "page" query parameter selects a page of the feed, starting at 1.
func ChapterListPage(w http.ResponseWriter, r *http.Request, params map[string]string) error {
	id, err := idParam(params)
	if err != nil {
		return err
	}

	currentPage := utils.GetPageParam(r, "page")
	if currentPage > catalog.MaxFeedPage() {
		return fmt.Errorf("%w: %d", ErrPageOutOfRange, currentPage)
	}

	var data views.ChapterListData

	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		var err error

		data.Manga, err = catalog.GetManga(ctx, id, request_context.FromRequest(r).Languages)

		return err
	})

	g.Go(func() error {
		var err error

		data.Feed, err = catalog.GetChapterFeed(ctx, id, currentPage)

		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if currentPage > data.Feed.PageCount() {
		return fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, currentPage, data.Feed.PageCount())
	}

	setPublicCache(w)

	return views.ChapterList(data).Render(r.Context(), w)
}
