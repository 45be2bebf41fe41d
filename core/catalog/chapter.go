// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/requests"
	"codeberg.org/mangafe/mangafe/server/utils"
)

// ErrPageOutOfRange is returned for a feed page the upstream cannot serve.
var ErrPageOutOfRange = errors.New("page out of range")

// maxFeedWindow bounds offset+limit on upstream list endpoints.
const maxFeedWindow = 10000

// MaxFeedPage returns the last chapter feed page reachable upstream with the
// configured page size.
func MaxFeedPage() int {
	return max(maxFeedWindow/max(config.Global.Reader.ChapterPageSize, 1), 1)
}

// CountChapters returns how many chapters of a manga exist in the configured languages.
func CountChapters(ctx context.Context, mangaID string) (int, error) {
	resp, err := requests.GetJSON(ctx, GetChapterFeedURL(mangaID, config.Global.Reader.Languages, 1, 0))
	if err != nil {
		return 0, wrapNotFound(err, "chapter feed", mangaID)
	}

	return int(gjson.GetBytes(resp, "total").Int()), nil
}

// GetChapterFeed returns one page of a manga's chapters, oldest first.
//
// page is 1-based; the page size comes from Reader.ChapterPageSize. Pages
// past [MaxFeedPage] fail with [ErrPageOutOfRange] without a request.
func GetChapterFeed(ctx context.Context, mangaID string, page int) (ChapterFeed, error) {
	page = max(page, 1)
	size := config.Global.Reader.ChapterPageSize

	if page > MaxFeedPage() {
		return ChapterFeed{}, fmt.Errorf("%w: %d of at most %d", ErrPageOutOfRange, page, MaxFeedPage())
	}

	resp, err := requests.GetJSON(ctx, GetChapterFeedURL(mangaID, config.Global.Reader.Languages, size, (page-1)*size))
	if err != nil {
		return ChapterFeed{}, wrapNotFound(err, "chapter feed", mangaID)
	}

	result := gjson.ParseBytes(resp)

	feed := ChapterFeed{
		MangaID:  mangaID,
		Page:     page,
		PageSize: size,
		Total:    int(result.Get("total").Int()),
	}

	result.Get("data").ForEach(func(_, value gjson.Result) bool {
		chapter := parseChapter(value)
		if chapter.MangaID == "" {
			chapter.MangaID = mangaID
		}

		feed.Chapters = append(feed.Chapters, chapter)

		return true
	})

	return feed, nil
}

// GetChapter returns a chapter with the title of its manga.
func GetChapter(ctx context.Context, id string, prefs []language.Tag) (Chapter, error) {
	resp, err := requests.GetJSON(ctx, GetChapterURL(id))
	if err != nil {
		return Chapter{}, wrapNotFound(err, "chapter", id)
	}

	data := gjson.GetBytes(resp, "data")
	if !data.IsObject() {
		return Chapter{}, fmt.Errorf("fetching chapter %s: %w", id, errMissingData)
	}

	chapter := parseChapter(data)

	data.Get("relationships").ForEach(func(_, rel gjson.Result) bool {
		if rel.Get("type").String() != "manga" {
			return true
		}

		var titles localizedText

		titles.addObject(rel.Get("attributes.title"))
		chapter.MangaTitle = titles.best(prefs)

		return false
	})

	return chapter, nil
}

// GetChapterPages fetches chapter metadata and its page images concurrently.
//
// dataSaver selects the compressed image set. Externally hosted chapters come
// back with ExternalURL set and no Pages.
func GetChapterPages(ctx context.Context, id string, dataSaver bool, prefs []language.Tag) (ChapterPages, error) {
	var pages ChapterPages

	pages.DataSaver = dataSaver

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		pages.Chapter, err = GetChapter(ctx, id, prefs)

		return err
	})

	g.Go(func() error {
		var err error

		pages.Pages, err = getPageURLs(ctx, id, dataSaver)

		return err
	})

	if err := g.Wait(); err != nil {
		return ChapterPages{}, err
	}

	return pages, nil
}

// getPageURLs asks the at-home network for an image server and builds
// "{baseUrl}/{data|data-saver}/{hash}/{file}" for every page.
func getPageURLs(ctx context.Context, chapterID string, dataSaver bool) ([]string, error) {
	resp, err := requests.GetJSON(ctx, GetAtHomeServerURL(chapterID))
	if err != nil {
		return nil, wrapNotFound(err, "chapter pages", chapterID)
	}

	result := gjson.ParseBytes(resp)

	base, err := utils.ParseURL(result.Get("baseUrl").String(), "image server")
	if err != nil {
		return nil, err
	}

	hash := result.Get("chapter.hash").String()

	quality, files := "data", result.Get("chapter.data")
	if dataSaver {
		quality, files = "data-saver", result.Get("chapter.dataSaver")
	}

	urls := make([]string, 0, len(files.Array()))

	files.ForEach(func(_, file gjson.Result) bool {
		urls = append(urls, utils.JoinPath(*base, quality, hash, url.PathEscape(file.String())))

		return true
	})

	return urls, nil
}

func parseChapter(value gjson.Result) Chapter {
	attrs := value.Get("attributes")

	chapter := Chapter{
		ID:          value.Get("id").String(),
		Volume:      attrs.Get("volume").String(),
		Number:      attrs.Get("chapter").String(),
		Title:       attrs.Get("title").String(),
		Language:    attrs.Get("translatedLanguage").String(),
		Pages:       int(attrs.Get("pages").Int()),
		PublishAt:   parseTime(attrs.Get("publishAt").String()),
		ExternalURL: attrs.Get("externalUrl").String(),
	}

	value.Get("relationships").ForEach(func(_, rel gjson.Result) bool {
		if rel.Get("type").String() == "manga" {
			chapter.MangaID = rel.Get("id").String()

			return false
		}

		return true
	})

	return chapter
}
