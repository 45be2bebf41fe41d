// Copyright 2025, the MangaFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package catalog reads manga, chapters and page images from a MangaDex-compatible API.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"codeberg.org/mangafe/mangafe/config"
	"codeberg.org/mangafe/mangafe/core/requests"
)

var (
	// ErrNotFound is returned when the upstream has no entry for an id.
	ErrNotFound = errors.New("not found")

	errMissingData = errors.New("response has no data")
)

// GetLatest returns recently updated manga in the configured languages.
func GetLatest(ctx context.Context, prefs []language.Tag) ([]Manga, error) {
	resp, err := requests.GetJSON(ctx, GetLatestURL(LatestPageSize, config.Global.Reader.Languages))
	if err != nil {
		return nil, fmt.Errorf("fetching latest manga: %w", err)
	}

	data := gjson.GetBytes(resp, "data")
	if !data.IsArray() {
		return nil, fmt.Errorf("fetching latest manga: %w", errMissingData)
	}

	list := make([]Manga, 0, len(data.Array()))

	data.ForEach(func(_, value gjson.Result) bool {
		list = append(list, parseManga(value, prefs))

		return true
	})

	return list, nil
}

// GetManga returns a single manga.
func GetManga(ctx context.Context, id string, prefs []language.Tag) (Manga, error) {
	resp, err := requests.GetJSON(ctx, GetMangaURL(id))
	if err != nil {
		return Manga{}, wrapNotFound(err, "manga", id)
	}

	data := gjson.GetBytes(resp, "data")
	if !data.IsObject() {
		return Manga{}, fmt.Errorf("fetching manga %s: %w", id, errMissingData)
	}

	return parseManga(data, prefs), nil
}

// GetMangaDetail fetches a manga and its chapter count concurrently.
func GetMangaDetail(ctx context.Context, id string, prefs []language.Tag) (MangaDetail, error) {
	var detail MangaDetail

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		detail.Manga, err = GetManga(ctx, id, prefs)

		return err
	})

	g.Go(func() error {
		var err error

		detail.ChapterCount, err = CountChapters(ctx, id)

		return err
	})

	if err := g.Wait(); err != nil {
		return MangaDetail{}, err
	}

	return detail, nil
}

// parseManga reads a manga object with its relationships.
func parseManga(value gjson.Result, prefs []language.Tag) Manga {
	attrs := value.Get("attributes")
	id := value.Get("id").String()

	var titles localizedText

	titles.addObject(attrs.Get("title"))
	attrs.Get("altTitles").ForEach(func(_, alt gjson.Result) bool {
		titles.addObject(alt)

		return true
	})

	var description localizedText

	description.addObject(attrs.Get("description"))

	m := Manga{
		ID:          id,
		Title:       titles.best(prefs),
		Description: description.best(prefs),
		Status:      attrs.Get("status").String(),
		Year:        int(attrs.Get("year").Int()),
		Rating:      attrs.Get("contentRating").String(),
		LastChapter: attrs.Get("lastChapter").String(),
		UpdatedAt:   parseTime(attrs.Get("updatedAt").String()),
	}

	m.AltTitles = titles.others(m.Title)

	attrs.Get("tags").ForEach(func(_, tag gjson.Result) bool {
		var name localizedText

		name.addObject(tag.Get("attributes.name"))

		if n := name.best(prefs); n != "" {
			m.Tags = append(m.Tags, n)
		}

		return true
	})

	value.Get("relationships").ForEach(func(_, rel gjson.Result) bool {
		switch rel.Get("type").String() {
		case "cover_art":
			m.CoverURL = GetCoverURL(id, rel.Get("attributes.fileName").String())
		case "author", "artist":
			if name := rel.Get("attributes.name").String(); name != "" && !slices.Contains(m.Authors, name) {
				m.Authors = append(m.Authors, name)
			}
		}

		return true
	})

	return m
}

// wrapNotFound turns an upstream 404 into ErrNotFound.
func wrapNotFound(err error, kind, id string) error {
	if requests.IsNotFound(err) {
		return fmt.Errorf("%s %s: %w: %w", kind, id, ErrNotFound, err)
	}

	return fmt.Errorf("fetching %s %s: %w", kind, id, err)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}

	return t
}
